// Package inkpress is a static-site generator: it reads markdown posts with
// frontmatter from a posts directory, renders them through token-replacement
// HTML templates, and emits an index page, per-post pages, an RSS feed, and
// a sitemap into an output directory.
//
// Every run rebuilds the whole site from scratch. The output directory is
// wiped and recreated, so the result is always a complete, consistent
// replacement rather than an incremental patch.
package inkpress

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/eringen/inkpress/markdown"
)

// Generator runs the build pipeline for one site.
type Generator struct {
	Config SiteConfig

	log *slog.Logger
	now func() time.Time
}

// New creates a Generator for the given site configuration.
func New(cfg SiteConfig, opts ...Option) *Generator {
	cfg.setDefaults()

	g := &Generator{
		Config: cfg,
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Build runs the full pipeline: parse every post, wipe and recreate the
// output directory, copy assets, and write all pages and feeds. Source files
// that fail to parse are skipped and reported in the result; a missing
// template or an unwritable output directory is fatal.
func (g *Generator) Build() (*BuildResult, error) {
	start := g.now()

	postTmpl, err := loadTemplate(g.Config.templatesPath(), "post.html")
	if err != nil {
		return nil, err
	}
	indexTmpl, err := loadTemplate(g.Config.templatesPath(), "index.html")
	if err != nil {
		return nil, err
	}

	posts, skipped := g.readPosts()

	// Newest first. sort.SliceStable keeps source order for equal dates.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})

	outDir := g.Config.outputPath()
	if err := os.RemoveAll(outDir); err != nil {
		return nil, fmt.Errorf("clear output dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	thumbs, err := g.copyAssets()
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		page := g.renderPostPage(postTmpl, p)
		path := filepath.Join(outDir, p.Slug+".html")
		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}

	index := g.renderIndex(indexTmpl, posts, thumbs)
	if err := os.WriteFile(filepath.Join(outDir, "index.html"), []byte(index), 0o644); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	feed := buildRSS(g.Config, posts)
	if err := os.WriteFile(filepath.Join(outDir, "rss.xml"), []byte(feed), 0o644); err != nil {
		return nil, fmt.Errorf("write feed: %w", err)
	}

	sitemap, err := buildSitemap(g.Config, posts)
	if err != nil {
		return nil, fmt.Errorf("build sitemap: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "sitemap.xml"), sitemap, 0o644); err != nil {
		return nil, fmt.Errorf("write sitemap: %w", err)
	}

	robots := buildRobots(g.Config)
	if err := os.WriteFile(filepath.Join(outDir, "robots.txt"), []byte(robots), 0o644); err != nil {
		return nil, fmt.Errorf("write robots.txt: %w", err)
	}

	result := &BuildResult{
		Posts:   posts,
		Skipped: skipped,
		Elapsed: time.Since(start),
	}
	g.log.Info("site built",
		slog.Int("posts", len(posts)),
		slog.Int("skipped", len(skipped)),
		slog.Duration("elapsed", result.Elapsed))
	return result, nil
}

// readPosts parses every markdown file in the posts directory. A missing
// directory means zero posts, not an error. Files that fail to read or
// render are logged and collected as skipped.
func (g *Generator) readPosts() ([]Post, []SkippedFile) {
	dir := g.Config.postsPath()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			g.log.Warn("posts directory missing, generating empty site", slog.String("dir", dir))
			return nil, nil
		}
		g.log.Warn("posts directory unreadable, generating empty site",
			slog.String("dir", dir), slog.Any("error", err))
		return nil, nil
	}

	var posts []Post
	var skipped []SkippedFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		post, err := g.parsePost(dir, entry.Name())
		if err != nil {
			g.log.Warn("skipping post", slog.String("file", entry.Name()), slog.Any("error", err))
			skipped = append(skipped, SkippedFile{Filename: entry.Name(), Err: err})
			continue
		}
		posts = append(posts, post)
	}
	return posts, skipped
}

// parsePost turns one source file into a Post: split frontmatter, apply
// defaults, render the body once.
func (g *Generator) parsePost(dir, filename string) (Post, error) {
	raw, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return Post{}, fmt.Errorf("read: %w", err)
	}

	block, body, found := splitFrontmatter(string(raw))
	var fm Frontmatter
	if found {
		fm = parseFrontmatter(block)
	}

	if fm.BadDate != "" {
		// Unparseable is not the same as omitted: the value is user input
		// that silently defaulting would mask.
		g.log.Warn("unparseable frontmatter date, using current date",
			slog.String("file", filename), slog.String("date", fm.BadDate))
	}

	content, err := markdown.Render(body)
	if err != nil {
		return Post{}, err
	}

	post := Post{
		Filename: filename,
		Title:    fm.Title,
		Date:     fm.Date,
		Tags:     fm.Tags,
		Slug:     Slugify(filename),
		Content:  content,
		Image:    fm.Image,
	}
	if post.Title == "" {
		post.Title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	if !fm.HasDate {
		post.Date = g.now()
	}
	return post, nil
}

// renderPostPage fills the post template for one post.
func (g *Generator) renderPostPage(tmpl string, p Post) string {
	tokens := map[string]string{
		"TITLE":            escapeHTML(p.Title),
		"DATE":             isoDate(p.Date),
		"FORMATTED_DATE":   longDate(p.Date),
		"CONTENT":          p.Content,
		"SITE_NAME":        escapeHTML(g.Config.Name),
		"SITE_URL":         g.Config.URL,
		"SITE_DESCRIPTION": escapeHTML(g.Config.Description),
		"JSON_LD":          BlogPostingJSONLD(p, g.Config),
	}
	blocks := map[string]string{
		"FEATURED_IMAGE": featuredImageFragment(p, "images/posts"),
		"TAGS":           tagsFragment(p.Tags),
	}
	return renderTemplate(tmpl, tokens, blocks)
}

// renderIndex fills the index template with the full post listing.
func (g *Generator) renderIndex(tmpl string, posts []Post, thumbs map[string]string) string {
	var list strings.Builder
	for _, p := range posts {
		list.WriteString(postItemFragment(p, thumbs))
	}
	tokens := map[string]string{
		"POST_LIST":        list.String(),
		"SITE_NAME":        escapeHTML(g.Config.Name),
		"SITE_URL":         g.Config.URL,
		"SITE_DESCRIPTION": escapeHTML(g.Config.Description),
		"JSON_LD":          WebsiteJSONLD(g.Config),
	}
	return renderTemplate(tmpl, tokens, nil)
}

// featuredImageFragment is the generated replacement for a
// {{#FEATURED_IMAGE}} block. Empty when the post has no image.
func featuredImageFragment(p Post, imageBase string) string {
	if p.Image == "" {
		return ""
	}
	return fmt.Sprintf(`<img class="featured-image" src="%s/%s" alt="%s">`,
		imageBase, escapeHTML(p.Image), escapeHTML(p.Title))
}

// tagsFragment is the generated replacement for a {{#TAGS}} block.
// Empty when the post has no tags.
func tagsFragment(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return `<span class="tags">` + escapeHTML(JoinTags(tags)) + `</span>`
}

// postItemFragment is one entry in the index listing: link, formatted date,
// tags when present, and the shared excerpt.
func postItemFragment(p Post, thumbs map[string]string) string {
	var b strings.Builder
	b.WriteString(`<article class="post-item">` + "\n")
	if p.Image != "" {
		src := "images/posts/" + p.Image
		if thumb, ok := thumbs[p.Image]; ok {
			src = thumb
		}
		fmt.Fprintf(&b, `  <img class="post-thumb" src="%s" alt="%s">`+"\n",
			escapeHTML(src), escapeHTML(p.Title))
	}
	fmt.Fprintf(&b, `  <h2><a href="%s.html">%s</a></h2>`+"\n", p.Slug, escapeHTML(p.Title))
	fmt.Fprintf(&b, `  <time datetime="%s">%s</time>`+"\n", isoDate(p.Date), longDate(p.Date))
	if tags := tagsFragment(p.Tags); tags != "" {
		b.WriteString("  " + tags + "\n")
	}
	fmt.Fprintf(&b, `  <p class="excerpt">%s</p>`+"\n", Excerpt(p.Content))
	b.WriteString("</article>\n")
	return b.String()
}
