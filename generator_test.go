package inkpress

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testPostTemplate = `<html><head><title>{{TITLE}} - {{SITE_NAME}}</title></head>
<body>
<h1 class="post-title">{{TITLE}}</h1>
<time datetime="{{DATE}}">{{FORMATTED_DATE}}</time>
{{#TAGS}}{{/TAGS}}
{{#FEATURED_IMAGE}}{{/FEATURED_IMAGE}}
<div class="body">{{CONTENT}}</div>
</body></html>`

const testIndexTemplate = `<html><head><title>{{SITE_NAME}}</title></head>
<body>{{POST_LIST}}</body></html>`

// newTestSite lays out a minimal site under a temp dir and returns its root.
func newTestSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"posts", "templates"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	writeFile(t, root, "templates/post.html", testPostTemplate)
	writeFile(t, root, "templates/index.html", testIndexTemplate)
	writeFile(t, root, "templates/styles.css", "body { margin: 0 }")
	return root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func readOutput(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "output", rel))
	if err != nil {
		t.Fatalf("read output %s: %v", rel, err)
	}
	return string(data)
}

func newTestGenerator(root string) *Generator {
	cfg := SiteConfig{
		Name:    "Test Blog",
		URL:     "https://example.com",
		RootDir: root,
	}
	return New(cfg, WithNow(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}))
}

func TestBuildFullPost(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "posts/2026-02-25-welcome.md",
		"---\ntitle: Welcome\ndate: 2026-02-25\ntags: intro, news\n---\n# Hi\n")

	result, err := newTestGenerator(root).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Posts) != 1 || len(result.Skipped) != 0 {
		t.Fatalf("got %d posts, %d skipped", len(result.Posts), len(result.Skipped))
	}

	page := readOutput(t, root, "welcome.html")
	for _, want := range []string{
		"<h1>Hi</h1>",
		`<h1 class="post-title">Welcome</h1>`,
		`datetime="2026-02-25"`,
		"February 25, 2026",
		`<span class="tags">intro, news</span>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("welcome.html missing %q:\n%s", want, page)
		}
	}
}

func TestBuildNoFrontmatterDefaults(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "posts/no-frontmatter.md", "Hello world")

	if _, err := newTestGenerator(root).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	page := readOutput(t, root, "no-frontmatter.html")
	if !strings.Contains(page, `<h1 class="post-title">no-frontmatter</h1>`) {
		t.Errorf("title not defaulted to filename stem:\n%s", page)
	}
	if !strings.Contains(page, "Hello world") {
		t.Errorf("body missing:\n%s", page)
	}
	// Date defaults to the (injected) current date.
	if !strings.Contains(page, `datetime="2026-03-01"`) {
		t.Errorf("date not defaulted to current date:\n%s", page)
	}
}

func TestBuildIndexOrdering(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "posts/first.md", "---\ntitle: First\ndate: 2026-01-01\n---\nold")
	writeFile(t, root, "posts/second.md", "---\ntitle: Second\ndate: 2026-01-02\n---\nnew")

	result, err := newTestGenerator(root).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if result.Posts[0].Title != "Second" || result.Posts[1].Title != "First" {
		t.Fatalf("posts not sorted newest first: %v", result.Posts)
	}

	index := readOutput(t, root, "index.html")
	if strings.Index(index, "second.html") > strings.Index(index, "first.html") {
		t.Errorf("index lists older post first:\n%s", index)
	}
}

func TestBuildFeedLimitEndToEnd(t *testing.T) {
	root := newTestSite(t)
	for i := 1; i <= 11; i++ {
		date := fmt.Sprintf("2026-01-%02d", i)
		writeFile(t, root, fmt.Sprintf("posts/%s-entry-%d.md", date, i),
			fmt.Sprintf("---\ntitle: Entry %d\ndate: %s\n---\nbody", i, date))
	}

	if _, err := newTestGenerator(root).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	feed := readOutput(t, root, "rss.xml")
	if got := strings.Count(feed, "<item>"); got != 10 {
		t.Errorf("rss.xml has %d items, want 10", got)
	}
	// The oldest of the eleven posts is the one cut.
	if strings.Contains(feed, "entry-1.html") {
		t.Errorf("oldest post should be cut from feed:\n%s", feed)
	}
	if !strings.Contains(feed, "entry-11.html") {
		t.Errorf("newest post missing from feed:\n%s", feed)
	}
}

func TestBuildExcerptTruncation(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "posts/long.md",
		"---\ntitle: Long\ndate: 2026-01-01\n---\n"+strings.Repeat("a", 300))

	if _, err := newTestGenerator(root).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	index := readOutput(t, root, "index.html")
	want := strings.Repeat("a", 200) + "..."
	if !strings.Contains(index, want) {
		t.Errorf("index excerpt not truncated to 200 chars + ellipsis:\n%s", index)
	}
	if strings.Contains(index, strings.Repeat("a", 201)) {
		t.Errorf("index excerpt longer than 200 chars:\n%s", index)
	}
}

func TestBuildMissingPostsDir(t *testing.T) {
	root := newTestSite(t)
	if err := os.RemoveAll(filepath.Join(root, "posts")); err != nil {
		t.Fatal(err)
	}

	result, err := newTestGenerator(root).Build()
	if err != nil {
		t.Fatalf("Build failed on missing posts dir: %v", err)
	}
	if len(result.Posts) != 0 {
		t.Fatalf("got %d posts, want 0", len(result.Posts))
	}

	// Empty but complete: index and feed still exist.
	if got := readOutput(t, root, "index.html"); !strings.Contains(got, "Test Blog") {
		t.Errorf("empty index malformed:\n%s", got)
	}
	if got := readOutput(t, root, "rss.xml"); strings.Contains(got, "<item>") {
		t.Errorf("empty feed has items:\n%s", got)
	}
}

func TestBuildMissingTemplateFatal(t *testing.T) {
	root := newTestSite(t)
	if err := os.Remove(filepath.Join(root, "templates", "post.html")); err != nil {
		t.Fatal(err)
	}

	if _, err := newTestGenerator(root).Build(); err == nil {
		t.Fatal("Build succeeded without post template")
	}
}

func TestBuildSkipsUnreadableFile(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "posts/good.md", "---\ntitle: Good\ndate: 2026-01-01\n---\nfine")
	// A dangling symlink with a .md name fails on read and must be skipped,
	// not abort the run.
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "posts", "bad.md")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	result, err := newTestGenerator(root).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(result.Posts))
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Filename != "bad.md" {
		t.Fatalf("Skipped = %v, want bad.md", result.Skipped)
	}

	if _, err := os.Stat(filepath.Join(root, "output", "good.html")); err != nil {
		t.Errorf("good post not written: %v", err)
	}
}

func TestBuildWipesStaleOutput(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "output/stale.html", "old run")
	writeFile(t, root, "posts/fresh.md", "---\ntitle: Fresh\ndate: 2026-01-01\n---\nhi")

	if _, err := newTestGenerator(root).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "output", "stale.html")); !os.IsNotExist(err) {
		t.Error("stale output survived the rebuild")
	}
	if _, err := os.Stat(filepath.Join(root, "output", "fresh.html")); err != nil {
		t.Errorf("fresh output missing: %v", err)
	}
}

func TestBuildCopiesAssets(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "templates/images/logo.svg", "<svg/>")
	writeFile(t, root, "posts/images/photo.txt", "not really an image")
	writeFile(t, root, "posts/p.md", "---\ntitle: P\ndate: 2026-01-01\n---\nx")

	if _, err := newTestGenerator(root).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := readOutput(t, root, "styles.css"); got != "body { margin: 0 }" {
		t.Errorf("styles.css not copied verbatim: %q", got)
	}
	if got := readOutput(t, root, "images/logo.svg"); got != "<svg/>" {
		t.Errorf("template image not copied: %q", got)
	}
	if got := readOutput(t, root, "images/posts/photo.txt"); got != "not really an image" {
		t.Errorf("post image not copied verbatim: %q", got)
	}
}

func TestBuildFeaturedImageBlock(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "posts/pic.md",
		"---\ntitle: With Image\ndate: 2026-01-01\nimage: cover.jpg\n---\nbody")
	writeFile(t, root, "posts/plain.md",
		"---\ntitle: No Image\ndate: 2026-01-02\n---\nbody")

	if _, err := newTestGenerator(root).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	withImage := readOutput(t, root, "pic.html")
	if !strings.Contains(withImage, `src="images/posts/cover.jpg"`) {
		t.Errorf("featured image block not rendered:\n%s", withImage)
	}
	plain := readOutput(t, root, "plain.html")
	if strings.Contains(plain, "featured-image") {
		t.Errorf("featured image block should be erased for post without image:\n%s", plain)
	}
}

func TestBuildSitemapAndRobots(t *testing.T) {
	root := newTestSite(t)
	writeFile(t, root, "posts/p.md", "---\ntitle: P\ndate: 2026-01-01\n---\nx")

	if _, err := newTestGenerator(root).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	sitemap := readOutput(t, root, "sitemap.xml")
	for _, want := range []string{
		"<loc>https://example.com</loc>",
		"<loc>https://example.com/p.html</loc>",
		"<lastmod>2026-01-01</lastmod>",
	} {
		if !strings.Contains(sitemap, want) {
			t.Errorf("sitemap missing %q:\n%s", want, sitemap)
		}
	}

	robots := readOutput(t, root, "robots.txt")
	if !strings.Contains(robots, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots.txt missing sitemap line:\n%s", robots)
	}
}
