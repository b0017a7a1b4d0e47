package inkpress

import "time"

// Post is one markdown source file after parsing and rendering. It is built
// fresh on every generation run and discarded once the output is written.
type Post struct {
	Filename string    // original source filename, with extension
	Title    string    // from frontmatter, or the filename stem
	Date     time.Time // from frontmatter, or the generation time
	Tags     []string
	Slug     string // URL-safe key: output filename and link target
	Content  string // rendered HTML body, immutable after parse
	Image    string // featured image filename, empty when absent
}

// SkippedFile records a source file that failed to parse or render.
// The run continues without it.
type SkippedFile struct {
	Filename string
	Err      error
}

// BuildResult summarizes one generation run.
type BuildResult struct {
	Posts   []Post        // posts written, newest first
	Skipped []SkippedFile // source files excluded from the run
	Elapsed time.Duration
}
