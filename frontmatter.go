package inkpress

import (
	"strings"
	"time"
)

// Frontmatter is the metadata header of a markdown post. Recognized keys are
// title, date, tags, and image; anything else is ignored so new keys can be
// added to posts before the generator learns about them.
type Frontmatter struct {
	Title   string
	Date    time.Time
	HasDate bool   // distinguishes an omitted date from an unparseable one
	BadDate string // raw value that failed to parse, empty otherwise
	Tags    []string
	Image   string
}

const frontmatterDelimiter = "---"

// dateLayouts are the accepted frontmatter date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
}

// splitFrontmatter separates an optional leading `---` delimited block from
// the markdown body. Both delimiters must sit at the start of a line. If no
// complete block is found, the whole content is the body.
func splitFrontmatter(content string) (block string, body string, found bool) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != frontmatterDelimiter {
		return "", content, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == frontmatterDelimiter {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", content, false
}

// parseFrontmatter extracts recognized key/value pairs from a frontmatter
// block. Each line is split on its first colon; surrounding double quotes on
// a value are stripped when symmetric; tags are a comma-separated list.
func parseFrontmatter(block string) Frontmatter {
	var fm Frontmatter
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = unquote(strings.TrimSpace(value))

		switch key {
		case "title":
			fm.Title = value
		case "date":
			if t, ok := parseDate(value); ok {
				fm.Date = t
				fm.HasDate = true
			} else {
				fm.BadDate = value
			}
		case "tags":
			fm.Tags = splitTags(value)
		case "image":
			fm.Image = value
		}
	}
	return fm
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// unquote strips one pair of surrounding double quotes when symmetric.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

func splitTags(value string) []string {
	return filterEmpty(strings.Split(value, ","))
}

// filterEmpty removes empty/whitespace-only strings from a slice, trimming
// the rest.
func filterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
