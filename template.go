package inkpress

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// placeholderRe matches both placeholder classes in one alternation:
// conditional blocks `{{#NAME}}...{{/NAME}}` (group 1 opens, group 2 closes)
// and simple tokens `{{NAME}}` (group 3). Matching both in a single scan
// means a substituted value is never re-examined, so post content containing
// literal `{{...}}` sequences passes through untouched.
var placeholderRe = regexp.MustCompile(`(?s)\{\{#([A-Z_]+)\}\}.*?\{\{/([A-Z_]+)\}\}|\{\{([A-Z_]+)\}\}`)

// renderTemplate substitutes placeholders in one positional pass.
//
// tokens fills `{{NAME}}` with its literal value. blocks fills
// `{{#NAME}}...{{/NAME}}` spans: a non-empty value replaces the whole span
// (markers included) with that generated fragment, an absent or empty value
// erases the span. Placeholders with no entry in either map are left as-is.
func renderTemplate(tmpl string, tokens, blocks map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		if open := sub[1]; open != "" {
			if open != sub[2] {
				// Mismatched markers like {{#A}}...{{/B}} are not a block.
				return m
			}
			fragment, ok := blocks[open]
			if !ok {
				return m
			}
			return fragment
		}
		if value, ok := tokens[sub[3]]; ok {
			return value
		}
		return m
	})
}

// loadTemplate reads one template file from the templates directory.
// A missing template is fatal for the run: there is no sensible output
// without one.
func loadTemplate(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load template %s: %w", path, err)
	}
	return string(data), nil
}

// escapeHTML escapes user text for the HTML attribute and element contexts
// it lands in. Rendered markdown bodies are inserted raw; only bare user
// values like titles go through this.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
