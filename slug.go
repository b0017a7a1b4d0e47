package inkpress

import (
	"path/filepath"
	"regexp"
	"strings"
)

// slugFallback is used when a filename contains no alphanumeric characters
// at all, since an empty slug would produce an invalid output path.
const slugFallback = "untitled"

var datePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// Slugify derives the URL-safe output name for a post from its source
// filename: the extension and any leading YYYY-MM-DD- date prefix are
// stripped, the remainder is lowercased, every character outside [a-z0-9-]
// becomes a hyphen, runs of hyphens collapse to one, and leading/trailing
// hyphens are trimmed.
func Slugify(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = datePrefixRe.ReplaceAllString(name, "")
	name = strings.ToLower(name)

	var b strings.Builder
	prev := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		case r == '-':
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
			}
			prev = true
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
			}
			prev = true
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return slugFallback
	}
	return slug
}
