package inkpress

import (
	"strings"
	"time"
)

// feedItemLimit caps the feed at the most recent posts; readers poll feeds
// constantly and never need the full archive.
const feedItemLimit = 10

// xmlEscaper covers the five XML entities. The feed is written by hand
// rather than through encoding/xml so quotes come out as the conventional
// `&quot;` form feed validators expect.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// buildRSS serializes the ordered post collection into an RSS 2.0 document.
// posts must already be sorted newest first; only the first feedItemLimit
// are included. Item descriptions reuse the same excerpt shown on the index.
func buildRSS(cfg SiteConfig, posts []Post) string {
	items := posts
	if len(items) > feedItemLimit {
		items = items[:feedItemLimit]
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0">` + "\n")
	b.WriteString("  <channel>\n")
	b.WriteString("    <title>" + escapeXML(cfg.Name) + "</title>\n")
	b.WriteString("    <link>" + escapeXML(cfg.URL) + "</link>\n")
	b.WriteString("    <description>" + escapeXML(cfg.Description) + "</description>\n")

	for _, p := range items {
		link := BuildURL(cfg.URL, p.Slug+".html")
		b.WriteString("    <item>\n")
		b.WriteString("      <title>" + escapeXML(p.Title) + "</title>\n")
		b.WriteString("      <link>" + escapeXML(link) + "</link>\n")
		b.WriteString("      <guid>" + escapeXML(link) + "</guid>\n")
		b.WriteString("      <pubDate>" + p.Date.Format(time.RFC1123) + "</pubDate>\n")
		b.WriteString("      <description>" + escapeXML(Excerpt(p.Content)) + "</description>\n")
		b.WriteString("    </item>\n")
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}
