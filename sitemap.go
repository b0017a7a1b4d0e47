package inkpress

import (
	"bytes"
	"encoding/xml"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap serializes the site URL plus one entry per post into a
// sitemap.org urlset document.
func buildSitemap(cfg SiteConfig, posts []Post) ([]byte, error) {
	urls := []sitemapURL{
		{Loc: cfg.URL},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(cfg.URL, p.Slug+".html"),
			LastMod: isoDate(p.Date),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemap); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// buildRobots emits a robots.txt pointing crawlers at the sitemap.
func buildRobots(cfg SiteConfig) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + BuildURL(cfg.URL, "sitemap.xml") + "\n"
}
