package site

import (
	"encoding/xml"
	"net/url"
	"sort"
	"strings"
)

// SitemapFile is written only when the base URL is an absolute http(s) URL.
const SitemapFile = "sitemap.xml"

// sitemapEnabled reports whether baseURL can prefix sitemap locations.
func sitemapEnabled(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// buildSitemap lists the index page and every post, sorted by location.
// No lastmod is emitted so rebuilds stay byte-identical.
func buildSitemap(baseURL string, posts []*Post) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")

	locations := make([]string, 0, len(posts)+1)
	seen := map[string]struct{}{}
	add := func(loc string) {
		if _, ok := seen[loc]; ok {
			return
		}
		seen[loc] = struct{}{}
		locations = append(locations, loc)
	}
	add(base + "/index.html")
	for _, p := range posts {
		add(p.URL(base))
	}
	sort.Strings(locations)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, loc := range locations {
		builder.WriteString("  <url>\n")
		builder.WriteString("    <loc>")
		_ = xml.EscapeText(&builder, []byte(loc))
		builder.WriteString("</loc>\n")
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String()
}
