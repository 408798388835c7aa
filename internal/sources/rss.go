package sources

import (
	"encoding/xml"
	"regexp"
	"strings"
)

// Minimal RSS 2.0 shape shared by the scam and amber feeds.
type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Description string   `xml:"description"`
	Content     string   `xml:"encoded"`
	Link        string   `xml:"link"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func parseRSS(raw string) ([]rssItem, error) {
	var doc rssDocument
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return doc.Channel.Items, nil
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// cleanHTML strips markup and decodes the handful of entities feed
// bodies actually use, then collapses whitespace.
func cleanHTML(html string) string {
	if html == "" {
		return ""
	}
	s := htmlTagRe.ReplaceAllString(html, "")
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	s = replacer.Replace(s)
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

var spaceRunRe = regexp.MustCompile(`\s+`)
