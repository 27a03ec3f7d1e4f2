package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML removes markup from s, decodes entities, and collapses runs of
// whitespace. Paragraph and line breaks become single spaces so adjacent
// blocks do not run together.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
