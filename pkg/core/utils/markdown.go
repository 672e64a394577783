package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
)

// RenderHTML converts markdown to an HTML fragment using Goldmark.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown render failed: %w", err)
	}
	return buf.String(), nil
}

// ListItems extracts the text of every <li> in an HTML fragment, in document order.
func ListItems(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("html parse failed: %w", err)
	}
	var items []string
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		items = append(items, strings.TrimSpace(sel.Text()))
	})
	return items, nil
}
