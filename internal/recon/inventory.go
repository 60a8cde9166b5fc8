// Package recon maps the application UI: it inventories interactive elements
// from captured page HTML, pairs them with the known function catalog and
// writes the comprehensive discovery report.
package recon

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is a discovered anchor
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Input is a discovered form field
type Input struct {
	Placeholder string `json:"placeholder"`
	Name        string `json:"name"`
}

// Inventory summarizes the interactive elements found on a page
type Inventory struct {
	Buttons []string `json:"buttons"`
	Links   []Link   `json:"links"`
	Inputs  []Input  `json:"inputs"`
	Tables  int      `json:"tables"`
	Tabs    []string `json:"tabs"`
}

// DiscoverElements parses page HTML and inventories its interactive elements.
// Texts are trimmed and capped the same way the discovery report expects.
func DiscoverElements(html string) (Inventory, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Inventory{}, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	inv := Inventory{
		Buttons: []string{},
		Links:   []Link{},
		Inputs:  []Input{},
		Tabs:    []string{},
	}

	doc.Find("button").Each(func(_ int, sel *goquery.Selection) {
		text := truncate(strings.TrimSpace(sel.Text()), 100)
		if text != "" {
			inv.Buttons = append(inv.Buttons, text)
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := truncate(strings.TrimSpace(sel.Text()), 50)
		if text != "" || href != "" {
			inv.Links = append(inv.Links, Link{Text: text, Href: href})
		}
	})

	doc.Find("input").Each(func(_ int, sel *goquery.Selection) {
		placeholder, _ := sel.Attr("placeholder")
		name, _ := sel.Attr("name")
		inv.Inputs = append(inv.Inputs, Input{Placeholder: placeholder, Name: name})
	})

	inv.Tables = doc.Find("table").Length()

	doc.Find(`[role="tab"]`).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			inv.Tabs = append(inv.Tabs, text)
		}
	})

	return inv, nil
}

// topicRowSelectors are tried in order; the first selector with matches wins
var topicRowSelectors = []string{
	`tr[data-topic-id]`,
	`[class*="topic-row"]`,
	`[class*="TopicRow"]`,
	`tr:has(td)`,
}

// DiscoverTopics extracts topic row texts from page HTML, up to the limit
func DiscoverTopics(html string, limit int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	for _, selector := range topicRowSelectors {
		rows := doc.Find(selector)
		if rows.Length() == 0 {
			continue
		}

		topics := []string{}
		rows.EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if i >= limit {
				return false
			}
			text := truncate(strings.TrimSpace(sel.Text()), 100)
			if text != "" {
				topics = append(topics, text)
			}
			return true
		})
		return topics, nil
	}

	return []string{}, nil
}

// truncate caps a string at max runes. Byte slicing would split multi-byte
// characters; the fixture content is Dutch, so accented runes are routine.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
