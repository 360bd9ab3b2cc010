package study

import (
	"strings"
	"wt-summariser/internal/document"
)

var (
	titleQuery = document.Query{Tags: []string{"h1"}}
	themeQuery = document.ByClass("themeScrp", "p")
	focusQuery = document.ByClass("du-borderStyle-inlineStart--solid", "div")
)

// ExtractArticle reads the title, theme scripture and focus box of a loaded article.
func ExtractArticle(url string, root document.Element) Article {
	focus := document.TextOf(root.Find(focusQuery))
	focus = strings.Replace(focus, "FOCUS", "", 1)

	return Article{
		URL:   url,
		Title: strings.TrimSpace(document.TextOf(root.Find(titleQuery))),
		Theme: strings.TrimSpace(document.TextOf(root.Find(themeQuery))),
		Focus: strings.TrimSpace(focus),
	}
}
