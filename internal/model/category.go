package model

import "strings"

// KnownCategories lists the categories offered when adding a video.
var KnownCategories = []string{
	"mental-health",
	"eating-disorders",
	"transgender-health",
	"other",
}

// CategoryTitle turns a category tag into a display heading,
// e.g. "mental-health" -> "Mental Health".
func CategoryTitle(category string) string {
	words := strings.Fields(strings.ReplaceAll(category, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
