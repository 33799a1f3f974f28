package subtitle

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DetectLanguage votes over the text fragments and returns the most common
// reliably detected language, or language.Und when nothing was reliable.
func DetectLanguage(fragments []string) language.Tag {
	votes := make(map[string]int)
	for _, text := range fragments {
		info := whatlanggo.Detect(text)
		if !info.IsReliable() {
			continue
		}
		if code := info.Lang.Iso6391(); code != "" {
			votes[code]++
		}
	}

	var top string
	var topCount int
	for code, count := range votes {
		if count > topCount || (count == topCount && code < top) {
			top, topCount = code, count
		}
	}
	if top == "" {
		return language.Und
	}
	return language.Make(top)
}

// SameBase reports whether two tags name the same base language, so that
// "en-US" and "en" match.
func SameBase(a, b language.Tag) bool {
	ba, _ := a.Base()
	bb, _ := b.Base()
	return ba == bb
}
