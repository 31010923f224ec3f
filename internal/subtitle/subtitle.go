// Package subtitle picks subtitle tracks by language. Tracks carry a short
// code ("en") and a display name ("English"); either may be matched.
package subtitle

import (
	"strings"

	"lfilms/internal/media"
)

// Filter returns subtitles matching the preferred language (case-insensitive).
// An exact code match counts, as does the language appearing in the name.
func Filter(subtitles []media.Subtitle, language string) []media.Subtitle {
	if language == "" {
		return subtitles
	}

	lang := strings.ToLower(strings.TrimSpace(language))
	var matched []media.Subtitle

	for _, sub := range subtitles {
		if strings.EqualFold(sub.Lang, lang) ||
			strings.Contains(strings.ToLower(sub.Name), lang) {
			matched = append(matched, sub)
		}
	}

	return matched
}

// BestMatch returns the best matching subtitle for the given language.
// Prefers an exact code match, then an exact name, then the first partial
// match. Forced tracks lose to full ones.
func BestMatch(subtitles []media.Subtitle, language string) *media.Subtitle {
	filtered := Filter(subtitles, language)
	if len(filtered) == 0 {
		return nil
	}

	lang := strings.ToLower(strings.TrimSpace(language))
	for _, accept := range []func(media.Subtitle) bool{
		func(s media.Subtitle) bool { return strings.EqualFold(s.Lang, lang) && !forced(s) },
		func(s media.Subtitle) bool { return strings.EqualFold(s.Name, lang) },
		func(s media.Subtitle) bool { return !forced(s) },
	} {
		for _, sub := range filtered {
			if accept(sub) {
				return &sub
			}
		}
	}

	return &filtered[0]
}

func forced(s media.Subtitle) bool {
	name := strings.ToLower(s.Name)
	return strings.Contains(name, "forced") || strings.Contains(name, "форс")
}
