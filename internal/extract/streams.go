package extract

import (
	"strings"

	"lfilms/internal/httputil"
	"lfilms/internal/media"
)

// parseStreams splits the decoded link list into quality variants.
// Fragments look like "[720p]https://a/720.m3u8 or https://b/720.mp4"; the
// URL after " or " is the one that plays, so it wins over the first one.
// Fragments without a quality or a usable URL are dropped.
func parseStreams(links string, subs []media.Subtitle) []media.Stream {
	streams := []media.Stream{}
	for _, frag := range strings.Split(links, ",") {
		quality, rest, ok := bracketed(frag)
		if !ok || quality == "" {
			continue
		}
		if _, alt, found := strings.Cut(rest, " or "); found {
			rest = alt
		}
		u := strings.TrimSpace(rest)
		if httputil.ValidateURL(u) != nil {
			continue
		}
		streams = append(streams, media.Stream{URL: u, Quality: quality, Subtitles: subs})
	}
	return streams
}

// parseSubtitles reads "[English]https://x/en.vtt,[Русский]https://x/ru.vtt".
// codes maps the bracket label to a language code; labels without a code
// keep the label as their code.
func parseSubtitles(raw string, codes map[string]string) []media.Subtitle {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "false" {
		return nil
	}

	var subs []media.Subtitle
	for _, frag := range strings.Split(raw, ",") {
		label, rest, ok := bracketed(frag)
		if !ok || label == "" {
			continue
		}
		rest = strings.TrimSpace(rest)
		if _, after, found := strings.Cut(rest, " "); found {
			rest = strings.TrimSpace(after)
		}
		if httputil.ValidateURL(rest) != nil {
			continue
		}
		code := codes[label]
		if code == "" {
			code = label
		}
		subs = append(subs, media.Subtitle{URL: rest, Lang: code, Name: label})
	}
	return subs
}

// bracketed splits "junk[label]rest" into label and rest.
func bracketed(frag string) (label, rest string, ok bool) {
	_, after, found := strings.Cut(frag, "[")
	if !found {
		return "", "", false
	}
	label, rest, found = strings.Cut(after, "]")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(label), rest, true
}
