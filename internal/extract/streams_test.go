package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lfilms/internal/apierr"
	"lfilms/internal/media"
)

func TestParseStreams(t *testing.T) {
	tests := []struct {
		name  string
		links string
		want  []media.Stream
	}{
		{
			name:  "prefers the or segment",
			links: "[720p]https://a.example/720.m3u8 or https://b.example/720.mp4",
			want:  []media.Stream{{URL: "https://b.example/720.mp4", Quality: "720p"}},
		},
		{
			name:  "single url",
			links: "[480p]https://a.example/480.mp4",
			want:  []media.Stream{{URL: "https://a.example/480.mp4", Quality: "480p"}},
		},
		{
			name:  "junk before bracket and spaced quality",
			links: "xx[1080p Ultra]https://a.example/1080.m3u8 or https://b.example/1080.mp4",
			want:  []media.Stream{{URL: "https://b.example/1080.mp4", Quality: "1080p Ultra"}},
		},
		{
			name:  "skips garbage fragments",
			links: "garbage,[360p],[]https://a.example/x.mp4,[720p]not a url,[240p]https://a.example/240.mp4",
			want:  []media.Stream{{URL: "https://a.example/240.mp4", Quality: "240p"}},
		},
		{
			name:  "empty",
			links: "",
			want:  []media.Stream{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseStreams(tt.links, nil))
		})
	}
}

func TestParseStreamsSharesSubtitles(t *testing.T) {
	subs := []media.Subtitle{{URL: "https://s.example/en.vtt", Lang: "en", Name: "English"}}
	got := parseStreams("[360p]https://a.example/360.mp4,[720p]https://a.example/720.mp4", subs)
	assert.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, subs, s.Subtitles)
	}
}

func TestParseSubtitles(t *testing.T) {
	codes := map[string]string{"English": "en", "Українська": "uk"}

	tests := []struct {
		name string
		raw  string
		want []media.Subtitle
	}{
		{"false", "false", nil},
		{"empty", "", nil},
		{
			name: "mapped and unmapped labels",
			raw:  "[English]https://s.example/en.vtt,[Українська]https://s.example/uk.vtt,[Deutsch]https://s.example/de.vtt",
			want: []media.Subtitle{
				{URL: "https://s.example/en.vtt", Lang: "en", Name: "English"},
				{URL: "https://s.example/uk.vtt", Lang: "uk", Name: "Українська"},
				{URL: "https://s.example/de.vtt", Lang: "Deutsch", Name: "Deutsch"},
			},
		},
		{
			name: "prefix before url",
			raw:  "[English]default https://s.example/en.vtt",
			want: []media.Subtitle{{URL: "https://s.example/en.vtt", Lang: "en", Name: "English"}},
		},
		{
			name: "drops broken entries",
			raw:  "English https://s.example/en.vtt,[English]",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSubtitles(tt.raw, codes))
		})
	}
}

func TestZipSeasons(t *testing.T) {
	t.Run("empty fragments", func(t *testing.T) {
		got, err := zipSeasons("", "")
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("non-numeric season id", func(t *testing.T) {
		_, err := zipSeasons(`<li data-tab_id="x">?</li>`, `<ul><li data-episode_id="1"></li></ul>`)
		assert.ErrorIs(t, err, apierr.ErrMalformedSeasonData)
	})

	t.Run("non-numeric episode id", func(t *testing.T) {
		_, err := zipSeasons(`<li data-tab_id="1">1</li>`, `<ul><li data-episode_id="one"></li></ul>`)
		assert.ErrorIs(t, err, apierr.ErrMalformedSeasonData)
	})

	t.Run("ids are opaque", func(t *testing.T) {
		got, err := zipSeasons(
			`<li data-tab_id="7">a</li><li data-tab_id="3">b</li>`,
			`<ul><li data-episode_id="10"></li></ul><ul><li data-episode_id="4"></li><li data-episode_id="9"></li></ul>`,
		)
		assert.NoError(t, err)
		assert.Equal(t, []media.Season{
			{ID: 7, Episodes: []media.Episode{{ID: 10}}},
			{ID: 3, Episodes: []media.Episode{{ID: 4}, {ID: 9}}},
		}, got)
	})
}
