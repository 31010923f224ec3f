package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lfilms/internal/apierr"
	"lfilms/internal/media"
)

// zipSeasons pairs the season tabs with the episode lists by position. The
// site renders both fragments in the same order with the same count; any
// disagreement is reported rather than truncated.
func zipSeasons(seasonsHTML, episodesHTML string) ([]media.Season, error) {
	ids, err := seasonIDs(seasonsHTML)
	if err != nil {
		return nil, err
	}
	lists, err := episodeLists(episodesHTML)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(lists) {
		return nil, apierr.MalformedSeasons("%d seasons but %d episode lists", len(ids), len(lists))
	}

	seasons := make([]media.Season, len(ids))
	for i, id := range ids {
		seasons[i] = media.Season{ID: id, Episodes: lists[i]}
	}
	return seasons, nil
}

func seasonIDs(fragment string) ([]int, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}

	ids := []int{}
	var bad error
	doc.Find("li[data-tab_id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := s.AttrOr("data-tab_id", "")
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			bad = apierr.MalformedSeasons("season id %q", raw)
			return false
		}
		ids = append(ids, id)
		return true
	})
	return ids, bad
}

func episodeLists(fragment string) ([][]media.Episode, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}

	lists := [][]media.Episode{}
	var bad error
	doc.Find("ul").EachWithBreak(func(_ int, ul *goquery.Selection) bool {
		episodes := []media.Episode{}
		ul.Find("li[data-episode_id]").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			raw := li.AttrOr("data-episode_id", "")
			id, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				bad = apierr.MalformedSeasons("episode id %q", raw)
				return false
			}
			episodes = append(episodes, media.Episode{ID: id})
			return true
		})
		lists = append(lists, episodes)
		return bad == nil
	})
	return lists, bad
}

func parseFragment(fragment string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, apierr.MalformedSeasons("parsing fragment: %v", err)
	}
	return doc, nil
}
