package search

import (
	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Video          *model.Video
	MatchedIndexes []int
	Score          int
}

// videoTitles implements fuzzy.Source for a video slice.
type videoTitles []*model.Video

func (vt videoTitles) String(i int) string {
	return vt[i].Title
}

func (vt videoTitles) Len() int {
	return len(vt)
}

// FuzzySearchVideos searches videos by title using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchVideos(videos []model.Video, query string) []SearchResult {
	if query == "" {
		return nil
	}

	titles := make(videoTitles, len(videos))
	for i := range videos {
		titles[i] = &videos[i]
	}

	matches := fuzzy.FindFrom(query, titles)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Video:          titles[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
