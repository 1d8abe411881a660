// Package reconcile proposes participant → entity links by name similarity for an operator
// to review. Suggestions never accrue league points until an operator stores them as links.
package reconcile

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Dosada05/tournament-progression/models"
)

const DefaultThreshold = 0.7

type Suggestion struct {
	ParticipantID   int     `json:"participant_id"`
	ParticipantName string  `json:"participant_name"`
	EntityID        int     `json:"entity_id"`
	EntityName      string  `json:"entity_name"`
	Similarity      float64 `json:"similarity"`
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Similarity is 1 minus the Levenshtein distance over the longer name, case and
// whitespace insensitive.
func Similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 0
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(distance)/float64(maxLen)
}

// Suggest returns, for every participant without a link, the most similar entity whose
// similarity reaches threshold. Pair participants named "A / B" are matched per player.
func Suggest(participants []models.Participant, entities []models.Entity, links []models.EntityLink, threshold float64) []Suggestion {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	linked := make(map[int]bool, len(links))
	for _, l := range links {
		linked[l.ParticipantID] = true
	}

	var out []Suggestion
	for _, p := range participants {
		if linked[p.ID] {
			continue
		}
		for _, name := range playerNames(p.Name) {
			best, ok := bestEntity(name, entities, threshold)
			if !ok {
				continue
			}
			out = append(out, Suggestion{
				ParticipantID:   p.ID,
				ParticipantName: p.Name,
				EntityID:        best.ID,
				EntityName:      best.Name,
				Similarity:      Similarity(name, best.Name),
			})
		}
	}
	slices.SortFunc(out, func(a, b Suggestion) int {
		if c := cmp.Compare(a.ParticipantID, b.ParticipantID); c != 0 {
			return c
		}
		return cmp.Compare(a.EntityID, b.EntityID)
	})
	return out
}

func playerNames(name string) []string {
	parts := strings.Split(name, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func bestEntity(name string, entities []models.Entity, threshold float64) (models.Entity, bool) {
	var best models.Entity
	bestScore := -1.0
	for _, e := range entities {
		score := Similarity(name, e.Name)
		if score < threshold {
			continue
		}
		if score > bestScore || (score == bestScore && e.ID < best.ID) {
			best, bestScore = e, score
		}
	}
	return best, bestScore >= 0
}
