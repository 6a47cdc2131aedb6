// Package dispatch ranks responders and facilities for an incident. All
// computations are pure reads over the caller-supplied snapshot; nothing is
// cached between calls because responder state changes under assignment.
package dispatch

import (
	"sort"

	"github.com/sagip-ops/sagip/core/model"
	"github.com/sagip-ops/sagip/core/scoring"
)

// DefaultSuggestionLimit bounds the shortlist returned by SuggestTop.
const DefaultSuggestionLimit = 5

// Rank scores every deployable responder against the incident and returns
// them in descending composite order. Off Duty responders are excluded
// before scoring. Ties keep input order.
func Rank(inc model.Incident, responders []model.Responder) []scoring.Candidate {
	candidates := make([]scoring.Candidate, 0, len(responders))
	for _, r := range responders {
		if r.Status == model.ResponderOffDuty {
			continue
		}
		candidates = append(candidates, scoring.Score(inc, r))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Composite > candidates[j].Composite
	})
	return candidates
}

// SuggestTop returns the best limit candidates. A non-positive limit falls
// back to DefaultSuggestionLimit.
func SuggestTop(inc model.Incident, responders []model.Responder, limit int) []scoring.Candidate {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	ranked := Rank(inc, responders)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
