package matchmaking

import (
	"math"
	"sort"

	"github.com/C-Chambers/the-arena-engine-server/internal/constants"
	"github.com/C-Chambers/the-arena-engine-server/internal/logging"
)

// DefaultRating is assumed for veterans with no stored rating.
const DefaultRating = 1500

type veteranCandidate struct {
	entry       *entry
	rating      float64
	searchRange float64
}

// pairVeteransLocked runs one rating-based pairing pass: every waiting
// veteran's search range grows with time spent queued, candidates are sorted
// by rating, and each unmatched candidate greedily takes the closest-rated
// partner acceptable to both ranges.
func (m *Manager) pairVeteransLocked() {
	if len(m.vetQueue) < 2 {
		return
	}
	now := m.now()
	candidates := make([]veteranCandidate, 0, len(m.vetQueue))
	for _, e := range m.vetQueue {
		rating, err := m.ratings.RatingFor(e.client.PlayerID())
		if err != nil {
			logging.Error("rating lookup failed, assuming default", err, logging.Fields{
				constants.LogFieldPlayerID: string(e.client.PlayerID()),
			})
			rating = DefaultRating
		}
		ticksWaited := math.Floor(now.Sub(e.since).Seconds() / m.tickPeriod.Seconds())
		candidates = append(candidates, veteranCandidate{
			entry:       e,
			rating:      rating,
			searchRange: m.cfg.InitialRange + ticksWaited*m.cfg.RangeStep,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rating < candidates[j].rating
	})

	matched := make([]bool, len(candidates))
	for i := range candidates {
		if matched[i] {
			continue
		}
		best := -1
		bestDiff := math.MaxFloat64
		for j := i + 1; j < len(candidates); j++ {
			if matched[j] {
				continue
			}
			diff := candidates[j].rating - candidates[i].rating
			if diff > candidates[i].searchRange || diff > candidates[j].searchRange {
				continue
			}
			if diff < bestDiff {
				bestDiff = diff
				best = j
			}
		}
		if best < 0 {
			continue
		}
		if !m.createMatchLocked(candidates[i].entry, candidates[best].entry) {
			continue
		}
		matched[i], matched[best] = true, true
		m.vetQueue = removeEntry(m.vetQueue, candidates[i].entry.client.PlayerID())
		m.vetQueue = removeEntry(m.vetQueue, candidates[best].entry.client.PlayerID())
	}
}
