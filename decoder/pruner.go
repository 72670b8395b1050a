package decoder

import (
	"math"
	"sort"

	"github.com/ieee0824/beamdecode/internal/mathutil"
)

// mergeAndPrune implements the shared merge-then-prune pass used by both
// decoder variants' candidate-storing step: candidates sharing an
// equivalence key are merged (log-sum-exp or max, per logAdd), then the
// survivors are sorted descending by score with a stable insertion-order
// tie-break, threshold-pruned, and truncated to beamSize.
//
// keyFn computes the merge equivalence key for a candidate; two
// candidates merge exactly when their keys are equal. Generalizes a
// plain Viterbi pruneTokens pass with a merge step a pure Viterbi
// search never needs (it has no frontier merging).
func mergeAndPrune[T any, H interface {
	*T
	hypothesis
}, K comparable](candidates []H, keyFn func(H) K, logAdd bool, beamThreshold float64, beamSize int) []H {
	if len(candidates) == 0 {
		return nil
	}

	order := make([]K, 0, len(candidates))
	seen := make(map[K]int, len(candidates))
	winners := make([]H, 0, len(candidates))
	merged := make([]float64, 0, len(candidates))

	for _, c := range candidates {
		k := keyFn(c)
		if idx, ok := seen[k]; ok {
			cur := winners[idx]
			if logAdd {
				merged[idx] = mathutil.LogAdd(merged[idx], c.hypScore())
				if c.hypScore() > cur.hypScore() {
					winners[idx] = c // keep the parent of the higher-scoring input
				}
			} else {
				if c.hypScore() > merged[idx] {
					merged[idx] = c.hypScore()
					winners[idx] = c
				}
			}
			continue
		}
		seen[k] = len(winners)
		order = append(order, k)
		winners = append(winners, c)
		merged = append(merged, c.hypScore())
	}

	for i, h := range winners {
		h.setHypScore(merged[i])
	}

	sort.SliceStable(winners, func(i, j int) bool {
		return winners[i].hypScore() > winners[j].hypScore()
	})

	if len(winners) == 0 {
		return winners
	}
	best := winners[0].hypScore()

	out := winners[:0]
	for _, h := range winners {
		if h.hypScore() < best-beamThreshold {
			break
		}
		out = append(out, h)
		if len(out) >= beamSize {
			break
		}
	}
	return out
}

// bestScore returns the highest score among hs, or -Inf if empty.
func bestScore[T any, H interface {
	*T
	hypothesis
}](hs []H) float64 {
	best := math.Inf(-1)
	for _, h := range hs {
		if h.hypScore() > best {
			best = h.hypScore()
		}
	}
	return best
}
