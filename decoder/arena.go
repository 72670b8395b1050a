package decoder

import "math"

// arena owns every hypothesis state for one decode, contiguously
// allocated, and hands out stable pointers valid for the decode's
// lifetime. It generalizes a plain per-step token pool with generics so
// LexiconDecoder and Seq2SeqDecoder share one implementation instead of
// duplicating the pool/candidates/promote dance per variant.
//
// T is the concrete state struct (DecoderState or Seq2SeqDecoderState);
// H is its pointer type, which must satisfy hypothesis.
type arena[T any, H interface {
	*T
	hypothesis
}] struct {
	buf []T
	pos int

	candidates         []H
	bestCandidateScore float64

	// promoted holds the survivors of each step, keyed by step index.
	promoted map[int][]H
}

func newArena[T any, H interface {
	*T
	hypothesis
}](capacity int) *arena[T, H] {
	return &arena[T, H]{
		buf:      make([]T, capacity),
		promoted: make(map[int][]H),
	}
}

// alloc returns a fresh zero-valued state node, growing the backing
// buffer if exhausted.
func (a *arena[T, H]) alloc() H {
	if a.pos >= len(a.buf) {
		a.buf = append(a.buf, make([]T, len(a.buf)+1)...)
	}
	p := &a.buf[a.pos]
	a.pos++
	return H(p)
}

// resetCandidates clears the scratch candidate buffer at the start of an
// expansion phase.
func (a *arena[T, H]) resetCandidates() {
	a.candidates = a.candidates[:0]
	a.bestCandidateScore = math.Inf(-1)
}

// addCandidate appends h to the scratch buffer if it is within
// threshold of the best candidate score seen so far; otherwise it is
// dropped immediately rather than carried into the merge/prune pass.
func (a *arena[T, H]) addCandidate(h H, threshold float64) {
	score := h.hypScore()
	if a.bestCandidateScore > math.Inf(-1) && score < a.bestCandidateScore-threshold {
		return
	}
	a.candidates = append(a.candidates, h)
	if score > a.bestCandidateScore {
		a.bestCandidateScore = score
	}
}

// promote records the final survivor set for step t.
func (a *arena[T, H]) promote(t int, survivors []H) {
	a.promoted[t] = survivors
}

// at returns the promoted survivors for step t.
func (a *arena[T, H]) at(t int) []H {
	return a.promoted[t]
}

// dropBefore deletes promoted buckets older than t-lookBack. It never
// touches states still reachable via Parent pointers from the current
// frontier or from completed hypotheses; those remain alive through
// Go's garbage collector regardless of whether their bucket is dropped.
// This only lets old buckets' slice headers be collected once they are
// no longer needed for bucket-level lookups.
func (a *arena[T, H]) dropBefore(t, lookBack int) {
	cutoff := t - lookBack
	for step := range a.promoted {
		if step < cutoff {
			delete(a.promoted, step)
		}
	}
}
