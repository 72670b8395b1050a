package decoder

import (
	"math"
	"testing"

	"github.com/ieee0824/beamdecode/internal/mathutil"
)

func scored(score float64) *DecoderState {
	return &DecoderState{Score: score}
}

type groupKey int

func byGroup(groups []groupKey) func(*DecoderState) groupKey {
	i := 0
	return func(h *DecoderState) groupKey {
		k := groups[i]
		i++
		return k
	}
}

// Threshold pruning: candidates more than beamThreshold below the best
// score are dropped even when beamSize would otherwise admit them.
func TestMergeAndPrune_ThresholdBound(t *testing.T) {
	candidates := []*DecoderState{scored(10), scored(9), scored(1), scored(0)}
	keys := []groupKey{0, 1, 2, 3} // all distinct, no merging
	out := mergeAndPrune[DecoderState, *DecoderState, groupKey](candidates, byGroup(keys), false, 5.0, 100)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 (scores 10 and 9 within threshold 5 of best)", len(out))
	}
	if out[0].Score != 10 || out[1].Score != 9 {
		t.Errorf("scores = [%v %v], want [10 9]", out[0].Score, out[1].Score)
	}
}

// Beam bound: even when every candidate is within threshold, the
// survivor count never exceeds beamSize, and the kept set is the
// highest-scoring beamSize candidates.
func TestMergeAndPrune_BeamBound(t *testing.T) {
	candidates := []*DecoderState{scored(5), scored(4), scored(3), scored(2), scored(1)}
	keys := []groupKey{0, 1, 2, 3, 4}
	out := mergeAndPrune[DecoderState, *DecoderState, groupKey](candidates, byGroup(keys), false, 1e9, 2)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Score != 5 || out[1].Score != 4 {
		t.Errorf("scores = [%v %v], want [5 4]", out[0].Score, out[1].Score)
	}
}

// logAdd merging: two candidates sharing an equivalence key combine via
// log-sum-exp, not max, when LogAdd is set.
func TestMergeAndPrune_LogAddMerge(t *testing.T) {
	a, b := scored(0), scored(0)
	keys := []groupKey{0, 0} // same key: must merge
	out := mergeAndPrune[DecoderState, *DecoderState, groupKey]([]*DecoderState{a, b}, byGroup(keys), true, 1e9, 10)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1 merged hypothesis", len(out))
	}
	want := mathutil.LogAdd(0, 0)
	if math.Abs(out[0].Score-want) > 1e-9 {
		t.Errorf("merged score = %v, want logAdd(0,0) = %v", out[0].Score, want)
	}
}

// Without LogAdd, candidates sharing a key merge by max instead, keeping
// the parent of the higher-scoring input.
func TestMergeAndPrune_MaxMerge(t *testing.T) {
	low := scored(1)
	high := scored(7)
	keys := []groupKey{0, 0}
	out := mergeAndPrune[DecoderState, *DecoderState, groupKey]([]*DecoderState{low, high}, byGroup(keys), false, 1e9, 10)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1 merged hypothesis", len(out))
	}
	if out[0].Score != 7 {
		t.Errorf("merged score = %v, want 7 (max)", out[0].Score)
	}
	if out[0] != high {
		t.Errorf("merge kept the parent of the lower-scoring input, want the parent of the higher-scoring one")
	}
}

// Merge idempotence: merging an already-merged, already-pruned result a
// second time with the same parameters changes nothing.
func TestMergeAndPrune_Idempotent(t *testing.T) {
	candidates := []*DecoderState{scored(10), scored(9), scored(8)}
	keys := []groupKey{0, 1, 2}
	first := mergeAndPrune[DecoderState, *DecoderState, groupKey](candidates, byGroup(keys), false, 1e9, 2)
	idKeys := []groupKey{0, 1}
	second := mergeAndPrune[DecoderState, *DecoderState, groupKey](first, byGroup(idKeys), false, 1e9, 2)
	if len(second) != len(first) {
		t.Fatalf("len(second) = %d, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].Score != second[i].Score {
			t.Errorf("re-pruning changed score at %d: %v -> %v", i, first[i].Score, second[i].Score)
		}
	}
}

func TestMergeAndPrune_EmptyInput(t *testing.T) {
	out := mergeAndPrune[DecoderState, *DecoderState, groupKey](nil, byGroup(nil), false, 10, 5)
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
}

func TestBestScore(t *testing.T) {
	if got := bestScore[DecoderState, *DecoderState](nil); !math.IsInf(got, -1) {
		t.Errorf("bestScore(empty) = %v, want -Inf", got)
	}
	hs := []*DecoderState{scored(3), scored(8), scored(-1)}
	if got := bestScore[DecoderState, *DecoderState](hs); got != 8 {
		t.Errorf("bestScore = %v, want 8", got)
	}
}
