package decoder

import (
	"context"
	"math"
)

// LexiconDecoder runs CTC/ASG-style frame-synchronous beam search over a
// lexicon trie. Setting Options.TokenLM turns the same type into what
// other decoders call TokenLMDecoder: the two are one type distinguished
// by a flag and a handful of branches, not a subclass.
type LexiconDecoder struct {
	lm   LanguageModel
	trie Trie
	cfg  DecoderOptions

	arena *arena[DecoderState, *DecoderState]
	step  int

	// asgTrans[prev][cur] is the ASG transition matrix; unused for CTC.
	asgTrans [][]float64
}

// NewLexiconDecoder constructs a decoder over trie using lm for scoring.
// asgTrans may be nil unless cfg.CriterionType is CriterionASG.
func NewLexiconDecoder(cfg DecoderOptions, lm LanguageModel, trie Trie, asgTrans [][]float64) (*LexiconDecoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.CriterionType == CriterionASG && asgTrans == nil {
		return nil, &ConfigError{Field: "asgTrans", Msg: "ASG criterion requires a transition matrix"}
	}
	return &LexiconDecoder{
		lm:       lm,
		trie:     trie,
		cfg:      cfg,
		arena:    newArena[DecoderState, *DecoderState](cfg.BeamSize * 4),
		asgTrans: asgTrans,
	}, nil
}

// decoderStateKey is the merge equivalence key for LexiconDecoder
// candidates: lmState equivalence is collapsed into a representative via
// an equivalence bucket id, since Go map keys must be
// comparable but LMStatePtr is an opaque interface whose equality the
// decoder must not rely on directly. The decoder assigns each distinct
// LM state a bucket id via CompareState the first time it is seen
// within a step.
type decoderStateKey struct {
	lmBucket    int
	lexiconNode TrieNode
	token       int32
	prevBlank   bool
}

// lmBucketer assigns stable small integer ids to LM states that compare
// equal under LanguageModel.CompareState, scoped to a single step's
// candidate set. This is what lets mergeAndPrune use a plain comparable
// map key decided by CompareState rather than by LMStatePtr identity;
// identical handles are only cached so CompareState is not asked again.
type lmBucketer struct {
	lm      LanguageModel
	reps    []LMStatePtr
	byState map[LMStatePtr]int
}

func newLMBucketer(lm LanguageModel) *lmBucketer {
	return &lmBucketer{lm: lm, byState: make(map[LMStatePtr]int)}
}

func (b *lmBucketer) bucket(s LMStatePtr) int {
	if id, ok := b.byState[s]; ok {
		return id
	}
	for id, rep := range b.reps {
		if b.lm.CompareState(rep, s) == 0 {
			b.byState[s] = id
			return id
		}
	}
	id := len(b.reps)
	b.reps = append(b.reps, s)
	b.byState[s] = id
	return id
}

func (b *lmBucketer) reset() {
	b.reps = b.reps[:0]
	b.byState = make(map[LMStatePtr]int)
}

// Decode runs the beam search over the full emission matrix emissions[t][n]
// (row-major, time-major) and returns the highest-scoring hypothesis.
// ctx is checked for cancellation between steps only; mid-step
// cancellation is not supported.
func (d *LexiconDecoder) Decode(ctx context.Context, emissions [][]float64) (*DecodeResult, error) {
	results, err := d.decodeN(ctx, emissions, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &DecodeResult{Score: math.Inf(-1)}, nil
	}
	return results[0], nil
}

// DecodeAll returns every surviving final hypothesis sorted by
// descending score, up to n results.
func (d *LexiconDecoder) DecodeAll(ctx context.Context, emissions [][]float64, n int) ([]*DecodeResult, error) {
	return d.decodeN(ctx, emissions, n)
}

func (d *LexiconDecoder) decodeN(ctx context.Context, emissions [][]float64, n int) ([]*DecodeResult, error) {
	T := len(emissions)
	if T == 0 {
		return nil, &InputError{Step: 0, Msg: "empty emission matrix"}
	}
	N := len(emissions[0])
	for t, row := range emissions {
		if len(row) != N {
			return nil, &InputError{Step: t, Msg: "ragged emission matrix"}
		}
		for _, v := range row {
			if isNaNf(v) || math.IsInf(v, 0) {
				return nil, &InputError{Step: t, Msg: "non-finite emission value"}
			}
		}
	}

	d.step = -1
	seed := d.arena.alloc()
	*seed = DecoderState{
		Score:       0,
		LMState:     d.lm.Start(true),
		LexiconNode: d.trie.Root(),
		Parent:      nil,
		Token:       -1,
		Word:        -1,
	}
	d.arena.promote(-1, []*DecoderState{seed})

	bucketer := newLMBucketer(d.lm)

	// Every frame, including the first, is consumed by one step: the
	// seed occupies step -1 so the loop body is uniform across t.
	for t := 0; t < T; t++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		survivors := d.arena.at(t - 1)
		d.arena.resetCandidates()
		bucketer.reset()

		oovUsed := false
		for _, h := range survivors {
			if err := d.expand(h, t, emissions[t], N, &oovUsed); err != nil {
				return nil, err
			}
		}

		promoted := mergeAndPrune[DecoderState, *DecoderState, decoderStateKey](
			d.arena.candidates,
			func(h *DecoderState) decoderStateKey {
				return decoderStateKey{
					lmBucket:    bucketer.bucket(h.LMState),
					lexiconNode: h.LexiconNode,
					token:       h.Token,
					prevBlank:   h.PrevBlank,
				}
			},
			d.cfg.LogAdd, d.cfg.BeamThreshold, d.cfg.BeamSize,
		)
		for _, h := range promoted {
			h.Step = t
		}
		d.arena.promote(t, promoted)
		d.step = t
	}

	final := d.arena.at(T - 1)
	return extractTopN(final, n), nil
}

// Prune drops promoted hypothesis buckets older than the most recent
// step minus lookBack. Ancestors remain reachable through Parent
// pointers from the current frontier regardless of whether their bucket
// is still indexed, so this only affects step-keyed lookups, never
// correctness of a subsequent back-trace.
func (d *LexiconDecoder) Prune(lookBack int) {
	d.arena.dropBefore(d.step, lookBack)
}

// expand enumerates every candidate successor of h at time t (blank,
// repeat, silence, trie-child, unknown-word) and adds each to the
// arena's scratch candidate buffer, followed by the per-hypothesis token
// beam.
func (d *LexiconDecoder) expand(h *DecoderState, t int, row []float64, N int, oovUsed *bool) error {
	type scored struct {
		cand *DecoderState
	}
	var local []scored

	add := func(c *DecoderState) {
		local = append(local, scored{c})
	}

	emit := func(token int32) float64 {
		return row[token]
	}
	asgCost := func(prev, cur int32) float64 {
		if d.asgTrans == nil || prev < 0 {
			return 0
		}
		return d.asgTrans[prev][cur]
	}

	// 1. Blank (CTC only).
	if d.cfg.CriterionType == CriterionCTC && d.cfg.Blank >= 0 {
		acScore := emit(d.cfg.Blank)
		c := d.arena.alloc()
		*c = DecoderState{
			Score:              h.Score + acScore,
			LMState:            h.LMState,
			LexiconNode:        h.LexiconNode,
			Parent:             h,
			Token:              d.cfg.Blank,
			Word:               -1,
			PrevBlank:          true,
			EmittingModelScore: acScore,
		}
		add(c)
	}

	// 2. Repeat.
	if h.Token >= 0 {
		valid := d.cfg.CriterionType == CriterionASG || h.PrevBlank
		if valid {
			acScore := emit(h.Token) + asgCost(h.Token, h.Token)
			c := d.arena.alloc()
			*c = DecoderState{
				Score:              h.Score + acScore,
				LMState:            h.LMState,
				LexiconNode:        h.LexiconNode,
				Parent:             h,
				Token:              h.Token,
				Word:               -1,
				PrevBlank:          false,
				EmittingModelScore: acScore,
			}
			add(c)
		}
	}

	// 3. Silence. SilScore is a bonus kept out of EmittingModelScore, the
	// same way WordScore stays out of it in rule 4.
	if d.cfg.Silence >= 0 {
		acScore := emit(d.cfg.Silence)
		c := d.arena.alloc()
		*c = DecoderState{
			Score:              h.Score + acScore + d.cfg.SilScore,
			LMState:            h.LMState,
			LexiconNode:        h.LexiconNode,
			Parent:             h,
			Token:              d.cfg.Silence,
			Word:               -1,
			PrevBlank:          false,
			EmittingModelScore: acScore,
		}
		add(c)
	}

	// 4. Trie child expansion.
	if h.LexiconNode == nil {
		return &StateError{Hyp: HypDescriptor{Step: t, Token: h.Token, Word: h.Word}, Msg: "hypothesis has no lexicon node to expand"}
	}
	h.LexiconNode.Children(func(token int32, child TrieNode) bool {
		acScore := emit(token) + asgCost(h.Token, token)
		tokenLMApplies := d.cfg.TokenLM && (d.cfg.LMUsage == LMUsageTokenLevel || d.cfg.LMUsage == LMUsageTokenLevelPlusWord)

		if child.IsWord() {
			ends := child.WordEnds()
			for _, we := range ends {
				lmState := h.LMState
				lmContribution := 0.0
				if tokenLMApplies {
					var lp float64
					lmState, lp = d.lm.Score(lmState, token)
					lmContribution += d.cfg.LMWeight * lp
				}
				wordLevel := !d.cfg.TokenLM || d.cfg.LMUsage != LMUsageTokenLevel
				if wordLevel {
					var lp float64
					lmState, lp = d.lm.Score(lmState, we.Word)
					lmContribution += d.cfg.LMWeight * (lp + we.WordLMScore)
				}
				c := d.arena.alloc()
				*c = DecoderState{
					Score:              h.Score + acScore + lmContribution + d.cfg.WordScore,
					LMState:            lmState,
					LexiconNode:        d.trie.Root(),
					Parent:             h,
					Token:              token,
					Word:               we.Word,
					PrevBlank:          false,
					EmittingModelScore: acScore,
					LMScore:            lmContribution,
				}
				add(c)
			}
		} else {
			lmState := h.LMState
			lmContribution := 0.0
			if tokenLMApplies {
				var lp float64
				lmState, lp = d.lm.Score(lmState, token)
				lmContribution = d.cfg.LMWeight * lp
			}
			c := d.arena.alloc()
			*c = DecoderState{
				Score:              h.Score + acScore + lmContribution,
				LMState:            lmState,
				LexiconNode:        child,
				Parent:             h,
				Token:              token,
				Word:               -1,
				PrevBlank:          false,
				EmittingModelScore: acScore,
				LMScore:            lmContribution,
			}
			add(c)
		}
		return true
	})

	// 5. Unknown-word path, once per step across the whole frontier.
	// UnkScore is a bonus kept out of EmittingModelScore/LMScore, the same
	// way WordScore stays out of them in rule 4.
	if !*oovUsed && d.cfg.Unk >= 0 {
		*oovUsed = true
		acScore := emit(d.cfg.Unk)
		lmState, lp := d.lm.Score(h.LMState, d.cfg.Unk)
		lmContribution := d.cfg.LMWeight * lp
		c := d.arena.alloc()
		*c = DecoderState{
			Score:              h.Score + acScore + lmContribution + d.cfg.UnkScore,
			LMState:            lmState,
			LexiconNode:        d.trie.Root(),
			Parent:             h,
			Token:              d.cfg.Unk,
			Word:               d.cfg.Unk,
			PrevBlank:          false,
			EmittingModelScore: acScore,
			LMScore:            lmContribution,
		}
		add(c)
	}

	// Per-hypothesis token beam: keep only the top BeamSizeToken
	// candidates generated from this hypothesis before they enter the
	// shared scratch buffer.
	if len(local) > d.cfg.BeamSizeToken {
		topKInPlace(local, d.cfg.BeamSizeToken, func(s scored) float64 { return s.cand.Score })
		local = local[:d.cfg.BeamSizeToken]
	}
	for _, s := range local {
		d.arena.addCandidate(s.cand, d.cfg.BeamThreshold)
	}
	return nil
}

// topKInPlace partial-sorts xs descending by scoreOf so the first k
// elements are the top k (simple insertion-based selection, adequate at
// the small per-step beam scale this runs at).
func topKInPlace[X any](xs []X, k int, scoreOf func(X) float64) {
	if k >= len(xs) {
		k = len(xs)
	}
	for i := 0; i < k; i++ {
		best := i
		for j := i + 1; j < len(xs); j++ {
			if scoreOf(xs[j]) > scoreOf(xs[best]) {
				best = j
			}
		}
		xs[i], xs[best] = xs[best], xs[i]
	}
}

func isNaNf(f float64) bool { return f != f }

// extractTopN walks parent chains for the top n states by score.
func extractTopN(states []*DecoderState, n int) []*DecodeResult {
	ordered := append([]*DecoderState(nil), states...)
	topKInPlace(ordered, min(n, len(ordered)), func(s *DecoderState) float64 { return s.Score })
	if n < len(ordered) {
		ordered = ordered[:n]
	}
	out := make([]*DecodeResult, len(ordered))
	for i, s := range ordered {
		out[i] = extractOne(s)
	}
	return out
}

func extractOne(leaf *DecoderState) *DecodeResult {
	var words, tokens []int32
	var amScore, lmScore float64
	for cur := leaf; cur != nil; cur = cur.Parent {
		if cur.Token >= 0 {
			tokens = append(tokens, cur.Token)
		}
		if cur.Word >= 0 {
			words = append(words, cur.Word)
		}
		amScore += cur.EmittingModelScore
		lmScore += cur.LMScore
	}
	reverseInt32(tokens)
	reverseInt32(words)
	return &DecodeResult{
		Score:   leaf.Score,
		AMScore: amScore,
		LMScore: lmScore,
		Words:   words,
		Tokens:  tokens,
	}
}

func reverseInt32(xs []int32) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
