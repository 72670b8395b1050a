package decoder

import (
	"context"
	"math"
)

// AMUpdateFunc is the acoustic-model update callback Seq2SeqDecoder
// drives each step. It batches the active frontier's last-emitted
// tokens and AM states, and returns one score vector and one updated AM
// state per hypothesis in the batch.
type AMUpdateFunc func(ctx context.Context, prevTokens []int32, prevStates []AMStatePtr) (scores [][]float64, nextStates []AMStatePtr, err error)

// Seq2SeqDecoder runs output-length-synchronous beam search driven by an
// AM update callback. It has no lexicon: output is a raw token
// sequence, terminated by EOS.
type Seq2SeqDecoder struct {
	lm       LanguageModel
	amUpdate AMUpdateFunc
	cfg      DecoderOptions

	arena     *arena[Seq2SeqDecoderState, *Seq2SeqDecoderState]
	completed []*Seq2SeqDecoderState
}

// NewSeq2SeqDecoder constructs a decoder that calls amUpdate once per
// output step.
func NewSeq2SeqDecoder(cfg DecoderOptions, lm LanguageModel, amUpdate AMUpdateFunc) (*Seq2SeqDecoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.CriterionType != CriterionSeq2Seq {
		return nil, &ConfigError{Field: "CriterionType", Msg: "Seq2SeqDecoder requires CriterionSeq2Seq"}
	}
	return &Seq2SeqDecoder{
		lm:       lm,
		amUpdate: amUpdate,
		cfg:      cfg,
		arena:    newArena[Seq2SeqDecoderState, *Seq2SeqDecoderState](cfg.BeamSize * 4),
	}, nil
}

type seq2seqStateKey struct {
	lmBucket int
	token    int32
}

// Decode drives the AM callback for up to Options.MaxOutputLength steps,
// terminating early once every surviving hypothesis has emitted EOS, and
// returns the best completed hypothesis.
func (d *Seq2SeqDecoder) Decode(ctx context.Context, initialAMState AMStatePtr) (*DecodeResult, error) {
	results, err := d.decodeN(ctx, initialAMState, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &DecodeResult{Score: math.Inf(-1)}, nil
	}
	return results[0], nil
}

// DecodeAll returns every completed hypothesis sorted by descending
// score, up to n results.
func (d *Seq2SeqDecoder) DecodeAll(ctx context.Context, initialAMState AMStatePtr, n int) ([]*DecodeResult, error) {
	return d.decodeN(ctx, initialAMState, n)
}

func (d *Seq2SeqDecoder) decodeN(ctx context.Context, initialAMState AMStatePtr, n int) ([]*DecodeResult, error) {
	seed := d.arena.alloc()
	*seed = Seq2SeqDecoderState{
		Score:   0,
		LMState: d.lm.Start(true),
		Parent:  nil,
		Token:   -1,
		AMState: initialAMState,
	}
	active := []*Seq2SeqDecoderState{seed}
	d.completed = nil
	bucketer := newLMBucketer(d.lm)

	for s := 1; s <= d.cfg.MaxOutputLength && len(active) > 0; s++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		prevTokens := make([]int32, len(active))
		prevStates := make([]AMStatePtr, len(active))
		for i, h := range active {
			prevTokens[i] = h.Token
			prevStates[i] = h.AMState
		}

		scores, nextAM, err := d.amUpdate(ctx, prevTokens, prevStates)
		if err != nil {
			return nil, err
		}
		if len(scores) != len(active) || len(nextAM) != len(active) {
			return nil, &InputError{Step: s, Msg: "AM update returned a batch shape mismatched with the active frontier"}
		}

		d.arena.resetCandidates()
		bucketer.reset()

		for i, h := range active {
			row := scores[i]
			maxScore := math.Inf(-1)
			for _, v := range row {
				if isNaNf(v) {
					return nil, &InputError{Step: s, Msg: "non-finite AM update score"}
				}
				if v > maxScore {
					maxScore = v
				}
			}
			for k, v := range row {
				if !math.IsInf(d.cfg.HardSelection, 1) && v < maxScore-d.cfg.HardSelection {
					continue
				}
				soft := 0.0
				if d.cfg.SoftSelection != 0 && !math.IsInf(maxScore, -1) {
					soft = d.cfg.SoftSelection * (maxScore - v)
				}

				var lmState LMStatePtr
				var lmTerm float64
				if int32(k) == d.cfg.Eos {
					var eosLP float64
					lmState, eosLP = d.lm.Finish(h.LMState)
					lmTerm = eosLP*d.cfg.LMWeight + d.cfg.EosScore
				} else {
					var lp float64
					lmState, lp = d.lm.Score(h.LMState, int32(k))
					lmTerm = d.cfg.LMWeight * lp
				}

				score := h.Score + v - soft + lmTerm
				amState := nextAM[i]

				c := d.arena.alloc()
				*c = Seq2SeqDecoderState{
					Score:              score,
					LMState:            lmState,
					Parent:             h,
					Token:              int32(k),
					AMState:            amState,
					EmittingModelScore: v,
					LMScore:            lmTerm,
				}
				d.arena.addCandidate(c, d.cfg.BeamThreshold)
			}
		}

		promoted := mergeAndPrune[Seq2SeqDecoderState, *Seq2SeqDecoderState, seq2seqStateKey](
			d.arena.candidates,
			func(h *Seq2SeqDecoderState) seq2seqStateKey {
				return seq2seqStateKey{lmBucket: bucketer.bucket(h.LMState), token: h.Token}
			},
			d.cfg.LogAdd, d.cfg.BeamThreshold, d.cfg.BeamSize,
		)

		active = active[:0]
		for _, h := range promoted {
			h.Step = s
			if h.Token == d.cfg.Eos {
				d.completed = append(d.completed, h)
				continue
			}
			active = append(active, h)
		}
	}

	// Any hypothesis still active at MaxOutputLength without EOS is
	// force-completed so the decode always returns within bound.
	d.completed = append(d.completed, active...)

	return extractTopNSeq2Seq(d.completed, n, d.cfg.Eos), nil
}

// Prune is a documented no-op for Seq2SeqDecoder: lookBack-windowed
// history pruning is unsupported in this variant, and completed
// hypotheses are retained in full until extraction regardless of
// lookBack.
func (d *Seq2SeqDecoder) Prune(lookBack int) {}

func extractTopNSeq2Seq(states []*Seq2SeqDecoderState, n int, eos int32) []*DecodeResult {
	ordered := append([]*Seq2SeqDecoderState(nil), states...)
	k := min(n, len(ordered))
	topKInPlace(ordered, k, func(s *Seq2SeqDecoderState) float64 { return s.Score })
	if n < len(ordered) {
		ordered = ordered[:n]
	}
	out := make([]*DecodeResult, len(ordered))
	for i, s := range ordered {
		out[i] = extractOneSeq2Seq(s, eos)
	}
	return out
}

func extractOneSeq2Seq(leaf *Seq2SeqDecoderState, eos int32) *DecodeResult {
	var tokens []int32
	var amScore, lmScore float64
	for cur := leaf; cur != nil; cur = cur.Parent {
		// EOS and the seed's sentinel Token=-1 both carry no content;
		// neither belongs in the emitted sequence.
		if cur.Token >= 0 && cur.Token != eos {
			tokens = append(tokens, cur.Token)
		}
		amScore += cur.EmittingModelScore
		lmScore += cur.LMScore
	}
	reverseInt32(tokens)
	return &DecodeResult{
		Score:   leaf.Score,
		AMScore: amScore,
		LMScore: lmScore,
		Tokens:  tokens,
	}
}
