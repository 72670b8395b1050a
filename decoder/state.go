package decoder

// hypothesis is the minimal interface the generic arena and pruner need:
// a mutable cumulative score. Everything else (parent chain, equivalence
// key) is variant-specific and handled by LexiconDecoder/Seq2SeqDecoder
// directly, per the design note that shared helpers stay ignorant of
// variant internals.
type hypothesis interface {
	hypScore() float64
	setHypScore(float64)
}

// DecoderState is one node of the reverse hypothesis forest produced by
// LexiconDecoder (and its TokenLMDecoder mode). Its parent chain
// terminates at a seed state with Parent == nil; Score is always the sum
// of per-edge contributions along that chain, never recomputed at
// extraction time.
type DecoderState struct {
	Score       float64
	LMState     LMStatePtr
	LexiconNode TrieNode
	Parent      *DecoderState
	Token       int32
	Word        int32 // -1 unless this state just completed a word
	PrevBlank   bool

	// EmittingModelScore and LMScore are this state's own per-edge
	// contributions (not totals), accumulated during result extraction.
	EmittingModelScore float64
	LMScore            float64

	Step int // promotion step index, for lifetime bookkeeping and diagnostics
}

func (s *DecoderState) hypScore() float64     { return s.Score }
func (s *DecoderState) setHypScore(v float64) { s.Score = v }

// Seq2SeqDecoderState is one node of the reverse hypothesis forest
// produced by Seq2SeqDecoder. It never carries a word field: Seq2Seq
// output is a token sequence, not a lexicon path.
type Seq2SeqDecoderState struct {
	Score   float64
	LMState LMStatePtr
	Parent  *Seq2SeqDecoderState
	Token   int32
	AMState AMStatePtr

	EmittingModelScore float64
	LMScore            float64

	Step int
}

func (s *Seq2SeqDecoderState) hypScore() float64     { return s.Score }
func (s *Seq2SeqDecoderState) setHypScore(v float64) { s.Score = v }

// AMStatePtr is an opaque acoustic-model state handle threaded through
// the AM-update callback. The decoder never interprets it; it is a
// tagged-union/type-erased handle owned entirely by the caller's AM
// implementation.
type AMStatePtr interface{}
