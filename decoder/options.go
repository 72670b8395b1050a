package decoder

import "math"

// CriterionType selects the per-token transition handling used by
// LexiconDecoder's frame-synchronous step.
type CriterionType int

const (
	CriterionCTC CriterionType = iota
	CriterionASG
	CriterionSeq2Seq
)

func (c CriterionType) String() string {
	switch c {
	case CriterionCTC:
		return "ctc"
	case CriterionASG:
		return "asg"
	case CriterionSeq2Seq:
		return "seq2seq"
	default:
		return "unknown"
	}
}

// LMUsage controls when TokenLMDecoder mode queries the language model.
// LexiconDecoder always behaves as LMUsageWordLevel regardless of this
// setting; it only takes effect when TokenLM is true.
type LMUsage int

const (
	// LMUsageWordLevel queries the LM only at word boundaries.
	LMUsageWordLevel LMUsage = iota
	// LMUsageTokenLevel queries the LM at every token and never at word
	// boundaries.
	LMUsageTokenLevel
	// LMUsageTokenLevelPlusWord queries the LM at every token and
	// additionally queries it with the word label at word boundaries,
	// adding the trie's per-path word score there.
	LMUsageTokenLevelPlusWord
)

// DecoderOptions configures a LexiconDecoder or Seq2SeqDecoder.
type DecoderOptions struct {
	BeamSize      int     // maximum surviving hypotheses per step
	BeamSizeToken int     // per-hypothesis cap on token expansions considered
	BeamThreshold float64 // prune hypotheses scoring below best-threshold

	LMWeight float64 // multiplier on LM log-prob contributions
	WordScore float64 // additive bonus per completed in-lexicon word
	UnkScore  float64 // additive score applied when the OOV path is taken
	SilScore  float64 // additive score per silence emission
	EosScore  float64 // additive score applied to Seq2Seq EOS candidates

	LogAdd bool // merge equivalent hypotheses by log-sum-exp instead of max

	CriterionType CriterionType
	TokenLM       bool    // LexiconDecoder operates as TokenLMDecoder
	LMUsage       LMUsage // only consulted when TokenLM is true

	// Blank, Silence, Unk, Eos are token-alphabet indices. Blank is only
	// meaningful for CriterionCTC; Eos is only meaningful for
	// CriterionSeq2Seq.
	Blank   int32
	Silence int32
	Unk     int32
	Eos     int32

	// HardSelection and SoftSelection are Seq2Seq-only token pruning
	// parameters.
	HardSelection float64
	SoftSelection float64

	// MaxOutputLength bounds a Seq2Seq decode's number of steps.
	MaxOutputLength int
}

// DefaultOptions returns reasonable defaults for the full option set.
func DefaultOptions() DecoderOptions {
	return DecoderOptions{
		BeamSize:        200,
		BeamSizeToken:   20,
		BeamThreshold:   50.0,
		LMWeight:        1.0,
		WordScore:       0.0,
		UnkScore:        0.0, // caller opts in to an OOV cost
		SilScore:        0.0,
		EosScore:        0.0,
		LogAdd:          false,
		CriterionType:   CriterionCTC,
		TokenLM:         false,
		LMUsage:         LMUsageWordLevel,
		Blank:           -1,
		Silence:         -1,
		Unk:             -1,
		Eos:             -1,
		HardSelection:   math.Inf(1),
		SoftSelection:   0.0,
		MaxOutputLength: 200,
	}
}

// Validate checks the option set for internally inconsistent values,
// returning a *ConfigError describing the first problem found.
func (o DecoderOptions) Validate() error {
	if o.BeamSize <= 0 {
		return &ConfigError{Field: "BeamSize", Msg: "must be positive"}
	}
	if o.BeamSizeToken <= 0 {
		return &ConfigError{Field: "BeamSizeToken", Msg: "must be positive"}
	}
	if isNaN(o.BeamThreshold) || o.BeamThreshold < 0 {
		return &ConfigError{Field: "BeamThreshold", Msg: "must be non-negative and finite-comparable"}
	}
	if isNaN(o.LMWeight) {
		return &ConfigError{Field: "LMWeight", Msg: "must not be NaN"}
	}
	switch o.CriterionType {
	case CriterionCTC:
		if o.Blank < 0 {
			return &ConfigError{Field: "Blank", Msg: "CTC criterion requires a valid blank token index"}
		}
	case CriterionASG:
		if o.Blank >= 0 {
			return &ConfigError{Field: "Blank", Msg: "ASG criterion disables the blank token"}
		}
	case CriterionSeq2Seq:
		if o.Eos < 0 {
			return &ConfigError{Field: "Eos", Msg: "Seq2Seq criterion requires a valid eos token index"}
		}
		if o.MaxOutputLength <= 0 {
			return &ConfigError{Field: "MaxOutputLength", Msg: "must be positive"}
		}
	default:
		return &ConfigError{Field: "CriterionType", Msg: "unrecognized criterion"}
	}
	return nil
}

func isNaN(f float64) bool { return f != f }
