package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ieee0824/beamdecode/decoder"
)

// decodeProfile is the on-disk shape of a decode profile file (YAML or
// JSON, loaded through viper), giving every DecoderOptions field a
// CLI-reachable home without a flag apiece.
type decodeProfile struct {
	BeamSize        int     `yaml:"beamSize" mapstructure:"beamSize"`
	BeamSizeToken   int     `yaml:"beamSizeToken" mapstructure:"beamSizeToken"`
	BeamThreshold   float64 `yaml:"beamThreshold" mapstructure:"beamThreshold"`
	LMWeight        float64 `yaml:"lmWeight" mapstructure:"lmWeight"`
	WordScore       float64 `yaml:"wordScore" mapstructure:"wordScore"`
	UnkScore        float64 `yaml:"unkScore" mapstructure:"unkScore"`
	SilScore        float64 `yaml:"silScore" mapstructure:"silScore"`
	EosScore        float64 `yaml:"eosScore" mapstructure:"eosScore"`
	LogAdd          bool    `yaml:"logAdd" mapstructure:"logAdd"`
	Criterion       string  `yaml:"criterion" mapstructure:"criterion"` // ctc|asg|seq2seq
	TokenLM         bool    `yaml:"tokenLM" mapstructure:"tokenLM"`
	LMUsage         string  `yaml:"lmUsage" mapstructure:"lmUsage"` // word|token|token+word
	Blank           int32   `yaml:"blank" mapstructure:"blank"`
	Silence         int32   `yaml:"silence" mapstructure:"silence"`
	Unk             int32   `yaml:"unk" mapstructure:"unk"`
	Eos             int32   `yaml:"eos" mapstructure:"eos"`
	HardSelection   float64 `yaml:"hardSelection" mapstructure:"hardSelection"`
	SoftSelection   float64 `yaml:"softSelection" mapstructure:"softSelection"`
	MaxOutputLength int     `yaml:"maxOutputLength" mapstructure:"maxOutputLength"`

	Alphabet   string `yaml:"alphabet" mapstructure:"alphabet"`     // path, one token label per line
	Dictionary string `yaml:"dictionary" mapstructure:"dictionary"` // path, lexicon.Load format
	ARPA       string `yaml:"arpa" mapstructure:"arpa"`             // path, optional language model
}

// loadDecodeProfile reads profile fields out of viper (populated from
// --config plus BEAMDECODE_* env vars by initConfig), defaulting every
// unset numeric field to decoder.DefaultOptions()'s own defaults.
func loadDecodeProfile() (decodeProfile, error) {
	def := decoder.DefaultOptions()
	p := decodeProfile{
		BeamSize:        def.BeamSize,
		BeamSizeToken:   def.BeamSizeToken,
		BeamThreshold:   def.BeamThreshold,
		LMWeight:        def.LMWeight,
		Blank:           def.Blank,
		Silence:         def.Silence,
		Unk:             def.Unk,
		Eos:             def.Eos,
		HardSelection:   def.HardSelection,
		SoftSelection:   def.SoftSelection,
		MaxOutputLength: def.MaxOutputLength,
		Criterion:       "ctc",
		LMUsage:         "word",
	}
	if err := viper.Unmarshal(&p); err != nil {
		return decodeProfile{}, fmt.Errorf("unmarshal decode profile: %w", err)
	}
	return p, nil
}

func (p decodeProfile) toOptions() (decoder.DecoderOptions, error) {
	o := decoder.DefaultOptions()
	o.BeamSize = p.BeamSize
	o.BeamSizeToken = p.BeamSizeToken
	o.BeamThreshold = p.BeamThreshold
	o.LMWeight = p.LMWeight
	o.WordScore = p.WordScore
	o.UnkScore = p.UnkScore
	o.SilScore = p.SilScore
	o.EosScore = p.EosScore
	o.LogAdd = p.LogAdd
	o.TokenLM = p.TokenLM
	o.Blank = p.Blank
	o.Silence = p.Silence
	o.Unk = p.Unk
	o.Eos = p.Eos
	o.HardSelection = p.HardSelection
	o.SoftSelection = p.SoftSelection
	o.MaxOutputLength = p.MaxOutputLength

	switch p.Criterion {
	case "ctc", "":
		o.CriterionType = decoder.CriterionCTC
	case "asg":
		o.CriterionType = decoder.CriterionASG
	case "seq2seq":
		o.CriterionType = decoder.CriterionSeq2Seq
	default:
		return o, fmt.Errorf("unknown criterion %q", p.Criterion)
	}

	switch p.LMUsage {
	case "word", "":
		o.LMUsage = decoder.LMUsageWordLevel
	case "token":
		o.LMUsage = decoder.LMUsageTokenLevel
	case "token+word":
		o.LMUsage = decoder.LMUsageTokenLevelPlusWord
	default:
		return o, fmt.Errorf("unknown lmUsage %q", p.LMUsage)
	}

	if err := o.Validate(); err != nil {
		return o, err
	}
	return o, nil
}
