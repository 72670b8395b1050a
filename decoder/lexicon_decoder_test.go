package decoder

import (
	"context"
	"math"
	"testing"
)

// noLM is a language model that contributes nothing, for tests that
// isolate acoustic/trie behavior from LM scoring.
type noLM struct{}

func (noLM) Start(bool) LMStatePtr                          { return struct{}{} }
func (noLM) Score(LMStatePtr, int32) (LMStatePtr, float64)   { return struct{}{}, 0 }
func (noLM) Finish(LMStatePtr) (LMStatePtr, float64)         { return struct{}{}, 0 }
func (noLM) CompareState(LMStatePtr, LMStatePtr) int         { return 0 }

// openNode is a hand-built decoder.TrieNode with a self-loop edge for
// every token in tokens: it never constrains which token sequence is
// reachable, modeling an unconstrained (lexicon-free) token alphabet so
// rule 4 (the only way to introduce a new current token) can still
// introduce any of them at any position.
// openNode is a pointer type: decoderStateKey embeds a TrieNode as a
// map key field, so every TrieNode implementation held in a key must be
// comparable, which a value type with a slice field is not. A single
// shared *openNode also gives every self-loop transition the same
// identity, which is what lets candidates sharing it merge by key.
type openNode struct{ tokens []int32 }

func (n *openNode) Child(tok int32) TrieNode {
	for _, t := range n.tokens {
		if t == tok {
			return n
		}
	}
	return nil
}
func (n *openNode) Children(yield func(int32, TrieNode) bool) {
	for _, t := range n.tokens {
		if !yield(t, n) {
			return
		}
	}
}
func (*openNode) IsWord() bool            { return false }
func (*openNode) WordEnds() []TrieWordEnd { return nil }

type flatTrie struct{ n *openNode }

func (t *flatTrie) Root() TrieNode { return t.n }

func newFlatTrie(tokens ...int32) *flatTrie {
	return &flatTrie{n: &openNode{tokens: tokens}}
}

func buildGreedyOpts(blank int32) DecoderOptions {
	o := DefaultOptions()
	o.CriterionType = CriterionCTC
	o.Blank = blank
	o.Silence = -1
	o.Unk = -1
	o.BeamSize = 4
	o.BeamSizeToken = 8
	o.BeamThreshold = 1e9
	o.LMWeight = 0
	return o
}

// greedy CTC, no LM, N=3 {a,b,blank}, T=4.
func TestLexiconDecoder_GreedyCTC(t *testing.T) {
	emissions := [][]float64{
		{10, 0, 0},
		{0, 10, 0},
		{0, 10, 0},
		{10, 0, 0},
	}
	opts := buildGreedyOpts(2)
	dec, err := NewLexiconDecoder(opts, noLM{}, newFlatTrie(0, 1), nil)
	if err != nil {
		t.Fatalf("NewLexiconDecoder: %v", err)
	}
	res, err := dec.Decode(context.Background(), emissions)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	collapsed := collapseCTC(res.Tokens, opts.Blank)
	want := []int32{0, 1, 0}
	if !int32sEqual(collapsed, want) {
		t.Errorf("collapsed tokens = %v, want %v", collapsed, want)
	}
	if math.Abs(res.Score-40.0) > 1e-5 {
		t.Errorf("score = %v, want 40.0", res.Score)
	}
}

// CTC with blank-preserved repeat.
func TestLexiconDecoder_BlankPreservedRepeat(t *testing.T) {
	emissions := [][]float64{
		{10, 0, 0},
		{0, 0, 10},
		{10, 0, 0},
		{0, 0, 10},
		{10, 0, 0},
	}
	opts := buildGreedyOpts(2)
	dec, err := NewLexiconDecoder(opts, noLM{}, newFlatTrie(0, 1), nil)
	if err != nil {
		t.Fatalf("NewLexiconDecoder: %v", err)
	}
	res, err := dec.Decode(context.Background(), emissions)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	collapsed := collapseCTC(res.Tokens, opts.Blank)
	want := []int32{0, 0, 0}
	if !int32sEqual(collapsed, want) {
		t.Errorf("collapsed tokens = %v, want %v", collapsed, want)
	}
	if math.Abs(res.Score-50.0) > 1e-5 {
		t.Errorf("score = %v, want 50.0", res.Score)
	}
	// blank and repeat candidates carry no LM term and no bonus in this
	// scenario, so the acoustic breakdown alone must account for the
	// full score.
	if math.Abs(res.AMScore-50.0) > 1e-5 {
		t.Errorf("AMScore = %v, want 50.0 (blank/repeat steps must be included)", res.AMScore)
	}
	if res.LMScore != 0 {
		t.Errorf("LMScore = %v, want 0", res.LMScore)
	}
}

// wordNode/wordTrie build a 3-edge trie spelling a single word "cat" =
// tokens [0,1,2] over a 4-symbol alphabet {c,a,t,blank=3}, exercising
// lexicon decoding with a word bonus.
type wordNode struct {
	children map[int32]*wordNode
	ends     []TrieWordEnd
}

func (n *wordNode) Child(tok int32) TrieNode {
	c, ok := n.children[tok]
	if !ok {
		return nil
	}
	return c
}
func (n *wordNode) Children(yield func(int32, TrieNode) bool) {
	for tok, c := range n.children {
		if !yield(tok, c) {
			return
		}
	}
}
func (n *wordNode) IsWord() bool            { return len(n.ends) > 0 }
func (n *wordNode) WordEnds() []TrieWordEnd { return n.ends }

type wordTrie struct{ root *wordNode }

func (t *wordTrie) Root() TrieNode { return t.root }

func buildCatTrie() *wordTrie {
	tNode := &wordNode{children: map[int32]*wordNode{}, ends: []TrieWordEnd{{Word: 0, WordLMScore: 0}}}
	aNode := &wordNode{children: map[int32]*wordNode{2: tNode}}
	cNode := &wordNode{children: map[int32]*wordNode{1: aNode}}
	root := &wordNode{children: map[int32]*wordNode{0: cNode}}
	return &wordTrie{root: root}
}

func TestLexiconDecoder_WordBonus(t *testing.T) {
	// tokens: c=0,a=1,t=2,blank=3; emissions strongly favor c,a,t in order.
	emissions := [][]float64{
		{10, 0, 0, 0},
		{0, 10, 0, 0},
		{0, 0, 10, 0},
	}
	opts := buildGreedyOpts(3)
	opts.WordScore = 2.0
	trie := buildCatTrie()
	dec, err := NewLexiconDecoder(opts, noLM{}, trie, nil)
	if err != nil {
		t.Fatalf("NewLexiconDecoder: %v", err)
	}
	res, err := dec.Decode(context.Background(), emissions)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(res.Words) != 1 || res.Words[0] != 0 {
		t.Fatalf("words = %v, want [0]", res.Words)
	}
	wantScore := res.AMScore + res.LMScore + opts.WordScore
	if math.Abs(res.Score-wantScore) > 1e-5 {
		t.Errorf("score = %v, want amScore+lmScore+wordScore = %v", res.Score, wantScore)
	}
}

func TestLexiconDecoder_RejectsNonFiniteEmission(t *testing.T) {
	opts := buildGreedyOpts(2)
	dec, _ := NewLexiconDecoder(opts, noLM{}, newFlatTrie(0, 1), nil)
	_, err := dec.Decode(context.Background(), [][]float64{{10, 0, math.NaN()}, {1, 1, 1}})
	if err == nil {
		t.Fatal("expected InputError for non-finite emission")
	}
	if _, ok := err.(*InputError); !ok {
		t.Errorf("err = %T, want *InputError", err)
	}
}

func TestLexiconDecoder_RejectsEmptyEmissions(t *testing.T) {
	opts := buildGreedyOpts(2)
	dec, _ := NewLexiconDecoder(opts, noLM{}, newFlatTrie(0, 1), nil)
	_, err := dec.Decode(context.Background(), nil)
	if _, ok := err.(*InputError); !ok {
		t.Errorf("err = %T, want *InputError", err)
	}
}

func collapseCTC(tokens []int32, blank int32) []int32 {
	var out []int32
	var prev int32 = -1
	for _, tok := range tokens {
		if tok == blank {
			prev = -1
			continue
		}
		if tok == prev {
			continue
		}
		out = append(out, tok)
		prev = tok
	}
	return out
}

func int32sEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
