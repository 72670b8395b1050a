package language

import (
	"github.com/ieee0824/beamdecode/decoder"
)

// lmState is the concrete state *NGramModel hands back through
// decoder.LMStatePtr: the trailing word history needed for the model's
// own backoff cascade (NGramModel.LogProb), capped at Order-1 words
// (never fewer than one).
type lmState struct {
	history []string
}

// WordLevelAdapter wraps an *NGramModel as a decoder.LanguageModel
// queried with word indices, for use as LexiconDecoder's word-boundary
// LM. idToWord resolves decoder-facing word labels back to the model's
// string vocabulary.
type WordLevelAdapter struct {
	Model   *NGramModel
	IDToWord []string
}

func NewWordLevelAdapter(m *NGramModel, idToWord []string) *WordLevelAdapter {
	return &WordLevelAdapter{Model: m, IDToWord: idToWord}
}

func (a *WordLevelAdapter) Start(startWithNothing bool) decoder.LMStatePtr {
	if startWithNothing {
		return &lmState{}
	}
	return &lmState{history: []string{"<s>"}}
}

func (a *WordLevelAdapter) Score(state decoder.LMStatePtr, label int32) (decoder.LMStatePtr, float64) {
	s := state.(*lmState)
	word := a.wordOf(label)
	lp := a.Model.LogProb(s.history, word)
	return a.advance(s, word), lp
}

func (a *WordLevelAdapter) Finish(state decoder.LMStatePtr) (decoder.LMStatePtr, float64) {
	s := state.(*lmState)
	lp := a.Model.LogProb(s.history, "</s>")
	return a.advance(s, "</s>"), lp
}

func (a *WordLevelAdapter) CompareState(x, y decoder.LMStatePtr) int {
	return compareHistory(x.(*lmState).history, y.(*lmState).history)
}

func (a *WordLevelAdapter) wordOf(label int32) string {
	if label < 0 || int(label) >= len(a.IDToWord) {
		return "<unk>"
	}
	return a.IDToWord[label]
}

func (a *WordLevelAdapter) advance(s *lmState, word string) *lmState {
	hist := appendCapped(s.history, word, a.Model.Order)
	return &lmState{history: hist}
}

// TokenLevelAdapter wraps an *NGramModel queried with token (not word)
// indices, for TokenLMDecoder mode, where LM state is token-level.
// idToToken resolves decoder-facing token labels to strings the
// underlying n-gram model was trained over.
type TokenLevelAdapter struct {
	Model     *NGramModel
	IDToToken []string
}

func NewTokenLevelAdapter(m *NGramModel, idToToken []string) *TokenLevelAdapter {
	return &TokenLevelAdapter{Model: m, IDToToken: idToToken}
}

func (a *TokenLevelAdapter) Start(startWithNothing bool) decoder.LMStatePtr {
	if startWithNothing {
		return &lmState{}
	}
	return &lmState{history: []string{"<s>"}}
}

func (a *TokenLevelAdapter) Score(state decoder.LMStatePtr, label int32) (decoder.LMStatePtr, float64) {
	s := state.(*lmState)
	tok := a.tokenOf(label)
	lp := a.Model.LogProb(s.history, tok)
	hist := appendCapped(s.history, tok, a.Model.Order)
	return &lmState{history: hist}, lp
}

func (a *TokenLevelAdapter) Finish(state decoder.LMStatePtr) (decoder.LMStatePtr, float64) {
	s := state.(*lmState)
	lp := a.Model.LogProb(s.history, "</s>")
	hist := appendCapped(s.history, "</s>", a.Model.Order)
	return &lmState{history: hist}, lp
}

func (a *TokenLevelAdapter) CompareState(x, y decoder.LMStatePtr) int {
	return compareHistory(x.(*lmState).history, y.(*lmState).history)
}

func (a *TokenLevelAdapter) tokenOf(label int32) string {
	if label < 0 || int(label) >= len(a.IDToToken) {
		return "<unk>"
	}
	return a.IDToToken[label]
}

func appendCapped(history []string, word string, order int) []string {
	capLen := order - 1
	if capLen < 1 {
		capLen = 1
	}
	next := make([]string, 0, capLen)
	if len(history) >= capLen {
		next = append(next, history[len(history)-capLen+1:]...)
	} else {
		next = append(next, history...)
	}
	next = append(next, word)
	return next
}

func compareHistory(a, b []string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
