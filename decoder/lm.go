package decoder

// LMStatePtr is an opaque language-model state handle. The decoder never
// inspects its concrete type; it only ever compares states through
// LanguageModel.CompareState and passes them back into Score/Finish.
type LMStatePtr interface{}

// LanguageModel is the uniform adapter the beam engine queries for
// language-model scores and state transitions. Implementations wrap a
// concrete LM (an n-gram model, a neural LM, ...) behind start/score/
// finish/compareState, per the external-collaborator contract: an opaque
// scorer whose states the decoder treats as black boxes.
//
// Score and Finish must be deterministic and pure in the state argument;
// CompareState must define an equivalence relation (reflexive,
// symmetric, transitive). States comparing equal are interchangeable
// for all future scoring, and that equivalence is exactly what the beam
// frontier uses to merge hypotheses.
type LanguageModel interface {
	// Start returns the initial state. startWithNothing selects whether
	// the state carries no context at all (true) or the sentence-start
	// context (false).
	Start(startWithNothing bool) LMStatePtr

	// Score advances state by one label (a word index for a word-level
	// LM, a token index for a token-level LM) and returns the resulting
	// state and its log-probability contribution.
	Score(state LMStatePtr, label int32) (LMStatePtr, float64)

	// Finish scores the end-of-sequence transition from state.
	Finish(state LMStatePtr) (LMStatePtr, float64)

	// CompareState returns a negative, zero, or positive value ordering
	// a and b; zero means the states are equivalent for merge purposes.
	CompareState(a, b LMStatePtr) int
}
