package decoder

import "fmt"

// ConfigError reports an invalid DecoderOptions value, detected before a
// decode starts.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("decoder: invalid config field %s: %s", e.Field, e.Msg)
}

// HypDescriptor identifies the hypothesis a mid-decode error was raised
// against, for diagnostics only; it carries no behavior.
type HypDescriptor struct {
	Step  int
	Token int32
	Word  int32
}

func (d HypDescriptor) String() string {
	return fmt.Sprintf("step=%d token=%d word=%d", d.Step, d.Token, d.Word)
}

// InputError reports a malformed decode input: shape mismatch, a
// non-finite emission, or an AM callback returning the wrong batch size.
type InputError struct {
	Step int
	Msg  string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("decoder: input error at step %d: %s", e.Step, e.Msg)
}

// StateError reports a failure discovered while expanding or scoring a
// hypothesis: a trie lookup failure, a non-finite LM log-prob, or an
// attempt to expand an already-completed hypothesis.
type StateError struct {
	Hyp HypDescriptor
	Msg string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("decoder: state error (%s): %s", e.Hyp, e.Msg)
}
