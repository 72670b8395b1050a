package decoder

// TrieWordEnd is one (word, per-path language-model score) pair a trie
// node may terminate; a single node can end more than one word when the
// lexicon contains homophones.
type TrieWordEnd struct {
	Word       int32
	WordLMScore float64
}

// TrieNode is one node of a lexicon prefix trie. Children are keyed by
// the token-alphabet index of the edge label.
type TrieNode interface {
	// Child returns the node reached by consuming token, or nil if no
	// such edge exists.
	Child(token int32) TrieNode

	// Children enumerates (token, child) pairs for every outgoing edge,
	// in a stable, deterministic order.
	Children(yield func(token int32, child TrieNode) bool)

	// IsWord reports whether this node terminates at least one word.
	IsWord() bool

	// WordEnds returns the words (and their per-path LM scores) this
	// node terminates. Empty when IsWord is false.
	WordEnds() []TrieWordEnd
}

// Trie is a read-only lexicon prefix tree. Its lifetime must outlive
// every decoder holding a reference to it.
type Trie interface {
	Root() TrieNode
}
