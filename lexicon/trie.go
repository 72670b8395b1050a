package lexicon

import (
	"sort"

	"github.com/ieee0824/beamdecode/decoder"
)

// node is a concrete decoder.TrieNode: a prefix-tree node over token
// indices, organized as a tree instead of a flat per-word HMM chain so
// decoder.LexiconDecoder can walk it edge by edge.
type node struct {
	children map[int32]*node
	// order records insertion order of children keys so Children
	// iterates deterministically.
	order []int32
	ends  []decoder.TrieWordEnd
}

func newNode() *node {
	return &node{children: make(map[int32]*node)}
}

func (n *node) Child(token int32) decoder.TrieNode {
	c, ok := n.children[token]
	if !ok {
		return nil
	}
	return c
}

func (n *node) Children(yield func(token int32, child decoder.TrieNode) bool) {
	for _, tok := range n.order {
		if !yield(tok, n.children[tok]) {
			return
		}
	}
}

func (n *node) IsWord() bool { return len(n.ends) > 0 }

func (n *node) WordEnds() []decoder.TrieWordEnd { return n.ends }

func (n *node) child(token int32) *node {
	c, ok := n.children[token]
	if !ok {
		c = newNode()
		n.children[token] = c
		n.order = append(n.order, token)
	}
	return c
}

// Trie is a concrete decoder.Trie backed by a prefix tree built from a
// Dictionary's entries.
type Trie struct {
	root *node
}

func (t *Trie) Root() decoder.TrieNode { return t.root }

// TokenIndex maps a Symbol to its alphabet index; callers build this
// once alongside the emission alphabet used to drive a decoder.
type TokenIndex map[Symbol]int32

// BuildTrie constructs a Trie from dict's entries, spelling each
// pronunciation in tokens indices via index. wordIndex maps a
// dictionary word to the decoder-facing word label; entries for words
// absent from wordIndex are skipped. wordLMScore supplies each entry's
// static per-path LM score, defaulting to 0 when nil.
func BuildTrie(dict *Dictionary, index TokenIndex, wordIndex map[string]int32, wordLMScore map[string]float64) *Trie {
	root := newNode()
	words := dict.Words()
	sort.Strings(words) // deterministic construction order

	for _, w := range words {
		label, ok := wordIndex[w]
		if !ok {
			continue
		}
		for _, entry := range dict.Lookup(w) {
			cur := root
			ok := true
			for _, sym := range entry.Phonemes {
				tok, known := index[sym]
				if !known {
					ok = false
					break
				}
				cur = cur.child(tok)
			}
			if !ok || len(entry.Phonemes) == 0 {
				continue
			}
			score := wordLMScore[w]
			cur.ends = append(cur.ends, decoder.TrieWordEnd{Word: label, WordLMScore: score})
		}
	}
	return &Trie{root: root}
}
