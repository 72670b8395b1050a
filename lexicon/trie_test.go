package lexicon

import (
	"testing"

	"github.com/ieee0824/beamdecode/decoder"
)

func TestBuildTrie_SpellsWordsAsPaths(t *testing.T) {
	dict := NewDictionary()
	dict.Add("cat", "", []Symbol{PhonK, PhonA, PhonT})
	dict.Add("car", "", []Symbol{PhonK, PhonA, PhonR})

	index := TokenIndex{PhonK: 0, PhonA: 1, PhonT: 2, PhonR: 3}
	wordIndex := map[string]int32{"cat": 0, "car": 1}

	trie := BuildTrie(dict, index, wordIndex, nil)

	root := trie.Root()
	n := root.Child(0) // k
	if n == nil {
		t.Fatal("root has no child for token 0 (k)")
	}
	n = n.Child(1) // a
	if n == nil {
		t.Fatal("k-node has no child for token 1 (a)")
	}
	if n.IsWord() {
		t.Error("k-a node should not be a word end")
	}

	tNode := n.Child(2) // t -> "cat"
	if tNode == nil || !tNode.IsWord() {
		t.Fatal("k-a-t node should be a word end for \"cat\"")
	}
	ends := tNode.WordEnds()
	if len(ends) != 1 || ends[0].Word != 0 {
		t.Errorf("WordEnds = %v, want [{Word:0}]", ends)
	}

	rNode := n.Child(3) // r -> "car"
	if rNode == nil || !rNode.IsWord() {
		t.Fatal("k-a-r node should be a word end for \"car\"")
	}
	if got := rNode.WordEnds()[0].Word; got != 1 {
		t.Errorf("car word label = %v, want 1", got)
	}
}

func TestBuildTrie_AppliesWordLMScore(t *testing.T) {
	dict := NewDictionary()
	dict.Add("cat", "", []Symbol{PhonK, PhonA, PhonT})
	index := TokenIndex{PhonK: 0, PhonA: 1, PhonT: 2}
	wordIndex := map[string]int32{"cat": 0}
	wordLMScore := map[string]float64{"cat": -1.5}

	trie := BuildTrie(dict, index, wordIndex, wordLMScore)
	node := trie.Root().Child(0).Child(1).Child(2)
	if node == nil || !node.IsWord() {
		t.Fatal("expected a word end at k-a-t")
	}
	if got := node.WordEnds()[0].WordLMScore; got != -1.5 {
		t.Errorf("WordLMScore = %v, want -1.5", got)
	}
}

func TestBuildTrie_SkipsWordsOutsideWordIndex(t *testing.T) {
	dict := NewDictionary()
	dict.Add("cat", "", []Symbol{PhonK, PhonA, PhonT})
	index := TokenIndex{PhonK: 0, PhonA: 1, PhonT: 2}

	trie := BuildTrie(dict, index, map[string]int32{}, nil)
	if trie.Root().Child(0) != nil {
		t.Error("words absent from wordIndex must not be spelled into the trie")
	}
}

func TestBuildTrie_SkipsEntriesWithUnknownPhoneme(t *testing.T) {
	dict := NewDictionary()
	dict.Add("cat", "", []Symbol{PhonK, PhonA, PhonT})
	index := TokenIndex{PhonK: 0, PhonA: 1} // PhonT missing from alphabet
	wordIndex := map[string]int32{"cat": 0}

	trie := BuildTrie(dict, index, wordIndex, nil)
	node := trie.Root().Child(0).Child(1)
	if node != nil && node.IsWord() {
		t.Error("an entry using an out-of-alphabet phoneme must not become a word end")
	}
}

func TestBuildTrie_ChildrenIteratesDeterministically(t *testing.T) {
	dict := NewDictionary()
	dict.Add("ba", "", []Symbol{PhonB, PhonA})
	dict.Add("be", "", []Symbol{PhonB, PhonE})
	index := TokenIndex{PhonB: 0, PhonA: 1, PhonE: 2}
	wordIndex := map[string]int32{"ba": 0, "be": 1}
	trie := BuildTrie(dict, index, wordIndex, nil)

	var seen1, seen2 []int32
	collect := func(tok int32, c decoder.TrieNode) bool { seen1 = append(seen1, tok); return true }
	trie.Root().Child(0).Children(collect)
	collect2 := func(tok int32, c decoder.TrieNode) bool { seen2 = append(seen2, tok); return true }
	trie.Root().Child(0).Children(collect2)

	if len(seen1) != len(seen2) {
		t.Fatalf("iteration order changed across calls: %v vs %v", seen1, seen2)
	}
	for i := range seen1 {
		if seen1[i] != seen2[i] {
			t.Errorf("iteration order not stable at %d: %v vs %v", i, seen1, seen2)
		}
	}
}
