package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ieee0824/beamdecode/decoder"
	"github.com/ieee0824/beamdecode/language"
	"github.com/ieee0824/beamdecode/lexicon"
)

// loadAlphabet reads one token label per line; the line number is the
// token's decoder-facing index.
func loadAlphabet(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alphabet %s: %w", path, err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	return labels, scanner.Err()
}

// loadEmissions reads a whitespace-separated float matrix, one frame
// per line.
func loadEmissions(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open emissions %s: %w", path, err)
	}
	defer f.Close()

	var rows [][]float64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, fld := range fields {
			v, err := strconv.ParseFloat(fld, 64)
			if err != nil {
				return nil, fmt.Errorf("parse emission value %q: %w", fld, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, scanner.Err()
}

// loadTrieFromDictionary builds a decoder.Trie over alphabet from a
// lexicon.Dictionary on disk, assigning each distinct dictionary word a
// dense decoder-facing word index in first-seen (sorted) order.
func loadTrieFromDictionary(path string, alphabet []string) (decoder.Trie, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer f.Close()

	dict, err := lexicon.Load(f)
	if err != nil {
		return nil, nil, fmt.Errorf("load dictionary %s: %w", path, err)
	}

	index := make(lexicon.TokenIndex, len(alphabet))
	for i, label := range alphabet {
		index[lexicon.Symbol(label)] = int32(i)
	}

	words := dict.Words()
	sort.Strings(words)
	wordIndex := make(map[string]int32, len(words))
	idToWord := make([]string, len(words))
	for i, w := range words {
		wordIndex[w] = int32(i)
		idToWord[i] = w
	}

	trie := lexicon.BuildTrie(dict, index, wordIndex, nil)
	return trie, idToWord, nil
}

// loadLanguageModel loads an ARPA file and wraps it as a
// decoder.LanguageModel, or returns a no-op model when path is empty.
func loadLanguageModel(path string, idToWord []string, tokenLevel bool) (decoder.LanguageModel, error) {
	if path == "" {
		return noopLM{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ARPA model %s: %w", path, err)
	}
	defer f.Close()

	model, err := language.LoadARPA(f)
	if err != nil {
		return nil, fmt.Errorf("parse ARPA model %s: %w", path, err)
	}
	if tokenLevel {
		return language.NewTokenLevelAdapter(model, idToWord), nil
	}
	return language.NewWordLevelAdapter(model, idToWord), nil
}

// noopLM is the decoder.LanguageModel used when no ARPA model is
// configured: every query contributes zero.
type noopLM struct{}

func (noopLM) Start(bool) decoder.LMStatePtr { return struct{}{} }
func (noopLM) Score(decoder.LMStatePtr, int32) (decoder.LMStatePtr, float64) {
	return struct{}{}, 0
}
func (noopLM) Finish(decoder.LMStatePtr) (decoder.LMStatePtr, float64) { return struct{}{}, 0 }
func (noopLM) CompareState(decoder.LMStatePtr, decoder.LMStatePtr) int { return 0 }
