package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ieee0824/beamdecode/decoder"
)

func newDecodeCmd() *cobra.Command {
	var emissionsPath, alphabetPath string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Frame-synchronous CTC/ASG decode over a precomputed emission matrix",
		Long: `decode runs LexiconDecoder (or TokenLMDecoder, via --config's tokenLM
field) over a whitespace-separated emission matrix, one frame per line,
columns matching the --alphabet file's line order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			correlationID := uuid.New().String()
			log.Debug().Str("correlation_id", correlationID).Msg("decode starting")

			profile, err := loadDecodeProfile()
			if err != nil {
				return err
			}
			opts, err := profile.toOptions()
			if err != nil {
				return err
			}

			alphabet, err := loadAlphabet(alphabetPath)
			if err != nil {
				return err
			}

			var trie decoder.Trie
			var idToWord []string
			if profile.Dictionary != "" {
				trie, idToWord, err = loadTrieFromDictionary(profile.Dictionary, alphabet)
				if err != nil {
					return err
				}
			} else {
				trie = newUnconstrainedTrie(allTokenIndices(len(alphabet)))
			}

			tokenLevel := opts.TokenLM && opts.LMUsage != decoder.LMUsageWordLevel
			lmLabels := idToWord
			if tokenLevel {
				lmLabels = alphabet
			}
			lm, err := loadLanguageModel(profile.ARPA, lmLabels, tokenLevel)
			if err != nil {
				return err
			}

			emissions, err := loadEmissions(emissionsPath)
			if err != nil {
				return err
			}

			dec, err := decoder.NewLexiconDecoder(opts, lm, trie, nil)
			if err != nil {
				return err
			}

			res, err := dec.Decode(context.Background(), emissions)
			if err != nil {
				log.Error().Str("correlation_id", correlationID).Err(err).Msg("decode failed")
				return err
			}

			log.Debug().Str("correlation_id", correlationID).Float64("score", res.Score).Msg("decode finished")
			return printResult(cmd, res, alphabet, idToWord)
		},
	}

	cmd.Flags().StringVar(&emissionsPath, "emissions", "", "path to the emission matrix file (required)")
	cmd.Flags().StringVar(&alphabetPath, "alphabet", "", "path to the token alphabet file (required)")
	cmd.MarkFlagRequired("emissions")
	cmd.MarkFlagRequired("alphabet")
	return cmd
}

func printResult(cmd *cobra.Command, res *decoder.DecodeResult, alphabet, idToWord []string) error {
	tokenLabels := make([]string, len(res.Tokens))
	for i, tok := range res.Tokens {
		tokenLabels[i] = labelOf(alphabet, tok)
	}
	wordLabels := make([]string, len(res.Words))
	for i, w := range res.Words {
		wordLabels[i] = labelOf(idToWord, w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "score=%.4f amScore=%.4f lmScore=%.4f\n", res.Score, res.AMScore, res.LMScore)
	fmt.Fprintf(cmd.OutOrStdout(), "tokens: %v\n", tokenLabels)
	if len(wordLabels) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "words: %v\n", wordLabels)
	}
	return nil
}

func labelOf(labels []string, idx int32) string {
	if idx < 0 || int(idx) >= len(labels) {
		return fmt.Sprintf("<%d>", idx)
	}
	return labels[idx]
}

// unconstrainedTrie models a lexicon-free alphabet where every token is
// reachable from every position, for decode profiles with no
// --config dictionary field set. Its root is a pointer so the node
// stays comparable: the decoder keys merge equivalence on TrieNode
// identity, which a value type carrying a slice field cannot support.
type unconstrainedTrie struct{ root *unconstrainedNode }

func newUnconstrainedTrie(tokens []int32) unconstrainedTrie {
	return unconstrainedTrie{root: &unconstrainedNode{tokens: tokens}}
}

func (t unconstrainedTrie) Root() decoder.TrieNode { return t.root }

type unconstrainedNode struct{ tokens []int32 }

func (n *unconstrainedNode) Child(tok int32) decoder.TrieNode {
	for _, t := range n.tokens {
		if t == tok {
			return n
		}
	}
	return nil
}
func (n *unconstrainedNode) Children(yield func(int32, decoder.TrieNode) bool) {
	for _, t := range n.tokens {
		if !yield(t, n) {
			return
		}
	}
}
func (*unconstrainedNode) IsWord() bool                   { return false }
func (*unconstrainedNode) WordEnds() []decoder.TrieWordEnd { return nil }

func allTokenIndices(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i)
	}
	return out
}
