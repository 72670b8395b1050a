package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ieee0824/beamdecode/language"
)

func newLMBuildCmd() *cobra.Command {
	var order int
	var output string

	cmd := &cobra.Command{
		Use:   "lmbuild [input-files...]",
		Short: "Build an ARPA N-gram language model from tokenized text",
		Long: `lmbuild reads one sentence per line, words separated by spaces, from the
given files (or stdin if none are given), and writes an ARPA-format
N-gram model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := language.NewBuilder(order)

			var sentCount int
			if len(args) == 0 {
				n, err := readSentences(b, os.Stdin)
				if err != nil {
					return err
				}
				sentCount = n
			} else {
				for _, path := range args {
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("open %s: %w", path, err)
					}
					n, err := readSentences(b, f)
					f.Close()
					if err != nil {
						return err
					}
					sentCount += n
				}
			}

			w := os.Stdout
			if output != "" {
				var err error
				w, err = os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer w.Close()
			}
			if err := b.WriteARPA(w); err != nil {
				return fmt.Errorf("write ARPA: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "built %d-gram model from %d sentences\n", order, sentCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&order, "order", 2, "N-gram order (2=bigram, 3=trigram)")
	cmd.Flags().StringVar(&output, "output", "", "output file (default: stdout)")
	return cmd
}

func readSentences(b *language.Builder, f *os.File) (int, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		if len(words) > 0 {
			b.AddSentence(words)
			count++
		}
	}
	return count, scanner.Err()
}
