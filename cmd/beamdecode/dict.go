package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ieee0824/beamdecode/lexicon"
)

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Pronunciation dictionary tooling",
	}
	cmd.AddCommand(newDictConvertCmd())
	cmd.AddCommand(newDictFixCmd())
	return cmd
}

// dictBuildManifest is a YAML file listing the inputs for a dict convert
// run, for callers who'd rather version a manifest than repeat a long
// glob list on the command line.
type dictBuildManifest struct {
	Inputs []string `yaml:"inputs"`
	Output string   `yaml:"output"`
}

func loadDictBuildManifest(path string) (dictBuildManifest, error) {
	var m dictBuildManifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

func newDictConvertCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "convert [ipadic-csv-files...]",
		Short: "Convert IPAdic CSV files to the dictionary format lexicon.Load reads",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patterns []string
			var output string
			if manifestPath != "" {
				m, err := loadDictBuildManifest(manifestPath)
				if err != nil {
					return err
				}
				patterns = m.Inputs
				output = m.Output
			} else {
				if len(args) == 0 {
					return fmt.Errorf("convert needs either --manifest or at least one input file")
				}
				patterns = args
			}

			var files []string
			for _, arg := range patterns {
				matches, err := filepath.Glob(arg)
				if err != nil {
					return fmt.Errorf("bad pattern %q: %w", arg, err)
				}
				if matches == nil {
					files = append(files, arg)
				} else {
					files = append(files, matches...)
				}
			}

			type entry struct{ word, reading, phonemes string }
			seen := make(map[string]bool)
			var entries []entry

			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "open %s: %v\n", path, err)
					continue
				}
				r := csv.NewReader(f)
				r.LazyQuotes = true
				r.FieldsPerRecord = -1
				for {
					record, err := r.Read()
					if err == io.EOF {
						break
					}
					if err != nil {
						continue
					}
					// IPAdic CSV: field[0]=surface, field[11]=reading, field[12]=pronunciation.
					if len(record) < 13 {
						continue
					}
					word, reading, pronunciation := record[0], record[11], record[12]
					if pronunciation == "" || pronunciation == "*" {
						pronunciation = reading
					}
					if pronunciation == "" || pronunciation == "*" {
						continue
					}
					phonemes := lexicon.KanaToPhonemes(pronunciation)
					if len(phonemes) == 0 {
						continue
					}
					phStr := phonemeString(phonemes)
					key := word + "\t" + reading + "\t" + phStr
					if seen[key] {
						continue
					}
					seen[key] = true
					entries = append(entries, entry{word, reading, phStr})
				}
				f.Close()
			}

			sort.Slice(entries, func(i, j int) bool {
				if entries[i].word != entries[j].word {
					return entries[i].word < entries[j].word
				}
				return entries[i].reading < entries[j].reading
			})

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.word, e.reading, e.phonemes)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "converted %d entries from %d files\n", len(entries), len(files))
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to a YAML manifest ({inputs: [...], output: ...}) as an alternative to passing files and relying on stdout")
	return cmd
}

func newDictFixCmd() *cobra.Command {
	var warnDistance int

	cmd := &cobra.Command{
		Use:   "fix <dict.txt>",
		Short: "Re-generate phoneme sequences from katakana readings using the current KanaToPhonemes table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var entries []fixedEntry

			var fixed, skipped, total int
			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 1<<20), 1<<20)
			w := cmd.OutOrStdout()
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				parts := strings.SplitN(line, "\t", 3)
				if len(parts) < 3 {
					fmt.Fprintln(w, line)
					continue
				}
				total++
				word, kana := parts[0], parts[1]
				phonemes := lexicon.KanaToPhonemes(kana)
				if len(phonemes) == 0 {
					skipped++
					continue
				}
				newPhon := phonemeString(phonemes)
				if newPhon != parts[2] {
					fixed++
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", word, kana, newPhon)
				entries = append(entries, fixedEntry{word, kana, newPhon})
			}
			fmt.Fprintf(w, "<sil>\tSIL\t%s\n", string(lexicon.PhonSil))
			fmt.Fprintf(cmd.ErrOrStderr(), "total: %d, fixed: %d, skipped (empty phonemes): %d\n", total, fixed, skipped)

			if warnDistance > 0 {
				warnNearDuplicatePronunciations(cmd.ErrOrStderr(), entries, warnDistance)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().IntVar(&warnDistance, "warn-distance", 0, "warn on distinct words whose fixed phoneme sequences are within this edit distance of each other (0 disables)")
	return cmd
}

// warnNearDuplicatePronunciations flags distinct words whose phoneme
// sequences differ by at most maxDistance edits, a common symptom of a
// mistyped reading in the source dictionary. Entries are bucketed by
// phoneme count first since PhonemeEditDistance is at least |len(a)-len(b)|,
// which keeps the comparison well short of all-pairs on a full-size
// dictionary.
type fixedEntry struct {
	word, kana, phon string
}

func warnNearDuplicatePronunciations(w io.Writer, entries []fixedEntry, maxDistance int) {
	byLen := make(map[int][]int)
	seqs := make([][]lexicon.Symbol, len(entries))
	for i, e := range entries {
		fields := strings.Fields(e.phon)
		seq := make([]lexicon.Symbol, len(fields))
		for j, f := range fields {
			seq[j] = lexicon.Symbol(f)
		}
		seqs[i] = seq
		byLen[len(seq)] = append(byLen[len(seq)], i)
	}

	var warned int
	for i, e := range entries {
		for dl := -maxDistance; dl <= maxDistance; dl++ {
			for _, j := range byLen[len(seqs[i])+dl] {
				if j <= i || entries[j].word == e.word {
					continue
				}
				if d := lexicon.PhonemeEditDistance(seqs[i], seqs[j]); d > 0 && d <= maxDistance {
					fmt.Fprintf(w, "near-duplicate pronunciation (distance %d): %s [%s] vs %s [%s]\n", d, e.word, e.phon, entries[j].word, entries[j].phon)
					warned++
				}
			}
		}
	}
	fmt.Fprintf(w, "near-duplicate pronunciations flagged: %d\n", warned)
}

func phonemeString(ps []lexicon.Symbol) string {
	ss := make([]string, len(ps))
	for i, p := range ps {
		ss[i] = string(p)
	}
	return strings.Join(ss, " ")
}
