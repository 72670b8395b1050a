package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ieee0824/beamdecode/decoder"
)

func newDecodeSeq2SeqCmd() *cobra.Command {
	var scoresPath, alphabetPath string

	cmd := &cobra.Command{
		Use:   "decode-seq2seq",
		Short: "Output-length-synchronous Seq2Seq decode over a precomputed score table",
		Long: `decode-seq2seq drives Seq2SeqDecoder against a per-step score table
instead of a live AM: --scores is a whitespace-separated matrix, one
row per output step, used verbatim as that step's score vector
regardless of which token any hypothesis previously emitted. This is a
smoke-testing stand-in for a real AM update callback, which only a
caller embedding this package as a library can supply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			correlationID := uuid.New().String()
			log.Debug().Str("correlation_id", correlationID).Msg("seq2seq decode starting")

			profile, err := loadDecodeProfile()
			if err != nil {
				return err
			}
			profile.Criterion = "seq2seq"
			opts, err := profile.toOptions()
			if err != nil {
				return err
			}

			alphabet, err := loadAlphabet(alphabetPath)
			if err != nil {
				return err
			}
			lm, err := loadLanguageModel(profile.ARPA, alphabet, true)
			if err != nil {
				return err
			}

			rows, err := loadEmissions(scoresPath)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("--scores file has no rows")
			}

			amUpdate := fixedTableAM(rows)
			dec, err := decoder.NewSeq2SeqDecoder(opts, lm, amUpdate)
			if err != nil {
				return err
			}

			res, err := dec.Decode(context.Background(), &tableAMState{})
			if err != nil {
				log.Error().Str("correlation_id", correlationID).Err(err).Msg("seq2seq decode failed")
				return err
			}
			log.Debug().Str("correlation_id", correlationID).Float64("score", res.Score).Msg("seq2seq decode finished")
			return printResult(cmd, res, alphabet, nil)
		},
	}

	cmd.Flags().StringVar(&scoresPath, "scores", "", "path to the per-step score table file (required)")
	cmd.Flags().StringVar(&alphabetPath, "alphabet", "", "path to the token alphabet file, including eos (required)")
	cmd.MarkFlagRequired("scores")
	cmd.MarkFlagRequired("alphabet")
	return cmd
}

type tableAMState struct{ step int }

// fixedTableAM returns an AMUpdateFunc that serves rows[step] to every
// hypothesis at that step regardless of its token history, advancing
// each hypothesis's own step counter independently.
func fixedTableAM(rows [][]float64) decoder.AMUpdateFunc {
	return func(ctx context.Context, prevTokens []int32, prevStates []decoder.AMStatePtr) ([][]float64, []decoder.AMStatePtr, error) {
		scores := make([][]float64, len(prevStates))
		next := make([]decoder.AMStatePtr, len(prevStates))
		for i, st := range prevStates {
			s := st.(*tableAMState)
			step := s.step
			if step >= len(rows) {
				step = len(rows) - 1
			}
			scores[i] = rows[step]
			next[i] = &tableAMState{step: s.step + 1}
		}
		return scores, next, nil
	}
}
