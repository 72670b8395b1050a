// Command beamdecode is the CLI front end over the decoder, lexicon, and
// language packages: a single cobra binary replacing a one-binary-per-tool
// layout.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "beamdecode",
		Short: "Beam-search decoding over CTC/ASG/Seq2Seq acoustic output",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			return initConfig()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "decode profile file (YAML/JSON), see --help on subcommands for the expected fields")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")

	root.AddCommand(newDecodeCmd())
	root.AddCommand(newDecodeSeq2SeqCmd())
	root.AddCommand(newLMBuildCmd())
	root.AddCommand(newDictCmd())
	return root
}

func initLogging() {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// initConfig layers viper's file/env config under whatever flags the
// invoking subcommand already bound.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}
	viper.SetEnvPrefix("BEAMDECODE")
	viper.AutomaticEnv()
	return nil
}
