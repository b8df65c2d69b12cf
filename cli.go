package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"vocabquiz/internal/wordbank"
)

// newRootCmd builds the CLI. Running the bare command starts the server.
func newRootCmd() *cobra.Command {
	var (
		host     string
		port     string
		words    string
		sessions string
	)

	applyFlags := func(cmd *cobra.Command, cfg *Config) {
		if cmd.Flags().Changed("host") {
			cfg.Host = host
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("words") {
			cfg.WordsFile = words
		}
		if cmd.Flags().Changed("sessions") {
			cfg.SessionBackend = sessions
		}
	}

	serve := func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		return runServer(cmd.Context(), cfg)
	}

	root := &cobra.Command{
		Use:          AppName,
		Short:        "Vocabulary quiz web server",
		SilenceUsage: true,
		RunE:         serve,
	}
	root.PersistentFlags().StringVar(&host, "host", "0.0.0.0", "address to bind (overrides HOST)")
	root.PersistentFlags().StringVar(&port, "port", "5246", "port to listen on (overrides PORT)")
	root.PersistentFlags().StringVar(&words, "words", "data/common_words.txt", "word list file (overrides WORDS_FILE)")
	root.PersistentFlags().StringVar(&sessions, "sessions", BackendMemory, "session backend: memory, file or redis (overrides SESSION_BACKEND)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE:  serve,
	})
	root.AddCommand(&cobra.Command{
		Use:   "check-words",
		Short: "Load the word list and report its buckets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg)
			return checkWords(cmd, cfg.WordsFile)
		},
	})
	return root
}

// checkWords prints a summary of the word list at path.
func checkWords(cmd *cobra.Command, path string) error {
	bank, err := wordbank.LoadFile(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d words, %d buckets, %d lines skipped\n", path, bank.Len(), len(bank.BucketKeys()), bank.Skipped())

	perBucket := lo.CountValuesBy(bank.Entries(), func(e wordbank.Entry) string {
		return bank.BucketOf(e.Word)
	})
	counts := lo.Map(bank.BucketKeys(), func(key string, _ int) string {
		return fmt.Sprintf("%s=%d", key, perBucket[key])
	})
	fmt.Fprintln(out, strings.Join(counts, " "))
	return nil
}
