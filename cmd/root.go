package cmd

import (
	"fmt"
	"io"
	"os"

	"Tunebox/config"
	"Tunebox/core/mediastore"
	"Tunebox/logger"

	"github.com/spf13/cobra"
)

const logOutputAnnotation = "logOutput"

var (
	cfg    *config.Config
	apiURL string
)

var rootCmd = &cobra.Command{
	Use:   "tunebox",
	Short: "Tunebox is a minimal music player with its own media store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		return logger.Init(logger.Config{Level: cfg.LogLevel, OutputPath: cfg.LogFile, Console: logConsole(cmd)})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Media Store address (overrides API_URL)")
}

// logConsole keeps log lines out of command output. Only the server logs to stdout.
func logConsole(cmd *cobra.Command) io.Writer {
	if cmd.Annotations[logOutputAnnotation] == "stdout" {
		return os.Stdout
	}
	return os.Stderr
}

func newClient() *mediastore.Client {
	return mediastore.NewClient(cfg.APIURL)
}
