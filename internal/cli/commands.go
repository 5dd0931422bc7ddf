// Package cli implements the redditreader command line: running the skill
// server and invoking the skill locally from request files.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tansive/redditreader/internal/common/logtrace"
	"github.com/tansive/redditreader/internal/readerskill/api"
	"github.com/tansive/redditreader/internal/readerskill/config"
	"github.com/tansive/redditreader/internal/readerskill/server"
)

// DefaultConfigFile is read when neither --config nor REDDITREADER_CONFIG is set.
const DefaultConfigFile = "redditreader.conf"

var (
	// Global flags
	jsonOutput bool
	configFile string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "redditreader [command] [flags]",
		Short: "Reddit Reader - a voice skill that reads reddit headlines",
		Long: `Reddit Reader serves a voice skill that reads the top posts of reddit,
and of any subreddit for users who bought subreddit requests.

Examples:
  # Run the skill webhook
  redditreader serve --config redditreader.conf

  # Send a request file through the skill without a server
  redditreader invoke -f launch.yaml

  # Same, with a real catalog access token
  redditreader invoke -f read_from.json --token "$ALEXA_API_TOKEN" -o yaml`,
		PersistentPreRunE: preRunHandlePersistents,
		SilenceErrors:     true, // Execute prints the error
		SilenceUsage:      true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file (default $REDDITREADER_CONFIG or "+DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newInvokeCmd())
	return rootCmd
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	logtrace.InitLogger()

	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(os.Stdout, map[string]string{
				"error": err.Error(),
			})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents loads the configuration for every command that
// talks to the skill.
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	if configFile == "" {
		configFile = os.Getenv("REDDITREADER_CONFIG")
	}
	if configFile == "" {
		configFile = DefaultConfigFile
	}

	if err := config.LoadConfig(configFile); err != nil {
		return err
	}
	if err := logtrace.SetLevel(config.Config().LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of redditreader",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if jsonOutput {
				printJSON(out, map[string]string{
					"version":     server.Version,
					"api_version": api.Version,
				})
				return
			}
			fmt.Fprintf(out, "redditreader %s\n", server.Version)
			fmt.Fprintf(out, "Skill API version: %s\n", api.Version)
		},
	}
}

// printJSON prints data as indented JSON.
func printJSON(w io.Writer, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
