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
	"github.com/tansive/lexruntime/internal/common/logtrace"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
	logLevel   string
	botName    string
	botAlias   string
	userID     string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var warnLabel = color.New(color.FgYellow)
var keyLabel = color.New(color.FgCyan)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lexctl [command] [flags]",
	Short: "lexctl - A command line client for the conversational bot runtime",
	Long: `lexctl is a command line client for the conversational bot runtime.
It sends text and audio turns to a bot and reads, replaces or deletes the
session state the runtime keeps for a user.

Examples:
  # Configure the runtime endpoint and default bot
  lexctl config --endpoint runtime.example.com --default-bot OrderFlowers --default-alias PROD

  # Send a text turn
  lexctl text "I would like to order flowers"

  # Send an audio turn and save the spoken reply
  lexctl content --input order.pcm --content-type "audio/l16; rate=16000; channels=1" --output reply.mp3

  # Save the session and restore it later
  lexctl get-session --save session.yaml
  lexctl put-session -f session.yaml`,
	PersistentPreRunE: preRunHandlePersistents,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&botName, "bot", "b", "", "Bot name (defaults to the configured bot)")
	rootCmd.PersistentFlags().StringVarP(&botAlias, "alias", "a", "", "Bot alias (defaults to the configured alias)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User id (defaults to the configured user)")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Requests in flight are cancelled when ctx is done.
func Execute(ctx context.Context) {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.ExecuteContext(ctx)
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

// preRunHandlePersistents sets up logging and loads the configuration before
// command execution
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	isConfig := false
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" || c.Name() == "version" {
			isConfig = true
			break
		}
	}

	if !isConfig {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := LoadConfig(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("lexctl config file not found at %s, configure lexctl with \"lexctl config --endpoint <url>\" first", path)
			}
			return err
		}
	}

	level := logLevel
	if level == "" && config != nil {
		level = config.LogLevel
	}
	if level == "" {
		level = "warn"
	}
	return logtrace.InitLoggerTo(cmd.ErrOrStderr(), level, true)
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lexctl",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				path = "unknown"
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version":        getCLIVersion(),
					"config_version": ConfigFormatVersion,
					"config_file":    path,
				})
			}
			cmd.Printf("lexctl %s\n", getCLIVersion())
			cmd.Printf("Config file: %s\n", path)
			return nil
		},
	}
}

// printJSON writes data as indented JSON
func printJSON(w io.Writer, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to format output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0"
}
