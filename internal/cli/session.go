package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tansive/lexruntime/pkg/sessionstore"
)

var (
	putSessionFile      string
	putSessionOverrides []string
	putSessionAccept    string
	putSessionOutput    string
)

// putSessionCmd represents the put-session command
var putSessionCmd = &cobra.Command{
	Use:   "put-session -f <file>",
	Short: "Create or replace session state from a YAML file",
	Long: `Create or replace the session state of a user from a YAML file. A file may hold
several documents separated by ---; each is sent as its own request. Values of the
form {{ .ENV.NAME }} are replaced from the environment or a .env file.

Examples:
  # Restore a saved session
  lexctl put-session -f session.yaml

  # Override a slot before sending
  lexctl put-session -f session.yaml --set dialogAction.slots.FlowerType=tulips`,
	Args: cobra.NoArgs,
	RunE: runPutSession,
}

var (
	getSessionCheckpoint string
	getSessionCached     bool
	getSessionSave       string
)

// getSessionCmd represents the get-session command
var getSessionCmd = &cobra.Command{
	Use:   "get-session",
	Short: "Show the session state of a user",
	Long: `Show the session state the runtime keeps for a user. With --save the state is
written as a put-session document that can be sent back later.

Examples:
  # Show the session
  lexctl get-session --user user-42

  # Only show intents recorded at a checkpoint and save the result
  lexctl get-session --checkpoint before-pickup --save session.yaml

  # Show the last state recorded in the configured session store
  lexctl get-session --cached`,
	Args: cobra.NoArgs,
	RunE: runGetSession,
}

// deleteSessionCmd represents the delete-session command
var deleteSessionCmd = &cobra.Command{
	Use:   "delete-session",
	Short: "Delete the session state of a user",
	Args:  cobra.NoArgs,
	RunE:  runDeleteSession,
}

func init() {
	putSessionCmd.Flags().StringVarP(&putSessionFile, "filename", "f", "", "Session document file, or - for stdin")
	putSessionCmd.Flags().StringArrayVar(&putSessionOverrides, "set", nil, "Override a session value as path=value (repeatable)")
	putSessionCmd.Flags().StringVar(&putSessionAccept, "accept", "", "Requested type of the prompt, overrides the document")
	putSessionCmd.Flags().StringVarP(&putSessionOutput, "output", "o", "", "File to write the prompt audio to")
	putSessionCmd.MarkFlagRequired("filename")

	getSessionCmd.Flags().StringVar(&getSessionCheckpoint, "checkpoint", "", "Only return intents with this checkpoint label")
	getSessionCmd.Flags().BoolVar(&getSessionCached, "cached", false, "Read the session store instead of the runtime")
	getSessionCmd.Flags().StringVar(&getSessionSave, "save", "", "Write the session as a put-session document to this file")
	getSessionCmd.MarkFlagsMutuallyExclusive("cached", "save")

	rootCmd.AddCommand(putSessionCmd)
	rootCmd.AddCommand(getSessionCmd)
	rootCmd.AddCommand(deleteSessionCmd)
}

func runPutSession(cmd *cobra.Command, args []string) error {
	docs, err := readRequestDocuments(putSessionFile)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no session documents in %s", putSessionFile)
	}

	t, _ := resolveTarget(config)
	requests := make([]*lexruntime.PutSessionRequest, 0, len(docs))
	for i, raw := range docs {
		doc, err := decodeSessionDocument(raw, putSessionOverrides)
		if err != nil {
			return fmt.Errorf("document %d: %w", i+1, err)
		}
		if putSessionAccept != "" {
			doc.Accept = putSessionAccept
		}
		req, err := doc.putSessionRequest(t)
		if err != nil {
			return fmt.Errorf("document %d: %w", i+1, err)
		}
		requests = append(requests, req)
	}

	client, err := newAPIClient(config)
	if err != nil {
		return err
	}
	defer client.Close()

	results := make([]*lexruntime.PutSessionResult, 0, len(requests))
	for _, req := range requests {
		res, err := client.PutSession(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("put session for %s: %w", req.UserID.Value, err)
		}
		if err := saveAudio(cmd, res.AudioStream, putSessionOutput); err != nil {
			return err
		}
		results = append(results, res)
	}

	if jsonOutput || yamlOutput {
		var out any = results
		if len(results) == 1 {
			out = results[0]
		}
		_, err := printResult(cmd.OutOrStdout(), out)
		return err
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		view, err := putSessionView(res)
		if err != nil {
			return err
		}
		view.write(cmd.OutOrStdout())
	}
	return nil
}

func runGetSession(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(config)
	if err != nil {
		return err
	}
	client, err := newAPIClient(config)
	if err != nil {
		return err
	}
	defer client.Close()

	if getSessionCached {
		snap, err := client.Session(cmd.Context(), t.Bot, t.Alias, t.User)
		if err != nil {
			if errors.Is(err, sessionstore.ErrNotFound) {
				return fmt.Errorf("no stored session for %s/%s/%s", t.Bot, t.Alias, t.User)
			}
			return err
		}
		if done, err := printResult(cmd.OutOrStdout(), snap); done {
			return err
		}
		snapshotView(snap).write(cmd.OutOrStdout())
		return nil
	}

	req := lexruntime.NewGetSessionRequest(t.Bot, t.Alias, t.User)
	if getSessionCheckpoint != "" {
		req.WithCheckpointLabelFilter(getSessionCheckpoint)
	}
	res, err := client.GetSession(cmd.Context(), req)
	if err != nil {
		return err
	}

	if getSessionSave != "" {
		out, err := sessionDocumentYAML(res.ToPutSessionRequest(t.Bot, t.Alias, t.User))
		if err != nil {
			return fmt.Errorf("unable to render session document: %w", err)
		}
		if err := os.WriteFile(getSessionSave, out, 0600); err != nil {
			return fmt.Errorf("unable to save session: %w", err)
		}
		if !jsonOutput && !yamlOutput {
			okLabel.Fprintf(cmd.ErrOrStderr(), "Session saved to %s\n", getSessionSave)
		}
	}

	if done, err := printResult(cmd.OutOrStdout(), res); done {
		return err
	}
	getSessionView(res).write(cmd.OutOrStdout())
	return nil
}

func runDeleteSession(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(config)
	if err != nil {
		return err
	}
	client, err := newAPIClient(config)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.DeleteSession(cmd.Context(), lexruntime.NewDeleteSessionRequest(t.Bot, t.Alias, t.User))
	if err != nil {
		return err
	}
	if done, err := printResult(cmd.OutOrStdout(), res); done {
		return err
	}
	okLabel.Fprint(cmd.OutOrStdout(), "Deleted session")
	if res.SessionID.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), " %s", res.SessionID.Value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), " for %s\n", t.User)
	return nil
}
