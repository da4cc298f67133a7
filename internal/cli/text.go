package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"golang.org/x/text/unicode/norm"
)

var (
	textSessionAttrs map[string]string
	textRequestAttrs map[string]string
	textClearContext bool
)

// textCmd represents the text command
var textCmd = &cobra.Command{
	Use:   "text <input text>...",
	Short: "Send a text turn to the bot",
	Long: `Send one turn of typed user input to the bot and print the bot's reply.
All arguments are joined with spaces.

Examples:
  # Start an order
  lexctl text I would like to order flowers

  # Send a turn with session and request attributes
  lexctl text "roses" --session-attr channel=web --request-attr x-amz-lex:accept-content-types=PlainText`,
	Args: cobra.MinimumNArgs(1),
	RunE: runText,
}

func init() {
	textCmd.Flags().StringToStringVar(&textSessionAttrs, "session-attr", nil, "Session attribute as key=value (repeatable)")
	textCmd.Flags().StringToStringVar(&textRequestAttrs, "request-attr", nil, "Request attribute as key=value (repeatable)")
	textCmd.Flags().BoolVar(&textClearContext, "clear-contexts", false, "Send an empty active context list, clearing all contexts")
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(config)
	if err != nil {
		return err
	}
	client, err := newAPIClient(config)
	if err != nil {
		return err
	}
	defer client.Close()

	input := norm.NFC.String(strings.Join(args, " "))
	req := lexruntime.NewPostTextRequest(t.Bot, t.Alias, t.User, input)
	if cmd.Flags().Changed("session-attr") {
		req.WithSessionAttributes(textSessionAttrs)
	}
	if cmd.Flags().Changed("request-attr") {
		req.WithRequestAttributes(textRequestAttrs)
	}
	if textClearContext {
		req.WithActiveContexts()
	}

	res, err := client.PostText(cmd.Context(), req)
	if err != nil {
		return err
	}
	if done, err := printResult(cmd.OutOrStdout(), res); done {
		return err
	}
	view, err := postTextView(res)
	if err != nil {
		return err
	}
	view.write(cmd.OutOrStdout())
	return nil
}
