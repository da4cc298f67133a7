package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"golang.org/x/text/unicode/norm"
)

var (
	contentInput        string
	contentText         string
	contentType         string
	contentAccept       string
	contentOutput       string
	contentSessionAttrs map[string]string
	contentRequestAttrs map[string]string
	contentClearContext bool
)

// contentCmd represents the content command
var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Send a speech or text turn as a stream",
	Long: `Send one turn of user input, audio or text, as a streamed request and print the
bot's reply. When the reply carries audio it is written to --output.

Examples:
  # Send 16 kHz PCM audio and save the spoken reply
  lexctl content --input order.pcm --content-type "audio/l16; rate=16000; channels=1" --output reply.mp3

  # Read audio from stdin
  cat order.pcm | lexctl content --input - --content-type "audio/l16; rate=8000; channels=1" --output reply.mp3

  # Send text and ask for a text reply
  lexctl content --text "roses" --accept "text/plain; charset=utf-8"`,
	Args: cobra.NoArgs,
	RunE: runContent,
}

func init() {
	contentCmd.Flags().StringVarP(&contentInput, "input", "i", "", "Input file, or - for stdin")
	contentCmd.Flags().StringVar(&contentText, "text", "", "Send text instead of an input file")
	contentCmd.Flags().StringVarP(&contentType, "content-type", "t", "", "Content type of the input (defaults to text/plain for --text)")
	contentCmd.Flags().StringVar(&contentAccept, "accept", "", "Requested reply type, e.g. audio/mpeg or text/plain; charset=utf-8")
	contentCmd.Flags().StringVarP(&contentOutput, "output", "o", "", "File to write the reply audio to")
	contentCmd.Flags().StringToStringVar(&contentSessionAttrs, "session-attr", nil, "Session attribute as key=value (repeatable)")
	contentCmd.Flags().StringToStringVar(&contentRequestAttrs, "request-attr", nil, "Request attribute as key=value (repeatable)")
	contentCmd.Flags().BoolVar(&contentClearContext, "clear-contexts", false, "Send an empty active context list, clearing all contexts")
	contentCmd.MarkFlagsMutuallyExclusive("input", "text")
	contentCmd.MarkFlagsOneRequired("input", "text")
	rootCmd.AddCommand(contentCmd)
}

func runContent(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(config)
	if err != nil {
		return err
	}

	ct := contentType
	if ct == "" {
		if contentText == "" {
			return fmt.Errorf("--content-type is required with --input")
		}
		ct = lexruntime.MediaTextPlain
	}
	mt, err := lexruntime.ParseMediaType(ct)
	if err != nil {
		return err
	}
	if !mt.IsInput() {
		return fmt.Errorf("%s cannot be sent as input", mt.MIME)
	}
	if contentAccept != "" {
		accept, err := lexruntime.ParseMediaType(contentAccept)
		if err != nil {
			return err
		}
		if !accept.IsOutput() {
			return fmt.Errorf("%s cannot be requested as a reply", accept.MIME)
		}
	}

	input, err := openContentInput(cmd)
	if err != nil {
		return err
	}
	defer input.Close()

	req := (&lexruntime.PostContentRequest{}).
		WithBotName(t.Bot).
		WithBotAlias(t.Alias).
		WithUserID(t.User).
		WithContentType(ct).
		WithInputStream(lexruntime.NewPayloadStream(input))
	if contentAccept != "" {
		req.WithAccept(contentAccept)
	}
	if cmd.Flags().Changed("session-attr") {
		if err := req.WithSessionAttributesMap(contentSessionAttrs); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("request-attr") {
		if err := req.WithRequestAttributesMap(contentRequestAttrs); err != nil {
			return err
		}
	}
	if contentClearContext {
		if err := req.WithActiveContextsList([]lexruntime.ActiveContext{}); err != nil {
			return err
		}
	}

	client, err := newAPIClient(config)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.PostContent(cmd.Context(), req)
	if err != nil {
		return err
	}
	if err := saveAudio(cmd, res.AudioStream, contentOutput); err != nil {
		return err
	}
	if done, err := printResult(cmd.OutOrStdout(), res); done {
		return err
	}
	view, err := postContentView(res)
	if err != nil {
		return err
	}
	view.write(cmd.OutOrStdout())
	return nil
}

func openContentInput(cmd *cobra.Command) (io.ReadCloser, error) {
	switch {
	case contentText != "":
		return io.NopCloser(strings.NewReader(norm.NFC.String(contentText))), nil
	case contentInput == "-":
		return io.NopCloser(cmd.InOrStdin()), nil
	default:
		f, err := os.Open(contentInput)
		if err != nil {
			return nil, fmt.Errorf("unable to open input: %w", err)
		}
		return f, nil
	}
}

// saveAudio writes a reply stream to file and closes it. Without a file the
// stream is discarded.
func saveAudio(cmd *cobra.Command, audio *lexruntime.PayloadStream, file string) error {
	if audio == nil {
		return nil
	}
	mime, err := audio.DetectMIME()
	if err != nil {
		return fmt.Errorf("unable to read reply audio: %w", err)
	}
	body, err := audio.Take()
	if err != nil {
		return err
	}
	defer body.Close()

	if file == "" {
		log.Debug().Str("mime", mime).Msg("discarding reply audio, no --output given")
		_, err := io.Copy(io.Discard, body)
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("unable to write reply audio: %w", err)
	}
	if !jsonOutput && !yamlOutput {
		okLabel.Fprintf(cmd.ErrOrStderr(), "Saved %d bytes of reply audio to %s", n, file)
		if mime != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), " (%s)", mime)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	return nil
}
