package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tidwall/gjson"
)

// runtimeStub records the last request and answers like the runtime for the
// OrderFlowers bot.
type runtimeStub struct {
	mu     sync.Mutex
	path   string
	header http.Header
	body   []byte
}

func (s *runtimeStub) last() (string, http.Header, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path, s.header, s.body
}

func (s *runtimeStub) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			s.mu.Lock()
			s.path, s.header, s.body = r.Method+" "+r.URL.RequestURI(), r.Header.Clone(), body
			s.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})
	r.Route("/bot/{bot}/alias/{alias}/user/{user}", func(r chi.Router) {
		r.Post("/text", func(w http.ResponseWriter, r *http.Request) {
			_, _, body := s.last()
			writeStubJSON(w, map[string]any{
				"sessionId":         "s-" + chi.URLParam(r, "user"),
				"intentName":        "OrderFlowers",
				"dialogState":       "ElicitSlot",
				"slotToElicit":      "FlowerType",
				"message":           "You said " + gjson.GetBytes(body, "inputText").String(),
				"messageFormat":     "PlainText",
				"sessionAttributes": json.RawMessage(orEmptyObject(gjson.GetBytes(body, "sessionAttributes").Raw)),
			})
		})
		r.Post("/content", func(w http.ResponseWriter, r *http.Request) {
			audio := []byte("ID3\x04\x00fake-mpeg-frames")
			h := w.Header()
			h.Set(lexruntime.HeaderSessionID, "s-"+chi.URLParam(r, "user"))
			h.Set(lexruntime.HeaderDialogState, "Fulfilled")
			h.Set(lexruntime.HeaderEncodedInputTranscript, lexruntime.EncodeHeaderValue("roses"))
			h.Set(lexruntime.HeaderEncodedMessage, lexruntime.EncodeHeaderValue("Thanks"))
			h.Set(lexruntime.HeaderMessageFormat, "PlainText")
			h.Set(lexruntime.HeaderContentType, lexruntime.MediaMPEG)
			h.Set("Content-Length", strconv.Itoa(len(audio)))
			w.Write(audio)
		})
		r.Post("/session", func(w http.ResponseWriter, r *http.Request) {
			_, _, body := s.last()
			h := w.Header()
			h.Set(lexruntime.HeaderSessionID, "s-"+chi.URLParam(r, "user"))
			if action := gjson.GetBytes(body, "dialogAction"); action.Exists() {
				h.Set(lexruntime.HeaderIntentName, action.Get("intentName").String())
				h.Set(lexruntime.HeaderDialogState, action.Get("type").String())
			}
			if attrs := gjson.GetBytes(body, "sessionAttributes"); attrs.Exists() {
				h.Set(lexruntime.HeaderSessionAttributes, lexruntime.EncodeHeaderValue(attrs.Raw))
			}
			h.Set(lexruntime.HeaderContentType, lexruntime.MediaTextPlain)
			h.Set("Content-Length", "0")
			w.WriteHeader(http.StatusOK)
		})
		r.Get("/session", func(w http.ResponseWriter, r *http.Request) {
			writeStubJSON(w, map[string]any{
				"sessionId":         "s-" + chi.URLParam(r, "user"),
				"sessionAttributes": map[string]string{"channel": "web"},
				"recentIntentSummaryView": []map[string]any{
					{"intentName": "OrderFlowers", "dialogActionType": "ElicitSlot", "checkpointLabel": "before-pickup"},
				},
				"dialogAction": map[string]any{
					"type":         "ElicitSlot",
					"intentName":   "OrderFlowers",
					"slotToElicit": "PickupDate",
					"slots":        map[string]string{"FlowerType": "roses"},
				},
			})
		})
		r.Delete("/session", func(w http.ResponseWriter, r *http.Request) {
			writeStubJSON(w, map[string]string{
				"botName":   chi.URLParam(r, "bot"),
				"botAlias":  chi.URLParam(r, "alias"),
				"userId":    chi.URLParam(r, "user"),
				"sessionId": "s-" + chi.URLParam(r, "user"),
			})
		})
	})
	return r
}

func writeStubJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func orEmptyObject(raw string) string {
	if raw == "" {
		return "{}"
	}
	return raw
}

// setupCLI starts a runtime stub and writes a config file pointing at it.
func setupCLI(t *testing.T) (*runtimeStub, string) {
	t.Helper()
	color.NoColor = true
	dir := isolateEnv(t)

	stub := &runtimeStub{}
	srv := httptest.NewServer(stub.router())
	t.Cleanup(srv.Close)

	retries := 0
	cfg := &Config{
		Version:    ConfigFormatVersion,
		Endpoint:   srv.URL,
		APIKey:     "test-key",
		Bot:        "OrderFlowers",
		Alias:      "PROD",
		User:       "user-42",
		MaxRetries: &retries,
	}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, cfg.WriteConfig(path))
	return stub, path
}

// resetFlags restores every flag to its default so commands can run again.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else if f.Value.Type() != "stringToString" {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	textSessionAttrs, textRequestAttrs = map[string]string{}, map[string]string{}
	contentSessionAttrs, contentRequestAttrs = map[string]string{}, map[string]string{}
	config = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTextCommand(t *testing.T) {
	stub, cfg := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "text", "I", "want", "flowers", "--session-attr", "channel=web")
	require.NoError(t, err)
	assert.Contains(t, out, "Dialog State: ElicitSlot")
	assert.Contains(t, out, "Session Attributes: channel=web")
	assert.Contains(t, out, "Message: You said I want flowers")

	path, header, body := stub.last()
	assert.Equal(t, "POST /bot/OrderFlowers/alias/PROD/user/user-42/text", path)
	assert.Equal(t, "Bearer test-key", header.Get("Authorization"))
	assert.Equal(t, "I want flowers", gjson.GetBytes(body, "inputText").String())
	assert.False(t, gjson.GetBytes(body, "requestAttributes").Exists())
}

func TestInsecureEndpoint(t *testing.T) {
	color.NoColor = true
	dir := isolateEnv(t)
	stub := &runtimeStub{}
	srv := httptest.NewTLSServer(stub.router())
	t.Cleanup(srv.Close)

	retries := 0
	cfg := &Config{
		Version:    ConfigFormatVersion,
		Endpoint:   srv.URL,
		Bot:        "OrderFlowers",
		Alias:      "PROD",
		User:       "user-42",
		MaxRetries: &retries,
	}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, cfg.WriteConfig(path))

	_, err := runCLI(t, "--config", path, "delete-session")
	require.Error(t, err, "self-signed certificate is rejected by default")

	cfg.Insecure = true
	require.NoError(t, cfg.WriteConfig(path))
	out, err := runCLI(t, "--config", path, "delete-session")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted session s-user-42 for user-42")
}

func TestTextCommandFlagsOverrideConfig(t *testing.T) {
	stub, cfg := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "-j", "-u", "user-7", "-a", "BETA", "text", "Cafe\u0301", "--clear-contexts")
	require.NoError(t, err)
	assert.Equal(t, "s-user-7", gjson.Get(out, "sessionId").String())

	path, _, body := stub.last()
	assert.Equal(t, "POST /bot/OrderFlowers/alias/BETA/user/user-7/text", path)
	assert.Equal(t, "Caf\u00e9", gjson.GetBytes(body, "inputText").String(), "input is NFC normalized")
	assert.Equal(t, "[]", gjson.GetBytes(body, "activeContexts").Raw)
}

func TestContentCommand(t *testing.T) {
	stub, cfg := setupCLI(t)
	dir := filepath.Dir(cfg)
	reply := filepath.Join(dir, "reply.mp3")

	out, err := runCLI(t, "--config", cfg, "content", "--text", "roses", "--accept", "audio/mpeg", "--output", reply)
	require.NoError(t, err)
	assert.Contains(t, out, "Input Transcript: roses")
	assert.Contains(t, out, "Dialog State: Fulfilled")
	assert.Contains(t, out, "Message: Thanks")
	assert.Contains(t, out, "(audio/mpeg)")

	audio, err := os.ReadFile(reply)
	require.NoError(t, err)
	assert.Equal(t, "ID3\x04\x00fake-mpeg-frames", string(audio))

	path, header, body := stub.last()
	assert.Equal(t, "POST /bot/OrderFlowers/alias/PROD/user/user-42/content", path)
	assert.Equal(t, lexruntime.MediaTextPlain, header.Get("Content-Type"))
	assert.Equal(t, "audio/mpeg", header.Get("Accept"))
	assert.Equal(t, "roses", string(body))
}

func TestContentCommandRejectsMediaTypes(t *testing.T) {
	_, cfg := setupCLI(t)

	_, err := runCLI(t, "--config", cfg, "content", "--input", "-", "--content-type", "audio/mpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be sent as input")

	_, err = runCLI(t, "--config", cfg, "content", "--text", "hi", "--accept", "video/mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be requested")

	_, err = runCLI(t, "--config", cfg, "content", "--input", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--content-type is required")
}

func TestSessionCommands(t *testing.T) {
	stub, cfg := setupCLI(t)
	saved := filepath.Join(filepath.Dir(cfg), "session.yaml")

	out, err := runCLI(t, "--config", cfg, "get-session", "--checkpoint", "before-pickup", "--save", saved)
	require.NoError(t, err)
	assert.Contains(t, out, "Dialog Action Type: ElicitSlot")
	assert.Contains(t, out, "Recent Intent: OrderFlowers (ElicitSlot) @before-pickup")
	path, _, _ := stub.last()
	assert.Equal(t, "GET /bot/OrderFlowers/alias/PROD/user/user-42/session?checkpointLabelFilter=before-pickup", path)

	out, err = runCLI(t, "--config", cfg, "put-session", "-f", saved, "--set", "sessionAttributes.channel=sms")
	require.NoError(t, err)
	assert.Contains(t, out, "Intent Name: OrderFlowers")
	assert.Contains(t, out, "Session Attributes: channel=sms")

	path, _, body := stub.last()
	assert.Equal(t, "POST /bot/OrderFlowers/alias/PROD/user/user-42/session", path)
	assert.Equal(t, "roses", gjson.GetBytes(body, "dialogAction.slots.FlowerType").String())
	assert.Equal(t, "PickupDate", gjson.GetBytes(body, "dialogAction.slotToElicit").String())
	assert.Equal(t, "before-pickup", gjson.GetBytes(body, "recentIntentSummaryView.0.checkpointLabel").String())

	out, err = runCLI(t, "--config", cfg, "delete-session")
	require.NoError(t, err)
	assert.Equal(t, "Deleted session s-user-42 for user-42\n", out)
}

func TestPutSessionMultipleDocuments(t *testing.T) {
	_, cfg := setupCLI(t)
	file := filepath.Join(filepath.Dir(cfg), "sessions.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`user: user-1
session:
  sessionAttributes: {tier: 1}
---
user: user-2
session:
  sessionAttributes: {tier: 2}
`), 0600))

	out, err := runCLI(t, "--config", cfg, "-j", "put-session", "-f", file)
	require.NoError(t, err)
	results := gjson.Parse(out).Array()
	require.Len(t, results, 2)
	assert.Equal(t, "s-user-1", results[0].Get("sessionId").String())
	assert.Equal(t, "s-user-2", results[1].Get("sessionId").String())
}

func TestGetSessionCachedNeedsStore(t *testing.T) {
	_, cfg := setupCLI(t)
	_, err := runCLI(t, "--config", cfg, "get-session", "--cached")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session store configured")
}

func TestConfigCommands(t *testing.T) {
	dir := isolateEnv(t)
	cfg := filepath.Join(dir, "lexctl", "config.toml")

	out, err := runCLI(t, "--config", cfg, "config", "--endpoint", "runtime.example.com", "--api-key", "secret-key-1234", "--default-bot", "OrderFlowers")
	require.NoError(t, err)
	assert.Contains(t, out, "Endpoint configured: https://runtime.example.com")

	c, err := ReadConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "OrderFlowers", c.Bot)
	assert.Equal(t, ConfigFormatVersion, c.Version)

	out, err = runCLI(t, "--config", cfg, "-j", "config", "show")
	require.NoError(t, err)
	assert.Equal(t, "***********1234", gjson.Get(out, "APIKey").String())
}

func TestMissingConfig(t *testing.T) {
	dir := isolateEnv(t)
	_, err := runCLI(t, "--config", filepath.Join(dir, "absent.yaml"), "delete-session")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestVersionCommand(t *testing.T) {
	isolateEnv(t)
	out, err := runCLI(t, "--config", "/nonexistent/config.yaml", "-j", "version")
	require.NoError(t, err)
	assert.Equal(t, getCLIVersion(), gjson.Get(out, "version").String())
	assert.Equal(t, "/nonexistent/config.yaml", gjson.Get(out, "config_file").String())
}
