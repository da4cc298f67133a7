package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/lexruntime/internal/common/apperrors"
	"github.com/tansive/lexruntime/internal/common/httpclient"
	"github.com/tansive/lexruntime/internal/common/logtrace"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tansive/lexruntime/pkg/sessionstore"
	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, fake *fakeRuntime, opts ...ClientOption) *Client {
	t.Helper()
	transport := httpclient.NewTestClient(&Config{Endpoint: "http://runtime.test", APIKey: "test-key"}, fake.router())
	store, err := sessionstore.NewStore(sessionstore.StoreTypeMemory)
	require.NoError(t, err)
	opts = append([]ClientOption{
		WithTransport(transport),
		WithRetryDelay(time.Millisecond),
		WithLogger(zerolog.Nop()),
		WithSessionStore(store),
	}, opts...)
	client, err := NewClient(nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPostText(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake)
	ctx := logtrace.WithRequestID(context.Background(), "req-1")

	req := lexruntime.NewPostTextRequest("OrderFlowers", "PROD", "user-42", "I would like to order flowers").
		WithSessionAttributes(map[string]string{"channel": "web"})
	res, err := client.PostText(ctx, req)
	require.NoError(t, err)

	last, body := fake.lastRequest()
	assert.Equal(t, "Bearer test-key", last.Header.Get("Authorization"))
	assert.Equal(t, "req-1", last.Header.Get(logtrace.RequestIDHeader))
	assert.Equal(t, "web", gjson.GetBytes(body, "sessionAttributes.channel").String())

	assert.Equal(t, lexruntime.DialogStateElicitSlot, res.DialogState.Value)
	assert.Equal(t, "FlowerType", res.SlotToElicit.Value)
	assert.Equal(t, "", res.Slots.Value["FlowerType"])
	assert.True(t, res.Slots.Value != nil)
	assert.Equal(t, "s-user-42", res.SessionID.Value)

	snap, err := client.Session(ctx, "OrderFlowers", "PROD", "user-42")
	require.NoError(t, err)
	assert.Equal(t, "FlowerType", snap.SlotToElicit.Value)
	assert.Equal(t, "web", snap.SessionAttributes.Value["channel"])

	res, err = client.PostText(ctx, lexruntime.NewPostTextRequest("OrderFlowers", "PROD", "user-42", "roses"))
	require.NoError(t, err)
	assert.Equal(t, lexruntime.DialogStateReadyForFulfillment, res.DialogState.Value)

	snap, err = client.Session(ctx, "OrderFlowers", "PROD", "user-42")
	require.NoError(t, err)
	assert.Equal(t, "roses", snap.Slots.Value["FlowerType"])
	assert.Equal(t, lexruntime.DialogStateReadyForFulfillment, snap.DialogState.Value)
	assert.False(t, snap.SlotToElicit.Valid, "slot to elicit does not outlive its turn")
}

func TestRequestIDGenerated(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake)
	_, err := client.GetSession(context.Background(), lexruntime.NewGetSessionRequest("OrderFlowers", "PROD", "user-42"))
	require.NoError(t, err)
	last, _ := fake.lastRequest()
	assert.Len(t, last.Header.Get(logtrace.RequestIDHeader), 36)
}

func TestPostContentStreams(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake)

	input := lexruntime.NewPayloadStream(strings.NewReader("raw-pcm-samples"))
	req := (&lexruntime.PostContentRequest{}).
		WithBotName("OrderFlowers").
		WithBotAlias("PROD").
		WithUserID("user-42").
		WithContentType(lexruntime.PCMContentType(16000)).
		WithAccept(lexruntime.MediaMPEG).
		WithInputStream(input)
	require.NoError(t, req.WithSessionAttributesMap(map[string]string{"channel": "phone"}))

	res, err := client.PostContent(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, input.Taken())

	last, body := fake.lastRequest()
	assert.Equal(t, "raw-pcm-samples", string(body))
	assert.Equal(t, lexruntime.PCMContentType(16000), last.Header.Get(lexruntime.HeaderContentType))

	transcript, err := res.DecodedInputTranscript()
	require.NoError(t, err)
	assert.Equal(t, "i would like to order flowers", transcript)
	attrs, err := res.DecodedSessionAttributes()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"channel": "phone"}, attrs)

	require.NotNil(t, res.AudioStream)
	mime, err := res.AudioStream.DetectMIME()
	require.NoError(t, err)
	assert.Equal(t, lexruntime.MediaMPEG, mime)
	audio, err := res.AudioStream.Take()
	require.NoError(t, err)
	defer audio.Close()
	b, err := io.ReadAll(audio)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("ID3")))

	snap, err := client.Session(context.Background(), "OrderFlowers", "PROD", "user-42")
	require.NoError(t, err)
	assert.Equal(t, "phone", snap.SessionAttributes.Value["channel"])

	_, err = client.PostContent(context.Background(), req)
	assert.ErrorIs(t, err, lexruntime.ErrStreamTaken)
}

func TestRetries(t *testing.T) {
	tests := []struct {
		name       string
		failures   int
		status     int
		maxRetries int
		stream     bool
		wantCalls  int32
		wantErr    bool
	}{
		{name: "throttled then ok", failures: 2, status: http.StatusTooManyRequests, maxRetries: 3, wantCalls: 3},
		{name: "server error exhausted", failures: 10, status: http.StatusInternalServerError, maxRetries: 2, wantCalls: 3, wantErr: true},
		{name: "client error not retried", failures: 1, status: http.StatusBadRequest, maxRetries: 3, wantCalls: 1, wantErr: true},
		{name: "stream not retried", failures: 1, status: http.StatusServiceUnavailable, maxRetries: 3, stream: true, wantCalls: 1, wantErr: true},
		{name: "no retries", failures: 1, status: http.StatusBadGateway, maxRetries: 0, wantCalls: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRuntime{}
			fake.failFirst(tt.failures, tt.status)
			client := newTestClient(t, fake, WithMaxRetries(tt.maxRetries))

			var err error
			if tt.stream {
				req := (&lexruntime.PostContentRequest{}).
					WithBotName("OrderFlowers").
					WithBotAlias("PROD").
					WithUserID("user-42").
					WithContentType(lexruntime.MediaTextPlain).
					WithInputStream(lexruntime.NewPayloadStream(strings.NewReader("hello")))
				_, err = client.PostContent(context.Background(), req)
			} else {
				_, err = client.PostText(context.Background(), lexruntime.NewPostTextRequest("OrderFlowers", "PROD", "user-42", "hi"))
			}
			assert.Equal(t, tt.wantCalls, fake.calls.Load())
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var herr *httpclient.HTTPError
			require.True(t, errors.As(err, &herr), "got %v", err)
			assert.Equal(t, tt.status, herr.StatusCode)
			assert.Equal(t, "ThrottlingException", herr.Type)
			assert.Equal(t, "fake-request", herr.RequestID)
		})
	}
}

func TestRequestValidation(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake, WithRequestValidation(true))

	_, err := client.PutSession(context.Background(),
		lexruntime.NewPutSessionRequest("OrderFlowers", "PROD", "user/42"))
	var verrs apperrors.ValidationErrors
	require.True(t, errors.As(err, &verrs), "got %v", err)
	assert.Equal(t, []string{"userId"}, verrs.Fields())
	assert.Zero(t, fake.calls.Load())

	unchecked := newTestClient(t, fake)
	_, err = unchecked.PostText(context.Background(), lexruntime.NewPostTextRequest("OrderFlowers", "PROD", "u", ""))
	var herr *httpclient.HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, "BadRequestException", herr.Type)
}

func TestMissingPathParameter(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake)
	_, err := client.DeleteSession(context.Background(), lexruntime.NewDeleteSessionRequest("OrderFlowers", "", "user-42"))
	assert.ErrorIs(t, err, lexruntime.ErrMissingRequiredParam)
	assert.Zero(t, fake.calls.Load())
}

func TestGetSessionToPutSession(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake)
	ctx := context.Background()

	got, err := client.GetSession(ctx, lexruntime.NewGetSessionRequest("OrderFlowers", "PROD", "user-42").WithCheckpointLabelFilter("pickup"))
	require.NoError(t, err)
	last, _ := fake.lastRequest()
	assert.Equal(t, "pickup", last.URL.Query().Get("checkpointLabelFilter"))
	require.Equal(t, 1, got.RecentIntentSummaryView.Len())
	assert.True(t, got.ActiveContexts.IsEmpty())

	put := got.ToPutSessionRequest("OrderFlowers", "PROD", "user-42").WithAccept(lexruntime.MediaTextPlain)
	put.DialogAction.WithMessage("Which flowers?").WithMessageFormat(lexruntime.MessageFormatPlainText)
	res, err := client.PutSession(ctx, put)
	require.NoError(t, err)

	_, body := fake.lastRequest()
	assert.True(t, gjson.GetBytes(body, "activeContexts").IsArray())
	assert.Equal(t, "pickup", gjson.GetBytes(body, "recentIntentSummaryView.0.checkpointLabel").String())

	msg, err := res.DecodedMessage()
	require.NoError(t, err)
	assert.Equal(t, "Which flowers?", msg)
	assert.Equal(t, lexruntime.DialogStateElicitSlot, res.DialogState.Value)
	assert.Nil(t, res.AudioStream)

	snap, err := client.Session(ctx, "OrderFlowers", "PROD", "user-42")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.RecentIntentSummaryView.Len())
	assert.Equal(t, "web", snap.SessionAttributes.Value["channel"])
}

func TestDeleteSessionDropsSnapshot(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake)
	ctx := context.Background()

	_, err := client.GetSession(ctx, lexruntime.NewGetSessionRequest("OrderFlowers", "PROD", "user-42"))
	require.NoError(t, err)
	_, err = client.Session(ctx, "OrderFlowers", "PROD", "user-42")
	require.NoError(t, err)

	res, err := client.DeleteSession(ctx, lexruntime.NewDeleteSessionRequest("OrderFlowers", "PROD", "user-42"))
	require.NoError(t, err)
	assert.Equal(t, "s-user-42", res.SessionID.Value)
	assert.Equal(t, "user-42", res.UserID.Value)

	_, err = client.Session(ctx, "OrderFlowers", "PROD", "user-42")
	assert.ErrorIs(t, err, sessionstore.ErrNotFound)
}

func TestContextCanceled(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetSession(ctx, lexruntime.NewGetSessionRequest("OrderFlowers", "PROD", "user-42"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fake.calls.Load())
}

func TestClientOverNetwork(t *testing.T) {
	fake := &fakeRuntime{}
	srv := httptest.NewServer(fake.router())
	defer srv.Close()

	var signed bool
	client, err := NewClient(&Config{Endpoint: srv.URL, Token: "opaque-token"},
		WithTimeout(5*time.Second),
		WithLogger(zerolog.Nop()),
		WithSigner(httpclient.SignerFunc(func(req *http.Request, payload []byte) error {
			signed = true
			req.Header.Set("X-Test-Signature", "ok")
			return nil
		})))
	require.NoError(t, err)

	req := lexruntime.NewPutSessionRequest("OrderFlowers", "PROD", "user 42").
		WithDialogAction(lexruntime.NewDialogAction(lexruntime.DialogActionTypeElicitSlot).
			WithIntentName("OrderFlowers").
			WithSlotToElicit("FlowerType")).
		WithActiveContexts()
	res, err := client.PutSession(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, signed)

	last, _ := fake.lastRequest()
	assert.Equal(t, "Bearer opaque-token", last.Header.Get("Authorization"))
	assert.Equal(t, "ok", last.Header.Get("X-Test-Signature"))
	assert.Equal(t, "s-user 42", res.SessionID.Value)
	contexts, err := res.DecodedActiveContexts()
	require.NoError(t, err)
	assert.NotNil(t, contexts)
	assert.Empty(t, contexts)
	assert.Nil(t, res.AudioStream)

	_, err = client.Session(context.Background(), "OrderFlowers", "PROD", "user 42")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewClientErrors(t *testing.T) {
	_, err := NewClient(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewClient(&Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewClient(&Config{Endpoint: "http://runtime.test"}, WithMaxRetries(-1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClientInsecureSkipVerify(t *testing.T) {
	fake := &fakeRuntime{}
	srv := httptest.NewTLSServer(fake.router())
	defer srv.Close()

	req := lexruntime.NewDeleteSessionRequest("OrderFlowers", "PROD", "user-42")

	strict, err := NewClient(&Config{Endpoint: srv.URL}, WithMaxRetries(0), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	_, err = strict.DeleteSession(context.Background(), req)
	require.Error(t, err, "self-signed certificate must be rejected")
	assert.Zero(t, fake.calls.Load())

	insecure, err := NewClient(&Config{Endpoint: srv.URL},
		WithMaxRetries(0),
		WithLogger(zerolog.Nop()),
		WithInsecureSkipVerify(true))
	require.NoError(t, err)
	res, err := insecure.DeleteSession(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "user-42", res.UserID.Value)
}

func TestGetSessionWithoutBody(t *testing.T) {
	fake := &fakeRuntime{}
	client := newTestClient(t, fake)

	_, err := client.GetSession(context.Background(), lexruntime.NewGetSessionRequest("OrderFlowers", "PROD", "user-42"))
	require.NoError(t, err)
	_, err = client.DeleteSession(context.Background(), lexruntime.NewDeleteSessionRequest("OrderFlowers", "PROD", "user-42"))
	require.NoError(t, err)

	last, body := fake.lastRequest()
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Empty(t, body)
}
