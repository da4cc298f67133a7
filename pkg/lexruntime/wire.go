package lexruntime

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tansive/lexruntime/internal/common/apperrors"
	"github.com/tansive/lexruntime/pkg/types"
)

var (
	ErrMissingRequiredParam = apperrors.New("missing required parameter").SetStatusCode(http.StatusBadRequest)
	ErrInvalidBody          = apperrors.New("invalid response body").SetStatusCode(http.StatusBadGateway)
)

const mediaJSON = "application/json"

// WireRequest is the HTTP form of a runtime operation. At most one of Body
// and Stream is set.
type WireRequest struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Header    http.Header
	Body      []byte
	Stream    *PayloadStream
}

// WireResponse is a successful HTTP response handed to a result for
// decoding. The result takes ownership of Body.
type WireResponse struct {
	Header        http.Header
	ContentLength int64
	Body          io.ReadCloser
}

// Operation names.
const (
	OpPostText      = "PostText"
	OpPostContent   = "PostContent"
	OpPutSession    = "PutSession"
	OpGetSession    = "GetSession"
	OpDeleteSession = "DeleteSession"
)

func sessionPath(bot, alias, user types.NullableString, suffix string) (string, error) {
	params := []struct {
		name  string
		value types.NullableString
	}{
		{"botName", bot},
		{"botAlias", alias},
		{"userId", user},
	}
	segs := make([]string, 0, len(params))
	for _, p := range params {
		if p.value.IsNil() || p.value.Value == "" {
			return "", ErrMissingRequiredParam.Msg("missing required " + p.name + " parameter")
		}
		segs = append(segs, url.PathEscape(p.value.Value))
	}
	return "/bot/" + segs[0] + "/alias/" + segs[1] + "/user/" + segs[2] + "/" + suffix, nil
}

func setHeader(h http.Header, name string, v types.NullableString) {
	if v.Valid {
		h.Set(name, v.Value)
	}
}

// setJSONHeader sends JSON text base64 encoded.
func setJSONHeader(h http.Header, name string, v types.NullableString) {
	if v.Valid {
		h.Set(name, EncodeHeaderValue(v.Value))
	}
}

// headerString reads a header, keeping absent distinct from empty.
func headerString(h http.Header, name string) types.NullableString {
	vals := h.Values(name)
	if len(vals) == 0 {
		return types.NullString()
	}
	return types.NullableStringFrom(vals[0])
}

// headerJSONText reads a base64 encoded JSON header back into JSON text.
func headerJSONText(h http.Header, name string) (types.NullableString, error) {
	v := headerString(h, name)
	if v.IsNil() {
		return v, nil
	}
	text, err := DecodeHeaderValue(v.Value)
	if err != nil {
		return types.NullString(), ErrInvalidHeader.MsgErr("invalid "+name+" header", err)
	}
	return types.NullableStringFrom(text), nil
}

func headerValue[T ~string](h http.Header, name string) types.NullableValue[T] {
	v := headerString(h, name)
	if v.IsNil() {
		return types.NullValue[T]()
	}
	return types.NullableValueFrom(T(v.Value))
}

// audioBody wraps a response body as an owned stream, or closes it when the
// response carried no audio.
func audioBody(resp *WireResponse) *PayloadStream {
	if resp.Body == nil {
		return nil
	}
	if resp.ContentLength == 0 {
		resp.Body.Close()
		return nil
	}
	return NewPayloadStream(resp.Body)
}

func readJSONBody(resp *WireResponse, v any) error {
	if resp.Body == nil {
		return nil
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrInvalidBody.MsgErr("unable to read response", err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := wireJSON.Unmarshal(b, v); err != nil {
		return ErrInvalidBody.MsgErr("unable to decode response", err)
	}
	return nil
}

func (r *PostTextRequest) WireRequest() (*WireRequest, error) {
	path, err := sessionPath(r.BotName, r.BotAlias, r.UserID, "text")
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(r)
	if err != nil {
		return nil, ErrInvalidHeader.MsgErr("unable to encode request", err)
	}
	h := http.Header{}
	h.Set(HeaderContentType, mediaJSON)
	return &WireRequest{Operation: OpPostText, Method: http.MethodPost, Path: path, Header: h, Body: body}, nil
}

func (r *PostTextResult) ReadWire(resp *WireResponse) error {
	return readJSONBody(resp, r)
}

// WireRequest moves the input stream into the returned request. The stream is
// not taken; the transport calls Take when it sends.
func (r *PostContentRequest) WireRequest() (*WireRequest, error) {
	path, err := sessionPath(r.BotName, r.BotAlias, r.UserID, "content")
	if err != nil {
		return nil, err
	}
	if r.ContentType.IsNil() || r.ContentType.Value == "" {
		return nil, ErrMissingRequiredParam.Msg("missing required contentType parameter")
	}
	if r.InputStream == nil {
		return nil, ErrMissingRequiredParam.Msg("missing required inputStream parameter")
	}
	h := http.Header{}
	setHeader(h, HeaderContentType, r.ContentType)
	setHeader(h, HeaderAccept, r.Accept)
	setJSONHeader(h, HeaderSessionAttributes, r.SessionAttributes)
	setJSONHeader(h, HeaderRequestAttributes, r.RequestAttributes)
	setJSONHeader(h, HeaderActiveContexts, r.ActiveContexts)
	return &WireRequest{Operation: OpPostContent, Method: http.MethodPost, Path: path, Header: h, Stream: r.InputStream}, nil
}

func (r *PostContentResult) ReadWire(resp *WireResponse) error {
	h := resp.Header
	var err error
	jsonText := func(name string) types.NullableString {
		v, e := headerJSONText(h, name)
		if e != nil && err == nil {
			err = e
		}
		return v
	}
	r.ContentType = headerString(h, HeaderContentType)
	r.IntentName = headerString(h, HeaderIntentName)
	r.NluIntentConfidence = jsonText(HeaderNluIntentConfidence)
	r.AlternativeIntents = jsonText(HeaderAlternativeIntents)
	r.Slots = jsonText(HeaderSlots)
	r.SessionAttributes = jsonText(HeaderSessionAttributes)
	r.SentimentResponse = jsonText(HeaderSentiment)
	r.Message = headerString(h, HeaderMessage)
	r.EncodedMessage = headerString(h, HeaderEncodedMessage)
	r.MessageFormat = headerValue[MessageFormat](h, HeaderMessageFormat)
	r.DialogState = headerValue[DialogState](h, HeaderDialogState)
	r.SlotToElicit = headerString(h, HeaderSlotToElicit)
	r.InputTranscript = headerString(h, HeaderInputTranscript)
	r.EncodedInputTranscript = headerString(h, HeaderEncodedInputTranscript)
	r.BotVersion = headerString(h, HeaderBotVersion)
	r.SessionID = headerString(h, HeaderSessionID)
	r.ActiveContexts = jsonText(HeaderActiveContexts)
	if err != nil {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return err
	}
	r.AudioStream = audioBody(resp)
	return nil
}

func (r *PutSessionRequest) WireRequest() (*WireRequest, error) {
	path, err := sessionPath(r.BotName, r.BotAlias, r.UserID, "session")
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(r)
	if err != nil {
		return nil, ErrInvalidHeader.MsgErr("unable to encode request", err)
	}
	h := http.Header{}
	h.Set(HeaderContentType, mediaJSON)
	setHeader(h, HeaderAccept, r.Accept)
	return &WireRequest{Operation: OpPutSession, Method: http.MethodPost, Path: path, Header: h, Body: body}, nil
}

func (r *PutSessionResult) ReadWire(resp *WireResponse) error {
	h := resp.Header
	var err error
	jsonText := func(name string) types.NullableString {
		v, e := headerJSONText(h, name)
		if e != nil && err == nil {
			err = e
		}
		return v
	}
	r.ContentType = headerString(h, HeaderContentType)
	r.IntentName = headerString(h, HeaderIntentName)
	r.Slots = jsonText(HeaderSlots)
	r.SessionAttributes = jsonText(HeaderSessionAttributes)
	r.Message = headerString(h, HeaderMessage)
	r.EncodedMessage = headerString(h, HeaderEncodedMessage)
	r.MessageFormat = headerValue[MessageFormat](h, HeaderMessageFormat)
	r.DialogState = headerValue[DialogState](h, HeaderDialogState)
	r.SlotToElicit = headerString(h, HeaderSlotToElicit)
	r.SessionID = headerString(h, HeaderSessionID)
	r.ActiveContexts = jsonText(HeaderActiveContexts)
	if err != nil {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return err
	}
	r.AudioStream = audioBody(resp)
	return nil
}

func (r *GetSessionRequest) WireRequest() (*WireRequest, error) {
	path, err := sessionPath(r.BotName, r.BotAlias, r.UserID, "session")
	if err != nil {
		return nil, err
	}
	var q url.Values
	if r.CheckpointLabelFilter.Valid {
		q = url.Values{"checkpointLabelFilter": {r.CheckpointLabelFilter.Value}}
	}
	return &WireRequest{Operation: OpGetSession, Method: http.MethodGet, Path: path, Query: q, Header: http.Header{}}, nil
}

func (r *GetSessionResult) ReadWire(resp *WireResponse) error {
	return readJSONBody(resp, r)
}

func (r *DeleteSessionRequest) WireRequest() (*WireRequest, error) {
	path, err := sessionPath(r.BotName, r.BotAlias, r.UserID, "session")
	if err != nil {
		return nil, err
	}
	return &WireRequest{Operation: OpDeleteSession, Method: http.MethodDelete, Path: path, Header: http.Header{}}, nil
}

func (r *DeleteSessionResult) ReadWire(resp *WireResponse) error {
	return readJSONBody(resp, r)
}

// URL joins the request path and query onto endpoint.
func (w *WireRequest) URL(endpoint string) string {
	u := strings.TrimRight(endpoint, "/") + w.Path
	if len(w.Query) > 0 {
		u += "?" + w.Query.Encode()
	}
	return u
}
