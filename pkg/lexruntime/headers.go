package lexruntime

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/anand-gl/jsoncanonicalizer"
	jsoniter "github.com/json-iterator/go"
	"github.com/tansive/lexruntime/internal/common/apperrors"
)

// HTTP headers used by the header-carried operations. Map and list valued
// headers carry base64 encoded JSON.
const (
	HeaderContentType            = "Content-Type"
	HeaderAccept                 = "Accept"
	HeaderSessionAttributes      = "x-amz-lex-session-attributes"
	HeaderRequestAttributes      = "x-amz-lex-request-attributes"
	HeaderActiveContexts         = "x-amz-lex-active-contexts"
	HeaderIntentName             = "x-amz-lex-intent-name"
	HeaderSlots                  = "x-amz-lex-slots"
	HeaderSlotToElicit           = "x-amz-lex-slot-to-elicit"
	HeaderDialogState            = "x-amz-lex-dialog-state"
	HeaderMessage                = "x-amz-lex-message"
	HeaderEncodedMessage         = "x-amz-lex-encoded-message"
	HeaderMessageFormat          = "x-amz-lex-message-format"
	HeaderSessionID              = "x-amz-lex-session-id"
	HeaderBotVersion             = "x-amz-lex-bot-version"
	HeaderInputTranscript        = "x-amz-lex-input-transcript"
	HeaderEncodedInputTranscript = "x-amz-lex-encoded-input-transcript"
	HeaderAlternativeIntents     = "x-amz-lex-alternative-intents"
	HeaderNluIntentConfidence    = "x-amz-lex-nlu-intent-confidence"
	HeaderSentiment              = "x-amz-lex-sentiment"
)

var (
	ErrInvalidHeader = apperrors.New("invalid header value").SetStatusCode(http.StatusBadRequest)
)

var wireJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeJSONValue renders v as canonical JSON text, the form held by the
// opaque string fields of header-carried entities. Keys are sorted so equal
// values always produce equal strings.
func EncodeJSONValue(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", ErrInvalidHeader.MsgErr("unable to encode value", err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", ErrInvalidHeader.MsgErr("unable to canonicalize value", err)
	}
	return string(canonical), nil
}

// EncodeHeaderValue base64-encodes JSON text for transmission in a header.
func EncodeHeaderValue(jsonText string) string {
	return base64.StdEncoding.EncodeToString([]byte(jsonText))
}

// DecodeHeaderValue reverses EncodeHeaderValue.
func DecodeHeaderValue(value string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", ErrInvalidHeader.MsgErr("header value is not base64", err)
	}
	return string(b), nil
}

// EncodeStringMap renders a string map as canonical JSON text.
func EncodeStringMap(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	return EncodeJSONValue(m)
}

// DecodeStringMap parses JSON text holding a string-to-string object.
func DecodeStringMap(jsonText string) (map[string]string, error) {
	m := map[string]string{}
	if err := wireJSON.UnmarshalFromString(jsonText, &m); err != nil {
		return nil, ErrInvalidHeader.MsgErr("expected a JSON object of strings", err)
	}
	return m, nil
}

// EncodeActiveContexts renders contexts as canonical JSON text. A nil slice
// encodes as an empty array, which clears contexts on the server.
func EncodeActiveContexts(contexts []ActiveContext) (string, error) {
	if contexts == nil {
		contexts = []ActiveContext{}
	}
	return EncodeJSONValue(contexts)
}

// DecodeActiveContexts parses JSON text holding an array of active contexts.
func DecodeActiveContexts(jsonText string) ([]ActiveContext, error) {
	contexts := []ActiveContext{}
	if err := wireJSON.UnmarshalFromString(jsonText, &contexts); err != nil {
		return nil, ErrInvalidHeader.MsgErr("expected a JSON array of active contexts", err)
	}
	return contexts, nil
}

// DecodePredictedIntents parses JSON text holding an array of predicted intents.
func DecodePredictedIntents(jsonText string) ([]PredictedIntent, error) {
	intents := []PredictedIntent{}
	if err := wireJSON.UnmarshalFromString(jsonText, &intents); err != nil {
		return nil, ErrInvalidHeader.MsgErr("expected a JSON array of predicted intents", err)
	}
	return intents, nil
}

// DecodeIntentConfidence parses JSON text holding an intent confidence object.
func DecodeIntentConfidence(jsonText string) (*IntentConfidence, error) {
	var c IntentConfidence
	if err := wireJSON.UnmarshalFromString(jsonText, &c); err != nil {
		return nil, ErrInvalidHeader.MsgErr("expected a JSON intent confidence", err)
	}
	return &c, nil
}

// DecodeSentimentResponse parses JSON text holding a sentiment response.
func DecodeSentimentResponse(jsonText string) (*SentimentResponse, error) {
	var s SentimentResponse
	if err := wireJSON.UnmarshalFromString(jsonText, &s); err != nil {
		return nil, ErrInvalidHeader.MsgErr("expected a JSON sentiment response", err)
	}
	return &s, nil
}

// decodeText base64-decodes a plain text header such as an encoded message.
func decodeText(value string) (string, error) {
	return DecodeHeaderValue(value)
}
