package lexruntime

import (
	"encoding/json"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tansive/lexruntime/internal/common/apperrors"
	"github.com/tidwall/gjson"
)

var ErrInvalidComposite = apperrors.New("invalid composite message").SetStatusCode(http.StatusBadGateway)

const compositeSchema = `{
  "type": "object",
  "required": ["messages"],
  "properties": {
    "messages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "value"],
        "properties": {
          "type":  {"enum": ["PlainText", "SSML", "CustomPayload"]},
          "group": {"type": "integer", "minimum": 1, "maximum": 5},
          "value": {"type": "string"}
        }
      }
    }
  }
}`

var compiledCompositeSchema = jsonschema.MustCompileString("composite.json", compositeSchema)

// MessagePart is one message of a Composite group.
type MessagePart struct {
	Format MessageFormat
	Group  int
	Value  string
}

// ParseCompositeMessage splits the JSON text of a Composite message into its
// parts, in document order.
func ParseCompositeMessage(text string) ([]MessagePart, error) {
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, ErrInvalidComposite.MsgErr("message is not JSON", err)
	}
	if err := compiledCompositeSchema.Validate(doc); err != nil {
		return nil, ErrInvalidComposite.MsgErr("message does not match the composite layout", err)
	}
	var parts []MessagePart
	gjson.Get(text, "messages").ForEach(func(_, m gjson.Result) bool {
		parts = append(parts, MessagePart{
			Format: MessageFormat(m.Get("type").String()),
			Group:  int(m.Get("group").Int()),
			Value:  m.Get("value").String(),
		})
		return true
	})
	return parts, nil
}

// SplitMessage returns the parts of a message in the given format. Messages
// that are not Composite yield a single part.
func SplitMessage(format MessageFormat, message string) ([]MessagePart, error) {
	if format == MessageFormatComposite {
		return ParseCompositeMessage(message)
	}
	return []MessagePart{{Format: format, Value: message}}, nil
}

// MessageParts splits the result's message. It returns nil when no message
// was returned.
func (r *PostTextResult) MessageParts() ([]MessagePart, error) {
	if r.Message.IsNil() {
		return nil, nil
	}
	return SplitMessage(r.MessageFormat.Value, r.Message.Value)
}

func (r *PostContentResult) MessageParts() ([]MessagePart, error) {
	if r.Message.IsNil() && r.EncodedMessage.IsNil() {
		return nil, nil
	}
	msg, err := r.DecodedMessage()
	if err != nil {
		return nil, err
	}
	return SplitMessage(r.MessageFormat.Value, msg)
}

func (r *PutSessionResult) MessageParts() ([]MessagePart, error) {
	if r.Message.IsNil() && r.EncodedMessage.IsNil() {
		return nil, nil
	}
	msg, err := r.DecodedMessage()
	if err != nil {
		return nil, err
	}
	return SplitMessage(r.MessageFormat.Value, msg)
}
