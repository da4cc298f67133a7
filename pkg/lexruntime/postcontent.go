package lexruntime

import (
	"github.com/tansive/lexruntime/pkg/types"
)

// PostContentRequest sends one turn of user input, speech or text, as a
// stream. Attributes and active contexts travel in headers, so they are held
// as JSON text rather than structured values; use the *Map and
// *List helpers to build them.
type PostContentRequest struct {
	BotName           types.NullableString `json:"-" validate:"required"`
	BotAlias          types.NullableString `json:"-" validate:"required"`
	UserID            types.NullableString `json:"-" validate:"required,min=2,max=100,userid"`
	SessionAttributes types.NullableString `json:"sessionAttributes,omitzero" validate:"omitempty,json,reservedattrs"`
	RequestAttributes types.NullableString `json:"requestAttributes,omitzero" validate:"omitempty,json,reservedattrs"`
	ContentType       types.NullableString `json:"contentType,omitzero" validate:"required,inputmedia"`
	Accept            types.NullableString `json:"accept,omitzero" validate:"omitempty,outputmedia"`
	ActiveContexts    types.NullableString `json:"activeContexts,omitzero" validate:"omitempty,json"`
	InputStream       *PayloadStream       `json:"-" validate:"required"`
}

func (r *PostContentRequest) WithBotName(name string) *PostContentRequest {
	r.BotName.Set(name)
	return r
}

func (r *PostContentRequest) WithBotAlias(alias string) *PostContentRequest {
	r.BotAlias.Set(alias)
	return r
}

func (r *PostContentRequest) WithUserID(id string) *PostContentRequest {
	r.UserID.Set(id)
	return r
}

// WithSessionAttributes sets the session attributes as JSON text.
func (r *PostContentRequest) WithSessionAttributes(jsonText string) *PostContentRequest {
	r.SessionAttributes.Set(jsonText)
	return r
}

// WithSessionAttributesMap encodes attrs as canonical JSON text.
func (r *PostContentRequest) WithSessionAttributesMap(attrs map[string]string) error {
	s, err := EncodeStringMap(attrs)
	if err != nil {
		return err
	}
	r.SessionAttributes.Set(s)
	return nil
}

func (r *PostContentRequest) WithRequestAttributes(jsonText string) *PostContentRequest {
	r.RequestAttributes.Set(jsonText)
	return r
}

func (r *PostContentRequest) WithRequestAttributesMap(attrs map[string]string) error {
	s, err := EncodeStringMap(attrs)
	if err != nil {
		return err
	}
	r.RequestAttributes.Set(s)
	return nil
}

func (r *PostContentRequest) WithContentType(contentType string) *PostContentRequest {
	r.ContentType.Set(contentType)
	return r
}

func (r *PostContentRequest) WithAccept(accept string) *PostContentRequest {
	r.Accept.Set(accept)
	return r
}

func (r *PostContentRequest) WithActiveContexts(jsonText string) *PostContentRequest {
	r.ActiveContexts.Set(jsonText)
	return r
}

// WithActiveContextsList encodes contexts as JSON text. An empty list clears
// the session's contexts on the server.
func (r *PostContentRequest) WithActiveContextsList(contexts []ActiveContext) error {
	s, err := EncodeActiveContexts(contexts)
	if err != nil {
		return err
	}
	r.ActiveContexts.Set(s)
	return nil
}

// WithInputStream hands ownership of input to the request.
func (r *PostContentRequest) WithInputStream(input *PayloadStream) *PostContentRequest {
	r.InputStream = input
	return r
}

func (r *PostContentRequest) Equal(other *PostContentRequest) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.BotName.Equals(other.BotName) &&
		r.BotAlias.Equals(other.BotAlias) &&
		r.UserID.Equals(other.UserID) &&
		r.SessionAttributes.Equals(other.SessionAttributes) &&
		r.RequestAttributes.Equals(other.RequestAttributes) &&
		r.ContentType.Equals(other.ContentType) &&
		r.Accept.Equals(other.Accept) &&
		r.ActiveContexts.Equals(other.ActiveContexts) &&
		streamsEqual(r.InputStream, other.InputStream)
}

func (r *PostContentRequest) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(
		r.BotName.Hash(),
		r.BotAlias.Hash(),
		r.UserID.Hash(),
		r.SessionAttributes.Hash(),
		r.RequestAttributes.Hash(),
		r.ContentType.Hash(),
		r.Accept.Hash(),
		r.ActiveContexts.Hash(),
		streamHash(r.InputStream),
	)
}

func (r *PostContentRequest) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("BotName", r.BotName)
	w.str("BotAlias", r.BotAlias)
	w.str("UserId", r.UserID)
	w.str("SessionAttributes", r.SessionAttributes)
	w.str("RequestAttributes", r.RequestAttributes)
	w.str("ContentType", r.ContentType)
	w.str("Accept", r.Accept)
	w.str("ActiveContexts", r.ActiveContexts)
	w.stringer("InputStream", r.InputStream, r.InputStream != nil)
	return w.String()
}

// PostContentResult is the service's answer to a PostContent turn. Every
// field except the audio comes from a response header; map and list values
// are kept as the JSON text the header carried.
type PostContentResult struct {
	ContentType            types.NullableString               `json:"contentType,omitzero"`
	IntentName             types.NullableString               `json:"intentName,omitzero"`
	NluIntentConfidence    types.NullableString               `json:"nluIntentConfidence,omitzero"`
	AlternativeIntents     types.NullableString               `json:"alternativeIntents,omitzero"`
	Slots                  types.NullableString               `json:"slots,omitzero"`
	SessionAttributes      types.NullableString               `json:"sessionAttributes,omitzero"`
	SentimentResponse      types.NullableString               `json:"sentimentResponse,omitzero"`
	Message                types.NullableString               `json:"message,omitzero"`
	EncodedMessage         types.NullableString               `json:"encodedMessage,omitzero"`
	MessageFormat          types.NullableValue[MessageFormat] `json:"messageFormat,omitzero"`
	DialogState            types.NullableValue[DialogState]   `json:"dialogState,omitzero"`
	SlotToElicit           types.NullableString               `json:"slotToElicit,omitzero"`
	InputTranscript        types.NullableString               `json:"inputTranscript,omitzero"`
	EncodedInputTranscript types.NullableString               `json:"encodedInputTranscript,omitzero"`
	AudioStream            *PayloadStream                     `json:"-"`
	BotVersion             types.NullableString               `json:"botVersion,omitzero"`
	SessionID              types.NullableString               `json:"sessionId,omitzero"`
	ActiveContexts         types.NullableString               `json:"activeContexts,omitzero"`
}

func (r *PostContentResult) WithIntentName(name string) *PostContentResult {
	r.IntentName.Set(name)
	return r
}

func (r *PostContentResult) WithSlots(jsonText string) *PostContentResult {
	r.Slots.Set(jsonText)
	return r
}

func (r *PostContentResult) WithSessionAttributes(jsonText string) *PostContentResult {
	r.SessionAttributes.Set(jsonText)
	return r
}

func (r *PostContentResult) WithMessage(message string) *PostContentResult {
	r.Message.Set(message)
	return r
}

func (r *PostContentResult) WithMessageFormat(format MessageFormat) *PostContentResult {
	r.MessageFormat.Set(format)
	return r
}

func (r *PostContentResult) WithMessageFormatString(format string) *PostContentResult {
	return r.WithMessageFormat(MessageFormat(format))
}

func (r *PostContentResult) WithDialogState(state DialogState) *PostContentResult {
	r.DialogState.Set(state)
	return r
}

func (r *PostContentResult) WithDialogStateString(state string) *PostContentResult {
	return r.WithDialogState(DialogState(state))
}

func (r *PostContentResult) WithSlotToElicit(slot string) *PostContentResult {
	r.SlotToElicit.Set(slot)
	return r
}

func (r *PostContentResult) WithSessionID(id string) *PostContentResult {
	r.SessionID.Set(id)
	return r
}

func (r *PostContentResult) WithActiveContexts(jsonText string) *PostContentResult {
	r.ActiveContexts.Set(jsonText)
	return r
}

func (r *PostContentResult) WithAudioStream(audio *PayloadStream) *PostContentResult {
	r.AudioStream = audio
	return r
}

// DecodedSlots parses the slots JSON text. It returns nil when absent.
func (r *PostContentResult) DecodedSlots() (map[string]string, error) {
	return decodeOptionalMap(r.Slots)
}

func (r *PostContentResult) DecodedSessionAttributes() (map[string]string, error) {
	return decodeOptionalMap(r.SessionAttributes)
}

func (r *PostContentResult) DecodedActiveContexts() ([]ActiveContext, error) {
	if r.ActiveContexts.IsNil() {
		return nil, nil
	}
	return DecodeActiveContexts(r.ActiveContexts.Value)
}

func (r *PostContentResult) DecodedAlternativeIntents() ([]PredictedIntent, error) {
	if r.AlternativeIntents.IsNil() {
		return nil, nil
	}
	return DecodePredictedIntents(r.AlternativeIntents.Value)
}

func (r *PostContentResult) DecodedNluIntentConfidence() (*IntentConfidence, error) {
	if r.NluIntentConfidence.IsNil() {
		return nil, nil
	}
	return DecodeIntentConfidence(r.NluIntentConfidence.Value)
}

func (r *PostContentResult) DecodedSentimentResponse() (*SentimentResponse, error) {
	if r.SentimentResponse.IsNil() {
		return nil, nil
	}
	return DecodeSentimentResponse(r.SentimentResponse.Value)
}

// DecodedMessage returns the message text, preferring the base64 encoded
// header which can carry non-ASCII text.
func (r *PostContentResult) DecodedMessage() (string, error) {
	if r.EncodedMessage.Valid {
		return decodeText(r.EncodedMessage.Value)
	}
	return r.Message.String(), nil
}

func (r *PostContentResult) DecodedInputTranscript() (string, error) {
	if r.EncodedInputTranscript.Valid {
		return decodeText(r.EncodedInputTranscript.Value)
	}
	return r.InputTranscript.String(), nil
}

func (r *PostContentResult) Equal(other *PostContentResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.ContentType.Equals(other.ContentType) &&
		r.IntentName.Equals(other.IntentName) &&
		r.NluIntentConfidence.Equals(other.NluIntentConfidence) &&
		r.AlternativeIntents.Equals(other.AlternativeIntents) &&
		r.Slots.Equals(other.Slots) &&
		r.SessionAttributes.Equals(other.SessionAttributes) &&
		r.SentimentResponse.Equals(other.SentimentResponse) &&
		r.Message.Equals(other.Message) &&
		r.EncodedMessage.Equals(other.EncodedMessage) &&
		r.MessageFormat.Equals(other.MessageFormat) &&
		r.DialogState.Equals(other.DialogState) &&
		r.SlotToElicit.Equals(other.SlotToElicit) &&
		r.InputTranscript.Equals(other.InputTranscript) &&
		r.EncodedInputTranscript.Equals(other.EncodedInputTranscript) &&
		streamsEqual(r.AudioStream, other.AudioStream) &&
		r.BotVersion.Equals(other.BotVersion) &&
		r.SessionID.Equals(other.SessionID) &&
		r.ActiveContexts.Equals(other.ActiveContexts)
}

func (r *PostContentResult) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(
		r.ContentType.Hash(),
		r.IntentName.Hash(),
		r.NluIntentConfidence.Hash(),
		r.AlternativeIntents.Hash(),
		r.Slots.Hash(),
		r.SessionAttributes.Hash(),
		r.SentimentResponse.Hash(),
		r.Message.Hash(),
		r.EncodedMessage.Hash(),
		r.MessageFormat.Hash(),
		r.DialogState.Hash(),
		r.SlotToElicit.Hash(),
		r.InputTranscript.Hash(),
		r.EncodedInputTranscript.Hash(),
		streamHash(r.AudioStream),
		r.BotVersion.Hash(),
		r.SessionID.Hash(),
		r.ActiveContexts.Hash(),
	)
}

func (r *PostContentResult) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("ContentType", r.ContentType)
	w.str("IntentName", r.IntentName)
	w.str("NluIntentConfidence", r.NluIntentConfidence)
	w.str("AlternativeIntents", r.AlternativeIntents)
	w.str("Slots", r.Slots)
	w.str("SessionAttributes", r.SessionAttributes)
	w.str("SentimentResponse", r.SentimentResponse)
	w.str("Message", r.Message)
	w.str("EncodedMessage", r.EncodedMessage)
	writeValue(w, "MessageFormat", r.MessageFormat)
	writeValue(w, "DialogState", r.DialogState)
	w.str("SlotToElicit", r.SlotToElicit)
	w.str("InputTranscript", r.InputTranscript)
	w.str("EncodedInputTranscript", r.EncodedInputTranscript)
	w.stringer("AudioStream", r.AudioStream, r.AudioStream != nil)
	w.str("BotVersion", r.BotVersion)
	w.str("SessionId", r.SessionID)
	w.str("ActiveContexts", r.ActiveContexts)
	return w.String()
}

func decodeOptionalMap(jsonText types.NullableString) (map[string]string, error) {
	if jsonText.IsNil() {
		return nil, nil
	}
	return DecodeStringMap(jsonText.Value)
}
