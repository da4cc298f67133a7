package lexruntime

import (
	"github.com/tansive/lexruntime/pkg/types"
)

// PutSessionRequest creates or replaces the session state for a user. Its
// structured fields travel in a JSON body; Accept travels as a header and
// selects the format of the prompt returned with the result.
type PutSessionRequest struct {
	BotName                 types.NullableString              `json:"-" validate:"required"`
	BotAlias                types.NullableString              `json:"-" validate:"required"`
	UserID                  types.NullableString              `json:"-" validate:"required,min=2,max=100,userid"`
	SessionAttributes       types.NullableMap[string]         `json:"sessionAttributes,omitzero" validate:"omitempty,reservedattrs"`
	DialogAction            *DialogAction                     `json:"dialogAction,omitempty"`
	RecentIntentSummaryView types.NullableList[IntentSummary] `json:"recentIntentSummaryView,omitzero" validate:"omitempty,max=3,dive"`
	Accept                  types.NullableString              `json:"-" validate:"omitempty,outputmedia"`
	ActiveContexts          types.NullableList[ActiveContext] `json:"activeContexts,omitzero" validate:"omitempty,max=20,dive"`
}

func NewPutSessionRequest(botName, botAlias, userID string) *PutSessionRequest {
	return (&PutSessionRequest{}).
		WithBotName(botName).
		WithBotAlias(botAlias).
		WithUserID(userID)
}

func (r *PutSessionRequest) WithBotName(name string) *PutSessionRequest {
	r.BotName.Set(name)
	return r
}

func (r *PutSessionRequest) WithBotAlias(alias string) *PutSessionRequest {
	r.BotAlias.Set(alias)
	return r
}

func (r *PutSessionRequest) WithUserID(id string) *PutSessionRequest {
	r.UserID.Set(id)
	return r
}

// WithSessionAttributes replaces the attribute map with a copy of attrs.
func (r *PutSessionRequest) WithSessionAttributes(attrs map[string]string) *PutSessionRequest {
	r.SessionAttributes.Set(attrs)
	return r
}

// AddSessionAttributesEntry inserts one attribute, failing with
// types.ErrDuplicateKey if key is already set.
func (r *PutSessionRequest) AddSessionAttributesEntry(key, value string) error {
	return r.SessionAttributes.Add(key, value)
}

func (r *PutSessionRequest) ClearSessionAttributesEntries() *PutSessionRequest {
	r.SessionAttributes.Clear()
	return r
}

func (r *PutSessionRequest) WithDialogAction(action *DialogAction) *PutSessionRequest {
	r.DialogAction = action
	return r
}

// WithRecentIntentSummaryView appends summaries, most recent first.
func (r *PutSessionRequest) WithRecentIntentSummaryView(summaries ...IntentSummary) *PutSessionRequest {
	r.RecentIntentSummaryView.Append(summaries...)
	return r
}

// SetRecentIntentSummaryView replaces the summary list. A nil slice makes
// the list absent; an empty slice makes it present and empty.
func (r *PutSessionRequest) SetRecentIntentSummaryView(summaries []IntentSummary) *PutSessionRequest {
	if summaries == nil {
		r.RecentIntentSummaryView.Clear()
		return r
	}
	r.RecentIntentSummaryView.Set(summaries)
	return r
}

func (r *PutSessionRequest) WithAccept(accept string) *PutSessionRequest {
	r.Accept.Set(accept)
	return r
}

// WithActiveContexts appends contexts. With no arguments it marks the list
// present and empty, which clears every context of the session.
func (r *PutSessionRequest) WithActiveContexts(contexts ...ActiveContext) *PutSessionRequest {
	r.ActiveContexts.Append(contexts...)
	return r
}

// SetActiveContexts replaces the context list. A nil slice makes the list
// absent; an empty slice makes it present and empty.
func (r *PutSessionRequest) SetActiveContexts(contexts []ActiveContext) *PutSessionRequest {
	if contexts == nil {
		r.ActiveContexts.Clear()
		return r
	}
	r.ActiveContexts.Set(contexts)
	return r
}

func (r *PutSessionRequest) Equal(other *PutSessionRequest) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.BotName.Equals(other.BotName) &&
		r.BotAlias.Equals(other.BotAlias) &&
		r.UserID.Equals(other.UserID) &&
		r.SessionAttributes.Equals(other.SessionAttributes) &&
		r.DialogAction.Equal(other.DialogAction) &&
		intentSummariesEqual(r.RecentIntentSummaryView, other.RecentIntentSummaryView) &&
		r.Accept.Equals(other.Accept) &&
		activeContextsEqual(r.ActiveContexts, other.ActiveContexts)
}

func (r *PutSessionRequest) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(
		r.BotName.Hash(),
		r.BotAlias.Hash(),
		r.UserID.Hash(),
		r.SessionAttributes.Hash(),
		r.DialogAction.Hash(),
		intentSummariesHash(r.RecentIntentSummaryView),
		r.Accept.Hash(),
		activeContextsHash(r.ActiveContexts),
	)
}

func (r *PutSessionRequest) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("BotName", r.BotName)
	w.str("BotAlias", r.BotAlias)
	w.str("UserId", r.UserID)
	writeMap(w, "SessionAttributes", r.SessionAttributes)
	w.stringer("DialogAction", r.DialogAction, r.DialogAction != nil)
	writeList(w, "RecentIntentSummaryView", r.RecentIntentSummaryView, (*IntentSummary).String)
	w.str("Accept", r.Accept)
	activeContextsString(w, "ActiveContexts", r.ActiveContexts)
	return w.String()
}

// PutSessionResult reports the session state after a PutSession call. Like
// PostContentResult it is read from headers, so slots, attributes and active
// contexts are held as the JSON text the headers carried. AudioStream holds
// the synthesized prompt when Accept requested audio.
type PutSessionResult struct {
	ContentType       types.NullableString               `json:"contentType,omitzero"`
	IntentName        types.NullableString               `json:"intentName,omitzero"`
	Slots             types.NullableString               `json:"slots,omitzero"`
	SessionAttributes types.NullableString               `json:"sessionAttributes,omitzero"`
	Message           types.NullableString               `json:"message,omitzero"`
	EncodedMessage    types.NullableString               `json:"encodedMessage,omitzero"`
	MessageFormat     types.NullableValue[MessageFormat] `json:"messageFormat,omitzero"`
	DialogState       types.NullableValue[DialogState]   `json:"dialogState,omitzero"`
	SlotToElicit      types.NullableString               `json:"slotToElicit,omitzero"`
	AudioStream       *PayloadStream                     `json:"-"`
	SessionID         types.NullableString               `json:"sessionId,omitzero"`
	ActiveContexts    types.NullableString               `json:"activeContexts,omitzero"`
}

func (r *PutSessionResult) WithContentType(contentType string) *PutSessionResult {
	r.ContentType.Set(contentType)
	return r
}

func (r *PutSessionResult) WithIntentName(name string) *PutSessionResult {
	r.IntentName.Set(name)
	return r
}

func (r *PutSessionResult) WithSlots(jsonText string) *PutSessionResult {
	r.Slots.Set(jsonText)
	return r
}

func (r *PutSessionResult) WithSessionAttributes(jsonText string) *PutSessionResult {
	r.SessionAttributes.Set(jsonText)
	return r
}

func (r *PutSessionResult) WithMessage(message string) *PutSessionResult {
	r.Message.Set(message)
	return r
}

func (r *PutSessionResult) WithEncodedMessage(encoded string) *PutSessionResult {
	r.EncodedMessage.Set(encoded)
	return r
}

func (r *PutSessionResult) WithMessageFormat(format MessageFormat) *PutSessionResult {
	r.MessageFormat.Set(format)
	return r
}

func (r *PutSessionResult) WithMessageFormatString(format string) *PutSessionResult {
	return r.WithMessageFormat(MessageFormat(format))
}

func (r *PutSessionResult) WithDialogState(state DialogState) *PutSessionResult {
	r.DialogState.Set(state)
	return r
}

func (r *PutSessionResult) WithDialogStateString(state string) *PutSessionResult {
	return r.WithDialogState(DialogState(state))
}

func (r *PutSessionResult) WithSlotToElicit(slot string) *PutSessionResult {
	r.SlotToElicit.Set(slot)
	return r
}

func (r *PutSessionResult) WithAudioStream(audio *PayloadStream) *PutSessionResult {
	r.AudioStream = audio
	return r
}

func (r *PutSessionResult) WithSessionID(id string) *PutSessionResult {
	r.SessionID.Set(id)
	return r
}

func (r *PutSessionResult) WithActiveContexts(jsonText string) *PutSessionResult {
	r.ActiveContexts.Set(jsonText)
	return r
}

func (r *PutSessionResult) DecodedSlots() (map[string]string, error) {
	return decodeOptionalMap(r.Slots)
}

func (r *PutSessionResult) DecodedSessionAttributes() (map[string]string, error) {
	return decodeOptionalMap(r.SessionAttributes)
}

func (r *PutSessionResult) DecodedActiveContexts() ([]ActiveContext, error) {
	if r.ActiveContexts.IsNil() {
		return nil, nil
	}
	return DecodeActiveContexts(r.ActiveContexts.Value)
}

func (r *PutSessionResult) DecodedMessage() (string, error) {
	if r.EncodedMessage.Valid {
		return decodeText(r.EncodedMessage.Value)
	}
	return r.Message.String(), nil
}

func (r *PutSessionResult) Equal(other *PutSessionResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.ContentType.Equals(other.ContentType) &&
		r.IntentName.Equals(other.IntentName) &&
		r.Slots.Equals(other.Slots) &&
		r.SessionAttributes.Equals(other.SessionAttributes) &&
		r.Message.Equals(other.Message) &&
		r.EncodedMessage.Equals(other.EncodedMessage) &&
		r.MessageFormat.Equals(other.MessageFormat) &&
		r.DialogState.Equals(other.DialogState) &&
		r.SlotToElicit.Equals(other.SlotToElicit) &&
		streamsEqual(r.AudioStream, other.AudioStream) &&
		r.SessionID.Equals(other.SessionID) &&
		r.ActiveContexts.Equals(other.ActiveContexts)
}

func (r *PutSessionResult) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(
		r.ContentType.Hash(),
		r.IntentName.Hash(),
		r.Slots.Hash(),
		r.SessionAttributes.Hash(),
		r.Message.Hash(),
		r.EncodedMessage.Hash(),
		r.MessageFormat.Hash(),
		r.DialogState.Hash(),
		r.SlotToElicit.Hash(),
		streamHash(r.AudioStream),
		r.SessionID.Hash(),
		r.ActiveContexts.Hash(),
	)
}

func (r *PutSessionResult) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("ContentType", r.ContentType)
	w.str("IntentName", r.IntentName)
	w.str("Slots", r.Slots)
	w.str("SessionAttributes", r.SessionAttributes)
	w.str("Message", r.Message)
	w.str("EncodedMessage", r.EncodedMessage)
	writeValue(w, "MessageFormat", r.MessageFormat)
	writeValue(w, "DialogState", r.DialogState)
	w.str("SlotToElicit", r.SlotToElicit)
	w.stringer("AudioStream", r.AudioStream, r.AudioStream != nil)
	w.str("SessionId", r.SessionID)
	w.str("ActiveContexts", r.ActiveContexts)
	return w.String()
}
