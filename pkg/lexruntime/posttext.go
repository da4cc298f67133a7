package lexruntime

import (
	"github.com/tansive/lexruntime/pkg/types"
)

// PostTextRequest sends one turn of typed user input. Unlike PostContent, all
// fields travel in a JSON body so maps and lists are held structured.
type PostTextRequest struct {
	BotName           types.NullableString              `json:"-" validate:"required"`
	BotAlias          types.NullableString              `json:"-" validate:"required"`
	UserID            types.NullableString              `json:"-" validate:"required,min=2,max=100,userid"`
	SessionAttributes types.NullableMap[string]         `json:"sessionAttributes,omitzero" validate:"omitempty,reservedattrs"`
	RequestAttributes types.NullableMap[string]         `json:"requestAttributes,omitzero" validate:"omitempty,reservedattrs"`
	InputText         types.NullableString              `json:"inputText,omitzero" validate:"required,min=1,max=1024"`
	ActiveContexts    types.NullableList[ActiveContext] `json:"activeContexts,omitzero" validate:"omitempty,max=20,dive"`
}

func NewPostTextRequest(botName, botAlias, userID, inputText string) *PostTextRequest {
	return (&PostTextRequest{}).
		WithBotName(botName).
		WithBotAlias(botAlias).
		WithUserID(userID).
		WithInputText(inputText)
}

func (r *PostTextRequest) WithBotName(name string) *PostTextRequest {
	r.BotName.Set(name)
	return r
}

func (r *PostTextRequest) WithBotAlias(alias string) *PostTextRequest {
	r.BotAlias.Set(alias)
	return r
}

func (r *PostTextRequest) WithUserID(id string) *PostTextRequest {
	r.UserID.Set(id)
	return r
}

func (r *PostTextRequest) WithSessionAttributes(attrs map[string]string) *PostTextRequest {
	r.SessionAttributes.Set(attrs)
	return r
}

func (r *PostTextRequest) AddSessionAttributesEntry(key, value string) error {
	return r.SessionAttributes.Add(key, value)
}

func (r *PostTextRequest) ClearSessionAttributesEntries() *PostTextRequest {
	r.SessionAttributes.Clear()
	return r
}

func (r *PostTextRequest) WithRequestAttributes(attrs map[string]string) *PostTextRequest {
	r.RequestAttributes.Set(attrs)
	return r
}

func (r *PostTextRequest) AddRequestAttributesEntry(key, value string) error {
	return r.RequestAttributes.Add(key, value)
}

func (r *PostTextRequest) ClearRequestAttributesEntries() *PostTextRequest {
	r.RequestAttributes.Clear()
	return r
}

func (r *PostTextRequest) WithInputText(text string) *PostTextRequest {
	r.InputText.Set(text)
	return r
}

// WithActiveContexts appends contexts. Calling it with no arguments marks the
// list present and empty, which clears the session's contexts.
func (r *PostTextRequest) WithActiveContexts(contexts ...ActiveContext) *PostTextRequest {
	r.ActiveContexts.Append(contexts...)
	return r
}

func (r *PostTextRequest) Equal(other *PostTextRequest) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.BotName.Equals(other.BotName) &&
		r.BotAlias.Equals(other.BotAlias) &&
		r.UserID.Equals(other.UserID) &&
		r.SessionAttributes.Equals(other.SessionAttributes) &&
		r.RequestAttributes.Equals(other.RequestAttributes) &&
		r.InputText.Equals(other.InputText) &&
		activeContextsEqual(r.ActiveContexts, other.ActiveContexts)
}

func (r *PostTextRequest) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(
		r.BotName.Hash(),
		r.BotAlias.Hash(),
		r.UserID.Hash(),
		r.SessionAttributes.Hash(),
		r.RequestAttributes.Hash(),
		r.InputText.Hash(),
		activeContextsHash(r.ActiveContexts),
	)
}

func (r *PostTextRequest) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("BotName", r.BotName)
	w.str("BotAlias", r.BotAlias)
	w.str("UserId", r.UserID)
	writeMap(w, "SessionAttributes", r.SessionAttributes)
	writeMap(w, "RequestAttributes", r.RequestAttributes)
	w.str("InputText", r.InputText)
	activeContextsString(w, "ActiveContexts", r.ActiveContexts)
	return w.String()
}

// PostTextResult is the service's answer to a PostText turn.
type PostTextResult struct {
	IntentName          types.NullableString                `json:"intentName,omitzero"`
	NluIntentConfidence *IntentConfidence                   `json:"nluIntentConfidence,omitempty"`
	AlternativeIntents  types.NullableList[PredictedIntent] `json:"alternativeIntents,omitzero"`
	Slots               types.NullableMap[string]           `json:"slots,omitzero"`
	SessionAttributes   types.NullableMap[string]           `json:"sessionAttributes,omitzero"`
	Message             types.NullableString                `json:"message,omitzero"`
	SentimentResponse   *SentimentResponse                  `json:"sentimentResponse,omitempty"`
	MessageFormat       types.NullableValue[MessageFormat]  `json:"messageFormat,omitzero"`
	DialogState         types.NullableValue[DialogState]    `json:"dialogState,omitzero"`
	SlotToElicit        types.NullableString                `json:"slotToElicit,omitzero"`
	ResponseCard        *ResponseCard                       `json:"responseCard,omitempty"`
	SessionID           types.NullableString                `json:"sessionId,omitzero"`
	BotVersion          types.NullableString                `json:"botVersion,omitzero"`
	ActiveContexts      types.NullableList[ActiveContext]   `json:"activeContexts,omitzero"`
}

func (r *PostTextResult) WithIntentName(name string) *PostTextResult {
	r.IntentName.Set(name)
	return r
}

func (r *PostTextResult) WithSlots(slots map[string]string) *PostTextResult {
	r.Slots.Set(slots)
	return r
}

func (r *PostTextResult) AddSlotsEntry(name, value string) error {
	return r.Slots.Add(name, value)
}

func (r *PostTextResult) WithSessionAttributes(attrs map[string]string) *PostTextResult {
	r.SessionAttributes.Set(attrs)
	return r
}

func (r *PostTextResult) AddSessionAttributesEntry(key, value string) error {
	return r.SessionAttributes.Add(key, value)
}

func (r *PostTextResult) WithMessage(message string) *PostTextResult {
	r.Message.Set(message)
	return r
}

func (r *PostTextResult) WithMessageFormat(format MessageFormat) *PostTextResult {
	r.MessageFormat.Set(format)
	return r
}

func (r *PostTextResult) WithDialogState(state DialogState) *PostTextResult {
	r.DialogState.Set(state)
	return r
}

func (r *PostTextResult) WithDialogStateString(state string) *PostTextResult {
	return r.WithDialogState(DialogState(state))
}

func (r *PostTextResult) WithSlotToElicit(slot string) *PostTextResult {
	r.SlotToElicit.Set(slot)
	return r
}

func (r *PostTextResult) WithResponseCard(card *ResponseCard) *PostTextResult {
	r.ResponseCard = card
	return r
}

func (r *PostTextResult) WithSessionID(id string) *PostTextResult {
	r.SessionID.Set(id)
	return r
}

func (r *PostTextResult) WithActiveContexts(contexts ...ActiveContext) *PostTextResult {
	r.ActiveContexts.Append(contexts...)
	return r
}

func (r *PostTextResult) Equal(other *PostTextResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.IntentName.Equals(other.IntentName) &&
		r.NluIntentConfidence.Equal(other.NluIntentConfidence) &&
		predictedIntentsEqual(r.AlternativeIntents, other.AlternativeIntents) &&
		r.Slots.Equals(other.Slots) &&
		r.SessionAttributes.Equals(other.SessionAttributes) &&
		r.Message.Equals(other.Message) &&
		r.SentimentResponse.Equal(other.SentimentResponse) &&
		r.MessageFormat.Equals(other.MessageFormat) &&
		r.DialogState.Equals(other.DialogState) &&
		r.SlotToElicit.Equals(other.SlotToElicit) &&
		r.ResponseCard.Equal(other.ResponseCard) &&
		r.SessionID.Equals(other.SessionID) &&
		r.BotVersion.Equals(other.BotVersion) &&
		activeContextsEqual(r.ActiveContexts, other.ActiveContexts)
}

func (r *PostTextResult) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(
		r.IntentName.Hash(),
		r.NluIntentConfidence.Hash(),
		predictedIntentsHash(r.AlternativeIntents),
		r.Slots.Hash(),
		r.SessionAttributes.Hash(),
		r.Message.Hash(),
		r.SentimentResponse.Hash(),
		r.MessageFormat.Hash(),
		r.DialogState.Hash(),
		r.SlotToElicit.Hash(),
		r.ResponseCard.Hash(),
		r.SessionID.Hash(),
		r.BotVersion.Hash(),
		activeContextsHash(r.ActiveContexts),
	)
}

func (r *PostTextResult) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("IntentName", r.IntentName)
	w.stringer("NluIntentConfidence", r.NluIntentConfidence, r.NluIntentConfidence != nil)
	writeList(w, "AlternativeIntents", r.AlternativeIntents, (*PredictedIntent).String)
	writeMap(w, "Slots", r.Slots)
	writeMap(w, "SessionAttributes", r.SessionAttributes)
	w.str("Message", r.Message)
	w.stringer("SentimentResponse", r.SentimentResponse, r.SentimentResponse != nil)
	writeValue(w, "MessageFormat", r.MessageFormat)
	writeValue(w, "DialogState", r.DialogState)
	w.str("SlotToElicit", r.SlotToElicit)
	w.stringer("ResponseCard", r.ResponseCard, r.ResponseCard != nil)
	w.str("SessionId", r.SessionID)
	w.str("BotVersion", r.BotVersion)
	activeContextsString(w, "ActiveContexts", r.ActiveContexts)
	return w.String()
}
