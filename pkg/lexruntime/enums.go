// Package lexruntime defines the session and dialog data contract exchanged
// with the conversational runtime service: dialog actions, active contexts,
// intent summaries, and the request and result entities of each operation.
//
// Entities are plain value holders. Enum-typed fields accept any string so
// that values added by the service later pass through unchanged; use the
// Validate methods to check known values and documented constraints.
//
// Attribute keys beginning with ReservedAttributePrefix belong to the service
// and must not be assigned by application code.
package lexruntime

import "slices"

// DialogActionType is the next action the bot takes in its interaction with
// the user.
type DialogActionType string

const (
	DialogActionTypeElicitIntent  DialogActionType = "ElicitIntent"
	DialogActionTypeConfirmIntent DialogActionType = "ConfirmIntent"
	DialogActionTypeElicitSlot    DialogActionType = "ElicitSlot"
	DialogActionTypeClose         DialogActionType = "Close"
	DialogActionTypeDelegate      DialogActionType = "Delegate"
)

// Values returns all known DialogActionType values.
func (DialogActionType) Values() []DialogActionType {
	return []DialogActionType{
		DialogActionTypeElicitIntent,
		DialogActionTypeConfirmIntent,
		DialogActionTypeElicitSlot,
		DialogActionTypeClose,
		DialogActionTypeDelegate,
	}
}

func (v DialogActionType) IsKnown() bool {
	return slices.Contains(v.Values(), v)
}

// FulfillmentState reports the outcome of fulfilling an intent.
type FulfillmentState string

const (
	FulfillmentStateFulfilled           FulfillmentState = "Fulfilled"
	FulfillmentStateFailed              FulfillmentState = "Failed"
	FulfillmentStateReadyForFulfillment FulfillmentState = "ReadyForFulfillment"
)

func (FulfillmentState) Values() []FulfillmentState {
	return []FulfillmentState{
		FulfillmentStateFulfilled,
		FulfillmentStateFailed,
		FulfillmentStateReadyForFulfillment,
	}
}

func (v FulfillmentState) IsKnown() bool {
	return slices.Contains(v.Values(), v)
}

// MessageFormat selects how a message must be interpreted by the client.
// Composite means the message is an escaped JSON array of message groups.
type MessageFormat string

const (
	MessageFormatPlainText     MessageFormat = "PlainText"
	MessageFormatCustomPayload MessageFormat = "CustomPayload"
	MessageFormatSSML          MessageFormat = "SSML"
	MessageFormatComposite     MessageFormat = "Composite"
)

func (MessageFormat) Values() []MessageFormat {
	return []MessageFormat{
		MessageFormatPlainText,
		MessageFormatCustomPayload,
		MessageFormatSSML,
		MessageFormatComposite,
	}
}

func (v MessageFormat) IsKnown() bool {
	return slices.Contains(v.Values(), v)
}

// ConfirmationStatus is the user's answer to a confirmation prompt.
type ConfirmationStatus string

const (
	ConfirmationStatusNone      ConfirmationStatus = "None"
	ConfirmationStatusConfirmed ConfirmationStatus = "Confirmed"
	ConfirmationStatusDenied    ConfirmationStatus = "Denied"
)

func (ConfirmationStatus) Values() []ConfirmationStatus {
	return []ConfirmationStatus{
		ConfirmationStatusNone,
		ConfirmationStatusConfirmed,
		ConfirmationStatusDenied,
	}
}

func (v ConfirmationStatus) IsKnown() bool {
	return slices.Contains(v.Values(), v)
}

// DialogState is the current state of the user interaction as reported in
// results. It is a superset of the dialog action types and fulfillment states.
type DialogState string

const (
	DialogStateElicitIntent        DialogState = "ElicitIntent"
	DialogStateConfirmIntent       DialogState = "ConfirmIntent"
	DialogStateElicitSlot          DialogState = "ElicitSlot"
	DialogStateFulfilled           DialogState = "Fulfilled"
	DialogStateReadyForFulfillment DialogState = "ReadyForFulfillment"
	DialogStateFailed              DialogState = "Failed"
)

func (DialogState) Values() []DialogState {
	return []DialogState{
		DialogStateElicitIntent,
		DialogStateConfirmIntent,
		DialogStateElicitSlot,
		DialogStateFulfilled,
		DialogStateReadyForFulfillment,
		DialogStateFailed,
	}
}

func (v DialogState) IsKnown() bool {
	return slices.Contains(v.Values(), v)
}

// IsTerminal reports whether the dialog has finished for the current intent.
func (v DialogState) IsTerminal() bool {
	return v == DialogStateFulfilled || v == DialogStateFailed || v == DialogStateReadyForFulfillment
}

// ContentType is the content type of a response card.
type ContentType string

const (
	ContentTypeGeneric ContentType = "application/vnd.amazonaws.card.generic"
)

func (ContentType) Values() []ContentType {
	return []ContentType{ContentTypeGeneric}
}

func (v ContentType) IsKnown() bool {
	return slices.Contains(v.Values(), v)
}

// ReservedAttributePrefix starts every attribute key owned by the service.
const ReservedAttributePrefix = "x-amz-lex:"

// MaxAttributesSize bounds the combined size of session and request
// attributes, measured as the byte length of their canonical JSON.
const MaxAttributesSize = 12 * 1024
