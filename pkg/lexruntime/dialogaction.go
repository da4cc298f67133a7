package lexruntime

import "github.com/tansive/lexruntime/pkg/types"

// DialogAction describes the next step of the conversation: elicit an intent
// or a slot, confirm, close, or delegate the choice to the bot.
//
// SlotToElicit is expected only when Type is ElicitSlot, and MessageFormat is
// expected exactly when Message is set. Neither pairing is enforced here; see
// Validate.
type DialogAction struct {
	Type             types.NullableValue[DialogActionType] `json:"type,omitzero" validate:"required,knownenum"`
	IntentName       types.NullableString                  `json:"intentName,omitzero"`
	Slots            types.NullableMap[string]             `json:"slots,omitzero"`
	SlotToElicit     types.NullableString                  `json:"slotToElicit,omitzero"`
	FulfillmentState types.NullableValue[FulfillmentState] `json:"fulfillmentState,omitzero" validate:"omitempty,knownenum"`
	Message          types.NullableString                  `json:"message,omitzero" validate:"omitempty,min=1,max=1024"`
	MessageFormat    types.NullableValue[MessageFormat]    `json:"messageFormat,omitzero" validate:"omitempty,knownenum"`
}

// NewDialogAction returns a dialog action of the given type.
func NewDialogAction(t DialogActionType) *DialogAction {
	return &DialogAction{Type: types.NullableValueFrom(t)}
}

func (d *DialogAction) WithType(t DialogActionType) *DialogAction {
	d.Type.Set(t)
	return d
}

// WithTypeString sets the type from its wire token. Unknown tokens are kept
// as-is.
func (d *DialogAction) WithTypeString(t string) *DialogAction {
	return d.WithType(DialogActionType(t))
}

func (d *DialogAction) WithIntentName(name string) *DialogAction {
	d.IntentName.Set(name)
	return d
}

// WithSlots replaces all slots with a copy of slots.
func (d *DialogAction) WithSlots(slots map[string]string) *DialogAction {
	d.Slots.Set(slots)
	return d
}

// AddSlotsEntry adds one slot and fails with types.ErrDuplicateKey if the
// slot is already set.
func (d *DialogAction) AddSlotsEntry(name, value string) error {
	return d.Slots.Add(name, value)
}

func (d *DialogAction) ClearSlotsEntries() *DialogAction {
	d.Slots.Clear()
	return d
}

func (d *DialogAction) WithSlotToElicit(slot string) *DialogAction {
	d.SlotToElicit.Set(slot)
	return d
}

func (d *DialogAction) WithFulfillmentState(state FulfillmentState) *DialogAction {
	d.FulfillmentState.Set(state)
	return d
}

func (d *DialogAction) WithFulfillmentStateString(state string) *DialogAction {
	return d.WithFulfillmentState(FulfillmentState(state))
}

func (d *DialogAction) WithMessage(message string) *DialogAction {
	d.Message.Set(message)
	return d
}

func (d *DialogAction) WithMessageFormat(format MessageFormat) *DialogAction {
	d.MessageFormat.Set(format)
	return d
}

func (d *DialogAction) WithMessageFormatString(format string) *DialogAction {
	return d.WithMessageFormat(MessageFormat(format))
}

// Clone returns a copy that shares no maps with d.
func (d *DialogAction) Clone() *DialogAction {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Slots = d.Slots.Clone()
	return &cp
}

func (d *DialogAction) Equal(other *DialogAction) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Type.Equals(other.Type) &&
		d.IntentName.Equals(other.IntentName) &&
		d.Slots.Equals(other.Slots) &&
		d.SlotToElicit.Equals(other.SlotToElicit) &&
		d.FulfillmentState.Equals(other.FulfillmentState) &&
		d.Message.Equals(other.Message) &&
		d.MessageFormat.Equals(other.MessageFormat)
}

func (d *DialogAction) Hash() uint64 {
	if d == nil {
		return 0
	}
	return types.HashFields(
		d.Type.Hash(),
		d.IntentName.Hash(),
		d.Slots.Hash(),
		d.SlotToElicit.Hash(),
		d.FulfillmentState.Hash(),
		d.Message.Hash(),
		d.MessageFormat.Hash(),
	)
}

func (d *DialogAction) String() string {
	if d == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	writeValue(w, "Type", d.Type)
	w.str("IntentName", d.IntentName)
	writeMap(w, "Slots", d.Slots)
	w.str("SlotToElicit", d.SlotToElicit)
	writeValue(w, "FulfillmentState", d.FulfillmentState)
	w.str("Message", d.Message)
	writeValue(w, "MessageFormat", d.MessageFormat)
	return w.String()
}
