package lexruntime

import "github.com/tansive/lexruntime/pkg/types"

// IntentSummary is a snapshot of one intent's progress. A list of summaries
// forms the recent intent history that PutSession can restore, and a
// CheckpointLabel lets GetSession find a summary again later.
type IntentSummary struct {
	IntentName         types.NullableString                    `json:"intentName,omitzero"`
	CheckpointLabel    types.NullableString                    `json:"checkpointLabel,omitzero" validate:"omitempty,min=1,max=255,checkpointlabel"`
	Slots              types.NullableMap[string]               `json:"slots,omitzero"`
	ConfirmationStatus types.NullableValue[ConfirmationStatus] `json:"confirmationStatus,omitzero" validate:"omitempty,knownenum"`
	DialogActionType   types.NullableValue[DialogActionType]   `json:"dialogActionType,omitzero" validate:"required,knownenum"`
	FulfillmentState   types.NullableValue[FulfillmentState]   `json:"fulfillmentState,omitzero" validate:"omitempty,knownenum"`
	SlotToElicit       types.NullableString                    `json:"slotToElicit,omitzero"`
}

// NewIntentSummary returns a summary for intent at the given dialog step.
func NewIntentSummary(intent string, t DialogActionType) *IntentSummary {
	return &IntentSummary{
		IntentName:       types.NullableStringFrom(intent),
		DialogActionType: types.NullableValueFrom(t),
	}
}

func (s *IntentSummary) WithIntentName(name string) *IntentSummary {
	s.IntentName.Set(name)
	return s
}

func (s *IntentSummary) WithCheckpointLabel(label string) *IntentSummary {
	s.CheckpointLabel.Set(label)
	return s
}

func (s *IntentSummary) WithSlots(slots map[string]string) *IntentSummary {
	s.Slots.Set(slots)
	return s
}

// AddSlotsEntry adds one slot and fails with types.ErrDuplicateKey if the
// slot is already set.
func (s *IntentSummary) AddSlotsEntry(name, value string) error {
	return s.Slots.Add(name, value)
}

func (s *IntentSummary) ClearSlotsEntries() *IntentSummary {
	s.Slots.Clear()
	return s
}

func (s *IntentSummary) WithConfirmationStatus(status ConfirmationStatus) *IntentSummary {
	s.ConfirmationStatus.Set(status)
	return s
}

func (s *IntentSummary) WithConfirmationStatusString(status string) *IntentSummary {
	return s.WithConfirmationStatus(ConfirmationStatus(status))
}

func (s *IntentSummary) WithDialogActionType(t DialogActionType) *IntentSummary {
	s.DialogActionType.Set(t)
	return s
}

func (s *IntentSummary) WithDialogActionTypeString(t string) *IntentSummary {
	return s.WithDialogActionType(DialogActionType(t))
}

func (s *IntentSummary) WithFulfillmentState(state FulfillmentState) *IntentSummary {
	s.FulfillmentState.Set(state)
	return s
}

func (s *IntentSummary) WithFulfillmentStateString(state string) *IntentSummary {
	return s.WithFulfillmentState(FulfillmentState(state))
}

func (s *IntentSummary) WithSlotToElicit(slot string) *IntentSummary {
	s.SlotToElicit.Set(slot)
	return s
}

func (s *IntentSummary) Clone() *IntentSummary {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Slots = s.Slots.Clone()
	return &cp
}

func (s *IntentSummary) Equal(other *IntentSummary) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.IntentName.Equals(other.IntentName) &&
		s.CheckpointLabel.Equals(other.CheckpointLabel) &&
		s.Slots.Equals(other.Slots) &&
		s.ConfirmationStatus.Equals(other.ConfirmationStatus) &&
		s.DialogActionType.Equals(other.DialogActionType) &&
		s.FulfillmentState.Equals(other.FulfillmentState) &&
		s.SlotToElicit.Equals(other.SlotToElicit)
}

func (s *IntentSummary) Hash() uint64 {
	if s == nil {
		return 0
	}
	return types.HashFields(
		s.IntentName.Hash(),
		s.CheckpointLabel.Hash(),
		s.Slots.Hash(),
		s.ConfirmationStatus.Hash(),
		s.DialogActionType.Hash(),
		s.FulfillmentState.Hash(),
		s.SlotToElicit.Hash(),
	)
}

func (s *IntentSummary) String() string {
	if s == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("IntentName", s.IntentName)
	w.str("CheckpointLabel", s.CheckpointLabel)
	writeMap(w, "Slots", s.Slots)
	writeValue(w, "ConfirmationStatus", s.ConfirmationStatus)
	writeValue(w, "DialogActionType", s.DialogActionType)
	writeValue(w, "FulfillmentState", s.FulfillmentState)
	w.str("SlotToElicit", s.SlotToElicit)
	return w.String()
}

func intentSummariesEqual(a, b types.NullableList[IntentSummary]) bool {
	return a.EqualFunc(b, (*IntentSummary).Equal)
}

func intentSummariesHash(l types.NullableList[IntentSummary]) uint64 {
	return l.HashFunc((*IntentSummary).Hash)
}
