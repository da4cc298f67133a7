package sessionstore

import (
	"time"

	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tansive/lexruntime/pkg/types"
)

// Key identifies a runtime session: one user talking to one bot alias.
type Key struct {
	BotName  string `json:"botName"`
	BotAlias string `json:"botAlias"`
	UserID   string `json:"userId"`
}

func (k Key) String() string {
	return k.BotName + "/" + k.BotAlias + "/" + k.UserID
}

func (k Key) valid() bool {
	return k.BotName != "" && k.BotAlias != "" && k.UserID != ""
}

// Snapshot is the last view of a session the service reported.
//
// On Put, session attributes, active contexts and recent intents that a
// snapshot leaves absent keep their previous value. The dialog fields
// (intent, dialog state, slot to elicit, slots) of a Turn snapshot replace the
// stored ones wholesale, absent included, and drop any cached dialog action.
type Snapshot struct {
	Key                     Key                                          `json:"key"`
	SessionID               types.NullableString                         `json:"sessionId,omitzero"`
	IntentName              types.NullableString                         `json:"intentName,omitzero"`
	DialogState             types.NullableValue[lexruntime.DialogState]  `json:"dialogState,omitzero"`
	SlotToElicit            types.NullableString                         `json:"slotToElicit,omitzero"`
	Slots                   types.NullableMap[string]                    `json:"slots,omitzero"`
	SessionAttributes       types.NullableMap[string]                    `json:"sessionAttributes,omitzero"`
	ActiveContexts          types.NullableList[lexruntime.ActiveContext] `json:"activeContexts,omitzero"`
	RecentIntentSummaryView types.NullableList[lexruntime.IntentSummary] `json:"recentIntentSummaryView,omitzero"`
	DialogAction            *lexruntime.DialogAction                     `json:"dialogAction,omitempty"`
	UpdatedAt               time.Time                                    `json:"updatedAt"`

	// Turn marks a snapshot built from the result of a single turn.
	Turn bool `json:"-"`
}

// FromPostText builds a snapshot from a PostText result.
func FromPostText(key Key, r *lexruntime.PostTextResult) *Snapshot {
	return &Snapshot{
		Key:               key,
		SessionID:         r.SessionID,
		IntentName:        r.IntentName,
		DialogState:       r.DialogState,
		SlotToElicit:      r.SlotToElicit,
		Slots:             r.Slots.Clone(),
		SessionAttributes: r.SessionAttributes.Clone(),
		ActiveContexts:    cloneContexts(r.ActiveContexts),
		Turn:              true,
	}
}

// FromPostContent builds a snapshot from a PostContent result, decoding the
// JSON its headers carried.
func FromPostContent(key Key, r *lexruntime.PostContentResult) (*Snapshot, error) {
	s := &Snapshot{
		Key:          key,
		SessionID:    r.SessionID,
		IntentName:   r.IntentName,
		DialogState:  r.DialogState,
		SlotToElicit: r.SlotToElicit,
		Turn:         true,
	}
	if err := s.decodeHeaders(r.DecodedSlots, r.DecodedSessionAttributes, r.DecodedActiveContexts); err != nil {
		return nil, err
	}
	return s, nil
}

// FromPutSession builds a snapshot from a PutSession result.
func FromPutSession(key Key, r *lexruntime.PutSessionResult) (*Snapshot, error) {
	s := &Snapshot{
		Key:          key,
		SessionID:    r.SessionID,
		IntentName:   r.IntentName,
		DialogState:  r.DialogState,
		SlotToElicit: r.SlotToElicit,
		Turn:         true,
	}
	if err := s.decodeHeaders(r.DecodedSlots, r.DecodedSessionAttributes, r.DecodedActiveContexts); err != nil {
		return nil, err
	}
	return s, nil
}

// FromGetSession builds a snapshot from a GetSession result. It is the only
// result that reports the recent intent summaries and the pending dialog action.
func FromGetSession(key Key, r *lexruntime.GetSessionResult) *Snapshot {
	s := &Snapshot{
		Key:                     key,
		SessionID:               r.SessionID,
		SessionAttributes:       r.SessionAttributes.Clone(),
		ActiveContexts:          cloneContexts(r.ActiveContexts),
		RecentIntentSummaryView: cloneSummaries(r.RecentIntentSummaryView),
		DialogAction:            r.DialogAction.Clone(),
	}
	if d := r.DialogAction; d != nil {
		s.IntentName = d.IntentName
		s.SlotToElicit = d.SlotToElicit
		s.Slots = d.Slots.Clone()
	}
	return s
}

func (s *Snapshot) decodeHeaders(
	slots func() (map[string]string, error),
	attrs func() (map[string]string, error),
	contexts func() ([]lexruntime.ActiveContext, error),
) error {
	m, err := slots()
	if err != nil {
		return err
	}
	if m != nil {
		s.Slots.Set(m)
	}
	if m, err = attrs(); err != nil {
		return err
	}
	if m != nil {
		s.SessionAttributes.Set(m)
	}
	c, err := contexts()
	if err != nil {
		return err
	}
	if c != nil {
		s.ActiveContexts.Set(c)
	}
	return nil
}

// Merge returns s laid over prev. A different session id starts from scratch.
// The result is never a Turn snapshot.
func (s *Snapshot) Merge(prev *Snapshot) *Snapshot {
	if prev == nil || (s.SessionID.Valid && prev.SessionID.Valid && s.SessionID.Value != prev.SessionID.Value) {
		m := s.Clone()
		m.Turn = false
		return m
	}
	m := prev.Clone()
	m.Key = s.Key
	m.UpdatedAt = s.UpdatedAt
	if s.SessionID.Valid {
		m.SessionID = s.SessionID
	}
	if s.Turn {
		m.IntentName = s.IntentName
		m.DialogState = s.DialogState
		m.SlotToElicit = s.SlotToElicit
		m.Slots = s.Slots.Clone()
		m.DialogAction = nil
	} else {
		if s.IntentName.Valid {
			m.IntentName = s.IntentName
		}
		if s.DialogState.Valid {
			m.DialogState = s.DialogState
		}
		if s.SlotToElicit.Valid {
			m.SlotToElicit = s.SlotToElicit
		}
		if !s.Slots.IsNil() {
			m.Slots = s.Slots.Clone()
		}
		if s.DialogAction != nil {
			m.DialogAction = s.DialogAction.Clone()
		}
	}
	if !s.SessionAttributes.IsNil() {
		m.SessionAttributes = s.SessionAttributes.Clone()
	}
	if !s.ActiveContexts.IsNil() {
		m.ActiveContexts = cloneContexts(s.ActiveContexts)
	}
	if !s.RecentIntentSummaryView.IsNil() {
		m.RecentIntentSummaryView = cloneSummaries(s.RecentIntentSummaryView)
	}
	return m
}

// Equal compares everything but UpdatedAt.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Key == other.Key &&
		s.SessionID.Equals(other.SessionID) &&
		s.IntentName.Equals(other.IntentName) &&
		s.DialogState.Equals(other.DialogState) &&
		s.SlotToElicit.Equals(other.SlotToElicit) &&
		s.Slots.Equals(other.Slots) &&
		s.SessionAttributes.Equals(other.SessionAttributes) &&
		s.ActiveContexts.EqualFunc(other.ActiveContexts, (*lexruntime.ActiveContext).Equal) &&
		s.RecentIntentSummaryView.EqualFunc(other.RecentIntentSummaryView, (*lexruntime.IntentSummary).Equal) &&
		s.DialogAction.Equal(other.DialogAction)
}

// Hash covers the same fields as Equal.
func (s *Snapshot) Hash() uint64 {
	if s == nil {
		return 0
	}
	return types.HashFields(
		types.HashString(s.Key.String()),
		s.SessionID.Hash(),
		s.IntentName.Hash(),
		s.DialogState.Hash(),
		s.SlotToElicit.Hash(),
		s.Slots.Hash(),
		s.SessionAttributes.Hash(),
		s.ActiveContexts.HashFunc((*lexruntime.ActiveContext).Hash),
		s.RecentIntentSummaryView.HashFunc((*lexruntime.IntentSummary).Hash),
		s.DialogAction.Hash(),
	)
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Slots = s.Slots.Clone()
	c.SessionAttributes = s.SessionAttributes.Clone()
	c.ActiveContexts = cloneContexts(s.ActiveContexts)
	c.RecentIntentSummaryView = cloneSummaries(s.RecentIntentSummaryView)
	c.DialogAction = s.DialogAction.Clone()
	return &c
}

func cloneContexts(l types.NullableList[lexruntime.ActiveContext]) types.NullableList[lexruntime.ActiveContext] {
	if l.IsNil() {
		return l
	}
	out := make([]lexruntime.ActiveContext, 0, l.Len())
	for i := range l.Value {
		out = append(out, *l.Value[i].Clone())
	}
	return types.NullableListFrom(out...)
}

func cloneSummaries(l types.NullableList[lexruntime.IntentSummary]) types.NullableList[lexruntime.IntentSummary] {
	if l.IsNil() {
		return l
	}
	out := make([]lexruntime.IntentSummary, 0, l.Len())
	for i := range l.Value {
		out = append(out, *l.Value[i].Clone())
	}
	return types.NullableListFrom(out...)
}
