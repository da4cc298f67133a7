package lexruntime

import (
	"github.com/tansive/lexruntime/pkg/types"
)

// GetSessionRequest reads the session state for a user. CheckpointLabelFilter
// restricts the returned intent summaries to those carrying that label.
type GetSessionRequest struct {
	BotName               types.NullableString `json:"-" validate:"required"`
	BotAlias              types.NullableString `json:"-" validate:"required"`
	UserID                types.NullableString `json:"-" validate:"required,min=2,max=100,userid"`
	CheckpointLabelFilter types.NullableString `json:"-" validate:"omitempty,min=1,max=255,checkpointlabel"`
}

func NewGetSessionRequest(botName, botAlias, userID string) *GetSessionRequest {
	return (&GetSessionRequest{}).
		WithBotName(botName).
		WithBotAlias(botAlias).
		WithUserID(userID)
}

func (r *GetSessionRequest) WithBotName(name string) *GetSessionRequest {
	r.BotName.Set(name)
	return r
}

func (r *GetSessionRequest) WithBotAlias(alias string) *GetSessionRequest {
	r.BotAlias.Set(alias)
	return r
}

func (r *GetSessionRequest) WithUserID(id string) *GetSessionRequest {
	r.UserID.Set(id)
	return r
}

func (r *GetSessionRequest) WithCheckpointLabelFilter(label string) *GetSessionRequest {
	r.CheckpointLabelFilter.Set(label)
	return r
}

func (r *GetSessionRequest) Equal(other *GetSessionRequest) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.BotName.Equals(other.BotName) &&
		r.BotAlias.Equals(other.BotAlias) &&
		r.UserID.Equals(other.UserID) &&
		r.CheckpointLabelFilter.Equals(other.CheckpointLabelFilter)
}

func (r *GetSessionRequest) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(
		r.BotName.Hash(),
		r.BotAlias.Hash(),
		r.UserID.Hash(),
		r.CheckpointLabelFilter.Hash(),
	)
}

func (r *GetSessionRequest) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("BotName", r.BotName)
	w.str("BotAlias", r.BotAlias)
	w.str("UserId", r.UserID)
	w.str("CheckpointLabelFilter", r.CheckpointLabelFilter)
	return w.String()
}

// GetSessionResult is the stored session state of a user.
type GetSessionResult struct {
	RecentIntentSummaryView types.NullableList[IntentSummary] `json:"recentIntentSummaryView,omitzero"`
	SessionAttributes       types.NullableMap[string]         `json:"sessionAttributes,omitzero"`
	SessionID               types.NullableString              `json:"sessionId,omitzero"`
	DialogAction            *DialogAction                     `json:"dialogAction,omitempty"`
	ActiveContexts          types.NullableList[ActiveContext] `json:"activeContexts,omitzero"`
}

func (r *GetSessionResult) WithRecentIntentSummaryView(summaries ...IntentSummary) *GetSessionResult {
	r.RecentIntentSummaryView.Append(summaries...)
	return r
}

func (r *GetSessionResult) WithSessionAttributes(attrs map[string]string) *GetSessionResult {
	r.SessionAttributes.Set(attrs)
	return r
}

func (r *GetSessionResult) AddSessionAttributesEntry(key, value string) error {
	return r.SessionAttributes.Add(key, value)
}

func (r *GetSessionResult) WithSessionID(id string) *GetSessionResult {
	r.SessionID.Set(id)
	return r
}

func (r *GetSessionResult) WithDialogAction(action *DialogAction) *GetSessionResult {
	r.DialogAction = action
	return r
}

func (r *GetSessionResult) WithActiveContexts(contexts ...ActiveContext) *GetSessionResult {
	r.ActiveContexts.Append(contexts...)
	return r
}

// ToPutSessionRequest returns a request that restores this state for the
// given bot and user. The result shares no maps with r.
func (r *GetSessionResult) ToPutSessionRequest(botName, botAlias, userID string) *PutSessionRequest {
	req := NewPutSessionRequest(botName, botAlias, userID)
	req.SessionAttributes = r.SessionAttributes.Clone()
	req.DialogAction = r.DialogAction.Clone()
	if r.RecentIntentSummaryView.Valid {
		summaries := make([]IntentSummary, 0, r.RecentIntentSummaryView.Len())
		for i := range r.RecentIntentSummaryView.Value {
			summaries = append(summaries, *r.RecentIntentSummaryView.Value[i].Clone())
		}
		req.RecentIntentSummaryView.Set(summaries)
	}
	if r.ActiveContexts.Valid {
		contexts := make([]ActiveContext, 0, r.ActiveContexts.Len())
		for i := range r.ActiveContexts.Value {
			contexts = append(contexts, *r.ActiveContexts.Value[i].Clone())
		}
		req.ActiveContexts.Set(contexts)
	}
	return req
}

func (r *GetSessionResult) Equal(other *GetSessionResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	return intentSummariesEqual(r.RecentIntentSummaryView, other.RecentIntentSummaryView) &&
		r.SessionAttributes.Equals(other.SessionAttributes) &&
		r.SessionID.Equals(other.SessionID) &&
		r.DialogAction.Equal(other.DialogAction) &&
		activeContextsEqual(r.ActiveContexts, other.ActiveContexts)
}

func (r *GetSessionResult) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(
		intentSummariesHash(r.RecentIntentSummaryView),
		r.SessionAttributes.Hash(),
		r.SessionID.Hash(),
		r.DialogAction.Hash(),
		activeContextsHash(r.ActiveContexts),
	)
}

func (r *GetSessionResult) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	writeList(w, "RecentIntentSummaryView", r.RecentIntentSummaryView, (*IntentSummary).String)
	writeMap(w, "SessionAttributes", r.SessionAttributes)
	w.str("SessionId", r.SessionID)
	w.stringer("DialogAction", r.DialogAction, r.DialogAction != nil)
	activeContextsString(w, "ActiveContexts", r.ActiveContexts)
	return w.String()
}
