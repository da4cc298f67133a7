package lexruntime

import (
	"github.com/tansive/lexruntime/pkg/types"
)

// DeleteSessionRequest removes the session state of a user.
type DeleteSessionRequest struct {
	BotName  types.NullableString `json:"-" validate:"required"`
	BotAlias types.NullableString `json:"-" validate:"required"`
	UserID   types.NullableString `json:"-" validate:"required,min=2,max=100,userid"`
}

func NewDeleteSessionRequest(botName, botAlias, userID string) *DeleteSessionRequest {
	return &DeleteSessionRequest{
		BotName:  types.NullableStringFrom(botName),
		BotAlias: types.NullableStringFrom(botAlias),
		UserID:   types.NullableStringFrom(userID),
	}
}

func (r *DeleteSessionRequest) Equal(other *DeleteSessionRequest) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.BotName.Equals(other.BotName) &&
		r.BotAlias.Equals(other.BotAlias) &&
		r.UserID.Equals(other.UserID)
}

func (r *DeleteSessionRequest) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(r.BotName.Hash(), r.BotAlias.Hash(), r.UserID.Hash())
}

func (r *DeleteSessionRequest) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("BotName", r.BotName)
	w.str("BotAlias", r.BotAlias)
	w.str("UserId", r.UserID)
	return w.String()
}

// DeleteSessionResult identifies the session that was removed.
type DeleteSessionResult struct {
	BotName   types.NullableString `json:"botName,omitzero"`
	BotAlias  types.NullableString `json:"botAlias,omitzero"`
	UserID    types.NullableString `json:"userId,omitzero"`
	SessionID types.NullableString `json:"sessionId,omitzero"`
}

func (r *DeleteSessionResult) Equal(other *DeleteSessionResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.BotName.Equals(other.BotName) &&
		r.BotAlias.Equals(other.BotAlias) &&
		r.UserID.Equals(other.UserID) &&
		r.SessionID.Equals(other.SessionID)
}

func (r *DeleteSessionResult) Hash() uint64 {
	if r == nil {
		return 0
	}
	return types.HashFields(r.BotName.Hash(), r.BotAlias.Hash(), r.UserID.Hash(), r.SessionID.Hash())
}

func (r *DeleteSessionResult) String() string {
	if r == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("BotName", r.BotName)
	w.str("BotAlias", r.BotAlias)
	w.str("UserId", r.UserID)
	w.str("SessionId", r.SessionID)
	return w.String()
}
