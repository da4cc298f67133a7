package api

import (
	"context"

	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tansive/lexruntime/pkg/sessionstore"
	"github.com/tansive/lexruntime/pkg/types"
)

// PostText sends one turn of typed input.
func (c *Client) PostText(ctx context.Context, req *lexruntime.PostTextRequest) (*lexruntime.PostTextResult, error) {
	res := &lexruntime.PostTextResult{}
	if err := c.invoke(ctx, req, res); err != nil {
		return nil, err
	}
	c.record(ctx, func() (*sessionstore.Snapshot, error) {
		return sessionstore.FromPostText(sessionKey(req.BotName, req.BotAlias, req.UserID), res), nil
	})
	return res, nil
}

// PostContent sends one turn of text or audio from req.InputStream, which is
// consumed. When the result carries audio the caller owns
// res.AudioStream and must close it.
func (c *Client) PostContent(ctx context.Context, req *lexruntime.PostContentRequest) (*lexruntime.PostContentResult, error) {
	res := &lexruntime.PostContentResult{}
	if err := c.invoke(ctx, req, res); err != nil {
		return nil, err
	}
	c.record(ctx, func() (*sessionstore.Snapshot, error) {
		return sessionstore.FromPostContent(sessionKey(req.BotName, req.BotAlias, req.UserID), res)
	})
	return res, nil
}

// PutSession creates or replaces the session. Any audio prompt in the result
// is owned by the caller.
func (c *Client) PutSession(ctx context.Context, req *lexruntime.PutSessionRequest) (*lexruntime.PutSessionResult, error) {
	res := &lexruntime.PutSessionResult{}
	if err := c.invoke(ctx, req, res); err != nil {
		return nil, err
	}
	c.record(ctx, func() (*sessionstore.Snapshot, error) {
		return sessionstore.FromPutSession(sessionKey(req.BotName, req.BotAlias, req.UserID), res)
	})
	return res, nil
}

// GetSession reads the session state.
func (c *Client) GetSession(ctx context.Context, req *lexruntime.GetSessionRequest) (*lexruntime.GetSessionResult, error) {
	res := &lexruntime.GetSessionResult{}
	if err := c.invoke(ctx, req, res); err != nil {
		return nil, err
	}
	c.record(ctx, func() (*sessionstore.Snapshot, error) {
		return sessionstore.FromGetSession(sessionKey(req.BotName, req.BotAlias, req.UserID), res), nil
	})
	return res, nil
}

// DeleteSession removes the session on the service and from the session store.
func (c *Client) DeleteSession(ctx context.Context, req *lexruntime.DeleteSessionRequest) (*lexruntime.DeleteSessionResult, error) {
	res := &lexruntime.DeleteSessionResult{}
	if err := c.invoke(ctx, req, res); err != nil {
		return nil, err
	}
	if c.config.store != nil {
		key := sessionKey(req.BotName, req.BotAlias, req.UserID)
		if err := c.config.store.Delete(ctx, key); err != nil {
			c.config.logger.Warn().Err(err).Str("session", key.String()).Msg("unable to drop session snapshot")
		}
	}
	return res, nil
}

// Session returns the stored view of a session. It requires WithSessionStore.
func (c *Client) Session(ctx context.Context, botName, botAlias, userID string) (*sessionstore.Snapshot, error) {
	if c.config.store == nil {
		return nil, ErrInvalidConfig.Msg("no session store configured")
	}
	return c.config.store.Get(ctx, sessionstore.Key{BotName: botName, BotAlias: botAlias, UserID: userID})
}

func sessionKey(bot, alias, user types.NullableString) sessionstore.Key {
	return sessionstore.Key{BotName: bot.Value, BotAlias: alias.Value, UserID: user.Value}
}
