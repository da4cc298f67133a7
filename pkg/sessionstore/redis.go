package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

// maxPutAttempts bounds retries when a concurrent writer invalidates WATCH.
const maxPutAttempts = 3

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// redisStore keeps snappy-compressed JSON snapshots under one key per session
// and uses WATCH/MULTI/EXEC so a merge never loses a concurrent write.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

func (s *redisStore) key(k Key) string {
	return s.prefix + k.String()
}

func (s *redisStore) Get(ctx context.Context, key Key) (*Snapshot, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound.Msg("no snapshot for " + key.String())
	}
	if err != nil {
		return nil, ErrSessionStore.MsgErr("unable to read snapshot", err)
	}
	return decodeSnapshot(val)
}

func (s *redisStore) Put(ctx context.Context, snap *Snapshot) (bool, error) {
	if !snap.Key.valid() {
		return false, ErrInvalidKey.Msg("incomplete session key " + snap.Key.String())
	}
	k := s.key(snap.Key)
	var changed bool
	put := func(tx *redis.Tx) error {
		changed = false
		var prev *Snapshot
		val, err := tx.Get(ctx, k).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if prev, err = decodeSnapshot(val); err != nil {
				return err
			}
		}

		merged := snap.Merge(prev)
		if prev != nil && prev.Hash() == merged.Hash() && prev.Equal(merged) {
			return nil
		}
		merged.UpdatedAt = s.now()
		data, err := encodeSnapshot(merged)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, data, s.ttl)
			return nil
		})
		if err == nil {
			changed = true
		}
		return err
	}

	var err error
	for range maxPutAttempts {
		err = s.client.Watch(ctx, put, k)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, ErrSessionStore) {
			return false, err
		}
		return false, ErrSessionStore.MsgErr("unable to write snapshot", err)
	}
	return changed, nil
}

func (s *redisStore) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return ErrSessionStore.MsgErr("unable to delete snapshot", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

func encodeSnapshot(snap *Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, ErrSessionStore.MsgErr("unable to encode snapshot", err)
	}
	return snappy.Encode(nil, raw), nil
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, ErrSessionStore.MsgErr("corrupt snapshot", err)
	}
	snap := &Snapshot{}
	if err := snapshotJSON.Unmarshal(raw, snap); err != nil {
		return nil, ErrSessionStore.MsgErr("unable to decode snapshot", err)
	}
	return snap, nil
}
