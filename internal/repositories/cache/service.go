package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cardfields/internal/frames"
	"cardfields/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds sessions and the latest snapshot reported by each of
// their frames. Remote errors are stored apart from snapshots so a frame
// update never clears them.
type SessionStore interface {
	SaveSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error

	PutFrame(ctx context.Context, sessionID string, kind frames.Kind, snap frames.Snapshot) error
	RemoveFrame(ctx context.Context, sessionID string, kind frames.Kind) error
	GetFrames(ctx context.Context, sessionID string) (map[frames.Kind]frames.Snapshot, error)
	SetRemoteErrors(ctx context.Context, sessionID string, kind frames.Kind, errs []frames.RemoteError) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a redis session store. Every write refreshes the
// session's expiry to ttl.
func NewSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string      { return "cardfields:session:" + id }
func framesKey(id string) string       { return sessionKey(id) + ":frames" }
func remoteErrorsKey(id string) string { return sessionKey(id) + ":remote_errors" }

func (s *redisStore) SaveSession(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err()
}

func (s *redisStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *redisStore) DeleteSession(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id), framesKey(id), remoteErrorsKey(id)).Err()
}

func (s *redisStore) PutFrame(ctx context.Context, sessionID string, kind frames.Kind, snap frames.Snapshot) error {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return err
	}

	snap.RemoteErrors = nil
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, framesKey(sessionID), kind.String(), data)
		s.touch(ctx, p, sessionID)
		return nil
	})
	return err
}

func (s *redisStore) RemoveFrame(ctx context.Context, sessionID string, kind frames.Kind) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, framesKey(sessionID), kind.String())
		p.HDel(ctx, remoteErrorsKey(sessionID), kind.String())
		return nil
	})
	return err
}

func (s *redisStore) GetFrames(ctx context.Context, sessionID string) (map[frames.Kind]frames.Snapshot, error) {
	raw, err := s.client.HGetAll(ctx, framesKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get frames: %w", err)
	}
	remote, err := s.client.HGetAll(ctx, remoteErrorsKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get remote errors: %w", err)
	}
	return decodeFrames(raw, remote)
}

func (s *redisStore) SetRemoteErrors(ctx context.Context, sessionID string, kind frames.Kind, errs []frames.RemoteError) error {
	if len(errs) == 0 {
		return s.client.HDel(ctx, remoteErrorsKey(sessionID), kind.String()).Err()
	}

	data, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("failed to marshal remote errors: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, remoteErrorsKey(sessionID), kind.String(), data)
		s.touch(ctx, p, sessionID)
		return nil
	})
	return err
}

func (s *redisStore) ensureSession(ctx context.Context, id string) error {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *redisStore) touch(ctx context.Context, p redis.Pipeliner, id string) {
	p.Expire(ctx, sessionKey(id), s.ttl)
	p.Expire(ctx, framesKey(id), s.ttl)
	p.Expire(ctx, remoteErrorsKey(id), s.ttl)
}

// decodeFrames parses the frames and remote error hashes. Fields with an
// unknown kind name are skipped.
func decodeFrames(raw, remote map[string]string) (map[frames.Kind]frames.Snapshot, error) {
	out := make(map[frames.Kind]frames.Snapshot, len(raw))
	for name, data := range raw {
		kind, ok := frames.ParseKind(name)
		if !ok {
			continue
		}
		var snap frames.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s snapshot: %w", name, err)
		}
		if errData, ok := remote[name]; ok {
			if err := json.Unmarshal([]byte(errData), &snap.RemoteErrors); err != nil {
				return nil, fmt.Errorf("failed to unmarshal %s remote errors: %w", name, err)
			}
		}
		out[kind] = snap
	}
	return out, nil
}
