package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"andino/models"

	"github.com/go-redis/redis/v8"
)

// Wizard sessions live for 30 minutes of inactivity, matching the checkout
// hold window.
const sessionTTL = 30 * time.Minute

// SessionStore persists wizard sessions as JSON blobs in Redis.
type SessionStore struct {
	Client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{Client: client}
}

// Save marshals the session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, sess *models.WizardSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Client.Set(ctx, sess.SessionID, string(data), sessionTTL).Err(); err != nil {
		return &TransientError{Op: "session store", Err: err}
	}
	return nil
}

// Get loads a session by id.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	data, err := s.Client.Get(ctx, sessionID).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, &TransientError{Op: "session store", Err: err}
	}
	var sess models.WizardSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session; abandoning a wizard has no server-side effect
// beyond this.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, sessionID).Err(); err != nil {
		return &TransientError{Op: "session store", Err: err}
	}
	return nil
}

// AcquireSubmitLock takes the per-session submit latch. The latch, not caller
// discipline, is what rejects a double-click: only the first caller gets true.
func (s *SessionStore) AcquireSubmitLock(ctx context.Context, sessionID string) (bool, error) {
	ok, err := s.Client.SetNX(ctx, "submit:"+sessionID, "1", sessionTTL).Result()
	if err != nil {
		return false, &TransientError{Op: "session store", Err: err}
	}
	return ok, nil
}

// ReleaseSubmitLock frees the latch so a declined payment can be retried with
// another method.
func (s *SessionStore) ReleaseSubmitLock(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, "submit:"+sessionID).Err(); err != nil {
		return &TransientError{Op: "session store", Err: err}
	}
	return nil
}
