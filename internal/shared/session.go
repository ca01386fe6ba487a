package shared

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionManager stores opaque bearer tokens in Redis. The SPA keeps the
// token in local storage and sends it back in the Authorization header.
type SessionManager struct {
	client *redis.Client
	ttl    time.Duration
	secret []byte
}

// Session holds the authenticated state attached to a bearer token.
type Session struct {
	Token    string    `json:"-"`
	UserID   int64     `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
	LastSeen time.Time `json:"last_seen"`
	IP       string    `json:"ip,omitempty"`
	UA       string    `json:"ua,omitempty"`
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{client: client, ttl: ttl, secret: []byte(secret)}
}

// Issue creates and persists a new session for the user.
func (sm *SessionManager) Issue(ctx context.Context, userID int64, ip, ua string) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		Token:    sm.generateToken(),
		UserID:   userID,
		IssuedAt: now,
		LastSeen: now,
		IP:       ip,
		UA:       ua,
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := sm.client.Set(ctx, sm.redisKey(sess.Token), data, sm.ttl).Err(); err != nil {
		return nil, err
	}
	return sess, nil
}

// Load resolves the bearer token on the request to a session.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	token := BearerToken(r)
	if token == "" {
		return nil, ErrTokenMissing
	}
	payload, err := sm.client.Get(ctx, sm.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, err
	}
	sess.Token = token
	return &sess, nil
}

// Touch refreshes the last-seen timestamp and slides the TTL window.
func (sm *SessionManager) Touch(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	sess.LastSeen = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return sm.client.Set(ctx, sm.redisKey(sess.Token), data, sm.ttl).Err()
}

// Revoke deletes the session so the token can no longer authenticate.
func (sm *SessionManager) Revoke(ctx context.Context, token string) error {
	if err := sm.client.Del(ctx, sm.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// TTL exposes the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (sm *SessionManager) redisKey(token string) string {
	return "session:" + token
}

func (sm *SessionManager) generateToken() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	if len(sm.secret) > 0 {
		for i := range b {
			b[i] ^= sm.secret[i%len(sm.secret)]
		}
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
