package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fernet/fernet-go"
)

// SessionCookieName is the name of the cookie holding the encrypted session.
const SessionCookieName = "fund_ledger_session"

// Session is the per-browser state kept in the session cookie.
type Session struct {
	FundID string `json:"fundId,omitempty"`
}

type sessionKey struct{}

// SessionCodec encrypts and signs sessions into cookie values with fernet.
// Tokens older than the TTL are treated as absent.
type SessionCodec struct {
	keys []*fernet.Key
	ttl  time.Duration
}

// NewSessionCodec creates a codec for a base64 fernet key. An empty key
// generates a random one, so sessions end when the process restarts.
func NewSessionCodec(encodedKey string, ttl time.Duration) (*SessionCodec, error) {
	var key *fernet.Key
	if encodedKey == "" {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		log.Printf("SESSION_KEY not set, sessions will not survive a restart")
	} else {
		var err error
		key, err = fernet.DecodeKey(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_KEY: %w", err)
		}
	}

	if ttl <= 0 {
		return nil, fmt.Errorf("session TTL must be positive, got %s", ttl)
	}

	return &SessionCodec{keys: []*fernet.Key{key}, ttl: ttl}, nil
}

// Encode returns the cookie value of s.
func (c *SessionCodec) Encode(s Session) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	tok, err := fernet.EncryptAndSign(data, c.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt session: %w", err)
	}
	return string(tok), nil
}

// Decode returns the session of a cookie value. Tampered, foreign and
// expired values give ok == false.
func (c *SessionCodec) Decode(value string) (s Session, ok bool) {
	data := fernet.VerifyAndDecrypt([]byte(value), c.ttl, c.keys)
	if data == nil {
		return Session{}, false
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false
	}
	return s, true
}

// Write stores s in the session cookie of the response.
func (c *SessionCodec) Write(w http.ResponseWriter, r *http.Request, s Session) error {
	value, err := c.Encode(s)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Middleware decodes the session cookie into the request context.
// A missing or invalid cookie gives an empty session.
func (c *SessionCodec) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s Session
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			s, _ = c.Decode(cookie.Value)
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session decoded by Middleware, or an empty one.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}
