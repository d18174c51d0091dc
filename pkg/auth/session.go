// Package auth provides wallet sessions for the catalog API.
//
// A session records which wallet signed in and when. Only an encrypted
// session ID travels in the cookie; the record itself lives in Redis under
// "catalog:session:<id>" and expires with the cookie.
//
// Session keys should be 32 or 64 bytes for HMAC authentication,
// and 16, 24, or 32 bytes for AES encryption. Generate them with:
//
//	openssl rand -base64 32
package auth

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "catalog:session:"
	// DefaultSessionTTL is how long a wallet stays signed in.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// sessionSignedInKey holds the sign-in time as Unix seconds.
	sessionSignedInKey = "signed_in_at"
)

// ErrInvalidWallet is returned by SignIn for a malformed wallet address.
var ErrInvalidWallet = errors.New("invalid wallet address")

// errNoSession marks a missing or expired server-side record.
var errNoSession = errors.New("session not found")

// sessionBackend is the key-value store holding session records.
type sessionBackend interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	del(ctx context.Context, key string) error
}

type redisBackend struct {
	client *redis.Client
}

func (b redisBackend) get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errNoSession
	}
	return data, err
}

func (b redisBackend) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b redisBackend) del(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

// walletRecord is the stored form of a session.
type walletRecord struct {
	Wallet     string    `json:"wallet"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// RedisStore is a sessions.Store that keeps wallet records in Redis.
// Values other than the wallet and its sign-in time are not persisted.
type RedisStore struct {
	backend sessionBackend
	codecs  []securecookie.Codec
	options *sessions.Options
}

// NewSessionStore creates a Redis-backed wallet session store. Cookies are
// HttpOnly and SameSite Lax; secureCookie restricts them to HTTPS.
//
//	store := auth.NewSessionStore(
//	    app.Redis.Client(),
//	    []byte(cfg.SessionAuthKey),
//	    []byte(cfg.SessionEncryptionKey),
//	    cfg.Environment == config.EnvProduction,
//	)
func NewSessionStore(client *redis.Client, authKey, encryptionKey []byte, secureCookie bool) *RedisStore {
	return newStore(redisBackend{client: client}, authKey, encryptionKey, secureCookie)
}

func newStore(backend sessionBackend, authKey, encryptionKey []byte, secureCookie bool) *RedisStore {
	return &RedisStore{
		backend: backend,
		codecs:  securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(DefaultSessionTTL / time.Second),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the request's session, loading it once per request.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New builds a session from the request cookie. A missing, tampered or
// expired cookie yields a fresh session without error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	rec, err := s.load(r.Context(), id)
	if errors.Is(err, errNoSession) {
		return session, nil
	}
	if err != nil {
		return session, err
	}
	session.ID = id
	session.Values[SessionWalletKey] = rec.Wallet
	session.Values[sessionSignedInKey] = rec.SignedInAt.Unix()
	session.IsNew = false
	return session, nil
}

// Save stores the wallet record and writes the session cookie. A negative
// MaxAge signs the wallet out and clears both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.del(r.Context(), sessionKeyPrefix+session.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
			"=",
		)
	}

	rec := walletRecord{SignedInAt: time.Now().UTC()}
	rec.Wallet, _ = session.Values[SessionWalletKey].(string)
	if at, ok := session.Values[sessionSignedInKey].(int64); ok {
		rec.SignedInAt = time.Unix(at, 0).UTC()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.backend.set(r.Context(), sessionKeyPrefix+session.ID, raw, ttl); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string) (walletRecord, error) {
	var rec walletRecord
	data, err := s.backend.get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode session: %w", err)
	}
	return rec, nil
}

// SignIn binds wallet to the request's session and writes the cookie.
func SignIn(w http.ResponseWriter, r *http.Request, store sessions.Store, wallet string) error {
	if err := walletValidator.Var(wallet, "eth_addr"); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWallet, wallet)
	}
	session, err := store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	session.Values[SessionWalletKey] = strings.ToLower(wallet)
	session.Values[sessionSignedInKey] = time.Now().Unix()
	return session.Save(r, w)
}
