package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
)

// Storage keys for the persisted session. These are the only keys the session
// layer owns; the message ledgers use their own per-user keys.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserMirror   = "skilllink_user"
)

// CredentialStore owns the persisted token pair and the mirrored user record.
// Any path that clears one clears all three; the tokens are never partially
// present by design.
type CredentialStore struct {
	kv  ports.KeyValue
	log zerolog.Logger
}

func NewCredentialStore(kv ports.KeyValue, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{kv: kv, log: log}
}

// SetTokens stores a fresh token pair.
func (c *CredentialStore) SetTokens(access, refresh string) error {
	if err := c.kv.Set(keyAccessToken, access); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := c.kv.Set(keyRefreshToken, refresh); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// StoreAccessToken replaces only the access token. Used by the refresh path.
func (c *CredentialStore) StoreAccessToken(token string) error {
	if err := c.kv.Set(keyAccessToken, token); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	return nil
}

func (c *CredentialStore) AccessToken() string {
	v, _ := c.kv.Get(keyAccessToken)
	return v
}

func (c *CredentialStore) RefreshToken() string {
	v, _ := c.kv.Get(keyRefreshToken)
	return v
}

// SetUser updates the mirrored user record.
func (c *CredentialStore) SetUser(u domain.User) error {
	data, err := domain.EncodeUser(u)
	if err != nil {
		return err
	}
	if err := c.kv.Set(keyUserMirror, string(data)); err != nil {
		return fmt.Errorf("store user mirror: %w", err)
	}
	return nil
}

// StoredUser returns the mirrored user record, or nil when it is absent or
// unreadable. Corruption is treated as absence, never surfaced as an error.
func (c *CredentialStore) StoredUser() domain.User {
	data, ok := c.kv.Get(keyUserMirror)
	if !ok {
		return nil
	}
	u, err := domain.DecodeUser([]byte(data))
	if err != nil {
		c.log.Warn().Err(err).Msg("discarding unreadable user mirror")
		return nil
	}
	return u
}

// Clear removes the token pair and the user mirror together.
func (c *CredentialStore) Clear() {
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUserMirror} {
		if err := c.kv.Delete(key); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("failed to clear credential key")
		}
	}
}
