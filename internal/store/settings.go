package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const settingJWTSecret = "jwt_secret"

// GetJWTSecret returns the token signing secret, generating and storing a
// random one on first use.
func (s *Store) GetJWTSecret(ctx context.Context) (string, error) {
	return s.setting(ctx, settingJWTSecret, func() (string, error) {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		return hex.EncodeToString(buf), nil
	})
}

// setting returns the value stored under key. When the key is missing it
// stores the result of generate. A concurrent first caller may win the
// insert, so the stored value is always read back.
func (s *Store) setting(ctx context.Context, key string, generate func() (string, error)) (string, error) {
	candidate, err := generate()
	if err != nil {
		return "", fmt.Errorf("generating setting %s: %w", key, err)
	}

	_, err = s.ext.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
		key, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}

	var value string
	if err := s.scalar(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key); err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}
