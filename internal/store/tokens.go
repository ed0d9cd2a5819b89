package store

import (
	"context"
	"fmt"
	"time"
)

// RevokeToken blocks the token with the given ID until it would have
// expired anyway. Entries past their expiry are pruned on the way.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.Tx(ctx, func(tx *Store) error {
		_, err := tx.ext.ExecContext(ctx,
			`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
			 ON CONFLICT (jti) DO UPDATE SET expires_at = MAX(expires_at, excluded.expires_at)`,
			jti, expiresAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("revoking token: %w", err)
		}

		if _, err := tx.PruneRevokedTokens(ctx); err != nil {
			return err
		}
		return nil
	})
}

// PruneRevokedTokens deletes revocations whose tokens have expired and
// reports how many were removed.
func (s *Store) PruneRevokedTokens(ctx context.Context) (int64, error) {
	res, err := s.ext.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, s.now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning revoked tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning revoked tokens: %w", err)
	}
	return n, nil
}

// IsTokenRevoked reports whether the token with the given ID was revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.scalar(ctx, &revoked,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
