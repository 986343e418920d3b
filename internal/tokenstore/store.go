package tokenstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	NamespaceAccess  = "access_token"
	NamespaceRefresh = "refresh_token"
)

// Store mirrors issued tokens so they can be revoked before they expire.
// A token is only considered live while its mirror entry exists.
type Store interface {
	Save(ctx context.Context, namespace, subject, token string, ttl time.Duration) error
	Exists(ctx context.Context, namespace, subject, token string) (bool, error)
	Delete(ctx context.Context, namespace, subject, token string) error
	RevokeSubject(ctx context.Context, subject string) (int, error)
}

// Key builds the mirror key for a token. Tokens are hashed so the raw
// credential never reaches the store.
func Key(namespace, subject, token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%s:%s:%s", namespace, subject, hex.EncodeToString(sum[:]))
}

func subjectPattern(subject string) string {
	return fmt.Sprintf("*:%s:*", subject)
}
