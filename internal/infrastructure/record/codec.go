// Package record encodes the persisted session identity.
//
// PlainCodec stores the identity as bare JSON and trusts whatever it reads
// back. SignedCodec wraps the identity in an HS256 token with an expiry so a
// tampered or stale record is rejected on restore.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quantiva/dashboard/internal/core/domain"
)

// PlainCodec is the JSON {"id","name","email"} record with no version tag and
// no checksum.
type PlainCodec struct{}

func (PlainCodec) Encode(identity domain.Identity) ([]byte, error) {
	return json.Marshal(identity)
}

func (PlainCodec) Decode(data []byte) (domain.Identity, error) {
	var identity domain.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)
	}
	return identity, nil
}

type identityClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SignedCodec persists the identity as a signed, expiring token.
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedCodec returns a codec signing with secret. A ttl of zero issues
// records that never expire.
func NewSignedCodec(secret []byte, ttl time.Duration) (*SignedCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("record: signing secret is required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("record: ttl must not be negative, got %s", ttl)
	}
	return &SignedCodec{secret: secret, ttl: ttl, now: time.Now}, nil
}

func (c *SignedCodec) Encode(identity domain.Identity) ([]byte, error) {
	now := c.now()
	claims := identityClaims{
		Name:  identity.DisplayName,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  identity.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session record: %w", err)
	}
	return []byte(signed), nil
}

func (c *SignedCodec) Decode(data []byte) (domain.Identity, error) {
	var claims identityClaims
	_, err := jwt.ParseWithClaims(string(data), &claims,
		func(token *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrRecordExpired
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)
	}

	return domain.Identity{
		ID:          claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}, nil
}
