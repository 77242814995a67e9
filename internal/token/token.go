// Package token issues and verifies the HS256 JWT pair handed out by
// POST /api/token. Authorization downstream trusts Role and IsSuperuser
// without a database round trip, so every claim listed on Claims is mandatory.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"koalgroup/internal/model"
	"koalgroup/internal/policy"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrInvalid = errors.New("token invalido o expirado")
	ErrRevoked = errors.New("token revocado")
)

// Claims are the custom claims embedded in every token.
type Claims struct {
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	Role        string  `json:"role"`
	IDNumber    *string `json:"id_number"`
	IsSuperuser bool    `json:"is_superuser"`
	IsStaff     bool    `json:"is_staff"`
	TokenType   Type    `json:"token_type"`
	jwt.RegisteredClaims
}

// Caller converts verified claims into the policy identity.
func (c *Claims) Caller() (policy.Caller, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return policy.Caller{}, ErrInvalid
	}
	role := model.Role(c.Role)
	if !role.Valid() {
		return policy.Caller{}, ErrInvalid
	}
	return policy.Caller{ID: id, Username: c.Username, Role: role, IsSuperuser: c.IsSuperuser}, nil
}

// Pair is what a successful login or refresh returns.
type Pair struct {
	Access    string
	Refresh   string
	AccessTTL time.Duration
}

// Denylist remembers revoked refresh-token ids until they would have expired.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Issuer signs and verifies tokens with a shared HMAC secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	denylist   Denylist
	now        func() time.Time
}

type Option func(*Issuer)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer builds an Issuer. A nil denylist disables revocation.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration, denylist Denylist, opts ...Option) *Issuer {
	i := &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		denylist:   denylist,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs a fresh access/refresh pair for u.
func (i *Issuer) Issue(u *model.User) (*Pair, error) {
	access, err := i.sign(u, TypeAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(u, TypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &Pair{Access: access, Refresh: refresh, AccessTTL: i.accessTTL}, nil
}

// IssueAccess signs a lone access token, used by refresh without rotation.
func (i *Issuer) IssueAccess(u *model.User) (string, error) {
	return i.sign(u, TypeAccess, i.accessTTL)
}

func (i *Issuer) sign(u *model.User, typ Type, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		UserID:      u.ID.String(),
		Username:    u.Username,
		Role:        string(u.Role),
		IDNumber:    u.IDNumber,
		IsSuperuser: u.IsSuperuser,
		IsStaff:     u.IsStaff,
		TokenType:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Parse verifies signature, expiry and token type.
func (i *Issuer) Parse(raw string, want Type) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalid
	}
	if claims.TokenType != want {
		return nil, ErrInvalid
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token and checks the denylist.
func (i *Issuer) ParseRefresh(ctx context.Context, raw string) (*Claims, error) {
	claims, err := i.Parse(raw, TypeRefresh)
	if err != nil {
		return nil, err
	}
	if i.denylist == nil {
		return claims, nil
	}
	revoked, err := i.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("token: denylist lookup: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke puts a refresh token's id on the denylist until it expires.
func (i *Issuer) Revoke(ctx context.Context, claims *Claims) error {
	if i.denylist == nil {
		return nil
	}
	until := i.now().Add(i.refreshTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return i.denylist.Revoke(ctx, claims.ID, until)
}

// AccessTTL is the lifetime of issued access tokens.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }
