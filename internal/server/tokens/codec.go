// Package tokens mints and verifies the access/refresh JWT pair. The two
// tokens are signed with independent keys and carry distinct audiences, so
// an access token can never be presented as a refresh token.
package tokens

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// Identity is the claim projection of an account: the only account data a
// token carries. It is rebuilt from the account on every mint.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	IsActivated bool   `json:"isActivated"`
}

// Claims is the JWT payload for both token kinds.
type Claims struct {
	jwt.RegisteredClaims
	Identity
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// CodecConfig is the signing setup. Secrets must be non-empty and distinct.
type CodecConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

type Codec struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now for minting and verification.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(cfg CodecConfig, opts ...Option) (*Codec, error) {
	switch {
	case cfg.AccessSecret == "" || cfg.RefreshSecret == "":
		return nil, fmt.Errorf("%w: signing secrets must be set", common.ErrInvalidCodecConfig)
	case cfg.AccessSecret == cfg.RefreshSecret:
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", common.ErrInvalidCodecConfig)
	case cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0:
		return nil, fmt.Errorf("%w: token lifetimes must be positive", common.ErrInvalidCodecConfig)
	}

	c := &Codec{
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RefreshTTL is how long a freshly minted refresh token stays valid.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// Mint signs a new pair for id. Every call yields distinct tokens, even
// within the same second, because each one carries a random jti.
func (c *Codec) Mint(id Identity) (*TokenPair, error) {
	now := c.now()

	access, accessExp, err := c.sign(id, audienceAccess, c.accessKey, now, c.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExp, err := c.sign(id, audienceRefresh, c.refreshKey, now, c.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (c *Codec) sign(id Identity, audience string, key []byte, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   id.ID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Identity: id,
	})

	s, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// VerifyAccess reports the identity inside a well-formed, unexpired access
// token. Any defect yields false; it never returns an error.
func (c *Codec) VerifyAccess(token string) (Identity, bool) {
	return c.verify(token, audienceAccess, c.accessKey)
}

// VerifyRefresh is VerifyAccess for the refresh signing domain.
func (c *Codec) VerifyRefresh(token string) (Identity, bool) {
	return c.verify(token, audienceRefresh, c.refreshKey)
}

func (c *Codec) verify(tokenString, audience string, key []byte) (Identity, bool) {
	if tokenString == "" {
		return Identity{}, false
	}

	claims := &Claims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, parserOpts...)
	if err != nil || !token.Valid {
		return Identity{}, false
	}
	if claims.Subject != claims.Identity.ID {
		return Identity{}, false
	}

	return claims.Identity, true
}
