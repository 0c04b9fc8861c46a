package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// MinSecretLen is the smallest shared secret usable for HS256; go-jose
// rejects shorter keys when signing and verifying.
const MinSecretLen = 32

// Claims is the caller identity carried in a bearer token. Only UserName is
// consumed by the service; authorization reduces to "is this caller the
// owner or the admin sentinel".
type Claims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	UserName  string `json:"userName"`
}

// Verifier checks HMAC-signed bearer tokens against a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a verifier for the shared secret, or nil when the
// secret is empty, which disables token verification entirely. The secret
// must be at least MinSecretLen bytes; callers validate that at startup.
func NewVerifier(secret string) *Verifier {
	if secret == "" {
		return nil
	}
	return &Verifier{secret: []byte(secret)}
}

// Verify checks the signature and expiry of a token and returns its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	tok, err := jwt.ParseSigned(tokenString, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := &Claims{}
	if err := tok.Claims(v.secret, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if claims.ExpiresAt > 0 && claims.ExpiresAt < time.Now().Unix() {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// Sign builds a signed token for the given claims. Used by local tooling
// and tests; production tokens come from the identity provider.
func (v *Verifier) Sign(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims cannot be nil")
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: v.secret}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create signer: %w", err)
	}

	token, err := jwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
