package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification errors. Renew and the auth middleware collapse all of
// them into a single unauthenticated result before anything reaches a client;
// the distinction exists for diagnostics and tests only.
var (
	// ErrTokenMalformed is returned when a token string cannot be parsed or decoded.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenSignatureInvalid is returned when the signature does not verify against the configured secret.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	// ErrTokenExpired is returned when the embedded expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the fixed claim shape carried by both access and refresh tokens:
// subject identifier, display label, issued-at, and expires-at. Tokens whose
// payload does not carry all required fields are rejected on verify.
type Claims struct {
	jwt.RegisteredClaims
	// Label is the principal's display label (the original system stores the login here).
	Label string `json:"login"`
}

// Codec signs and verifies compact HS256 tokens. Access and refresh tokens
// share the same shape and differ only in TTL; the codec itself is stateless
// and never touches the session store.
type Codec struct {
	secret []byte
	nowF   func() time.Time
}

// NewCodec returns a Codec that signs with the given HMAC secret.
// The secret comes from process configuration, injected once at startup.
func NewCodec(secret []byte) *Codec {
	return &Codec{
		secret: secret,
		nowF:   func() time.Time { return time.Now().UTC() },
	}
}

// Sign mints a token for subject with the given display label and an absolute
// expiry of now+ttl. Pure function of its inputs and the configured secret.
func (c *Codec) Sign(subject, label string, ttl time.Duration) (string, error) {
	now := c.nowF()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Label: label,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token. It returns ErrTokenMalformed,
// ErrTokenSignatureInvalid, or ErrTokenExpired; on success it returns the
// claim bundle unchanged. Only HS256 is accepted; required claims (sub, iat,
// exp) must all be present.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.nowF),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
