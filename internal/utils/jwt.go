package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing for blacklist keys
	"encoding/hex"  // hex encoding of digests
	"errors"        // sentinel for invalid tokens
	"strconv"       // numeric subject parsing
	"time"          // expiry handling

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and sent in the Authorization header on
// every authenticated request.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the decoded payload of an access token: the subject user id
// plus the email and role carried for convenience.  Role is only
// trusted after the blacklist check has passed.
type Claims struct {
	UserID uint64
	Email  string
	Role   string
	Exp    time.Time
}

// ErrInvalidToken is returned by ParseAccessToken for any token that
// cannot be trusted: bad signature, wrong algorithm, expired, or a
// malformed payload.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  The payload
// carries the standard sub/exp/iat claims plus email and role.
func NewAccessToken(secret string, userID uint64, email, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and decodes the claims.
// Only HMAC-signed tokens are accepted; anything else is rejected with
// ErrInvalidToken.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	var c Claims
	// Numeric claims decode as float64; string subjects appear when a
	// token was minted elsewhere.  Accept both.
	switch sub := mc["sub"].(type) {
	case float64:
		c.UserID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return nil, ErrInvalidToken
		}
		c.UserID = n
	default:
		return nil, ErrInvalidToken
	}
	if c.UserID == 0 {
		return nil, ErrInvalidToken
	}
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	if expVal, ok := mc["exp"].(float64); ok {
		c.Exp = time.Unix(int64(expVal), 0).UTC()
	}
	return &c, nil
}

// HashToken returns the SHA-256 hash of a raw token as a hex string.
// The blacklist stores hashes rather than raw tokens so a leaked
// revocation store cannot be replayed as credentials.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
