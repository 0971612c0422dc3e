package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure reasons. ErrSignatureMismatch is special: it is the
// only outcome that means "could not confirm authenticity locally" and so the
// only one the pipeline retries against the remote authority. Everything else
// is a content-level rejection of a token whose signature checked out (or
// never could), and is final.
var (
	ErrSignatureMismatch = errors.New("signature verification failed")
	ErrTokenMalformed    = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrIssuedInFuture    = errors.New("invalid token issue time")
	ErrTokenTooOld       = errors.New("token too old")
	ErrInvalidIssuer     = errors.New("invalid token issuer")
	ErrMissingClaim      = errors.New("token missing required claim")
)

// Claims are the verified token assertions the pipeline consumes.
type Claims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Verifier validates HS256 tokens against a primary and an optional
// secondary signing secret without any network I/O. Given the same secrets
// and clock it is pure: identical input yields identical output.
type Verifier struct {
	primary   []byte
	secondary []byte
	issuer    string
	leeway    time.Duration
	maxAge    time.Duration
	now       func() time.Time
}

// VerifierOpts configures a Verifier.
type VerifierOpts struct {
	PrimarySecret   string
	SecondarySecret string
	// Issuer is the expected token authority; tokens may carry it verbatim
	// or with an /auth/v1 suffix.
	Issuer string
	// Leeway absorbs clock skew on exp/iat checks.
	Leeway time.Duration
	// MaxAge rejects tokens older than this regardless of their expiry,
	// limiting the blast radius of a leaked long-lived token.
	MaxAge time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewVerifier constructs a Verifier.
func NewVerifier(opts VerifierOpts) *Verifier {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	leeway := opts.Leeway
	if leeway <= 0 {
		leeway = time.Minute
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Verifier{
		primary:   []byte(opts.PrimarySecret),
		secondary: []byte(opts.SecondarySecret),
		issuer:    opts.Issuer,
		leeway:    leeway,
		maxAge:    maxAge,
		now:       now,
	}
}

// Verify parses and validates a token. On success it returns the claims;
// otherwise one of the sentinel errors above, or an unexpected parser error
// which callers must treat like a signature mismatch (fail open to remote
// verification, never fail closed on an internal bug).
func (v *Verifier) Verify(token string) (*Claims, error) {
	claims, err := v.parse(token, v.primary)
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) && len(v.secondary) > 0 {
		claims, err = v.parse(token, v.secondary)
	}
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureMismatch
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			return nil, ErrIssuedInFuture
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, err
		}
	}
	return claims, v.validateClaims(claims)
}

func (v *Verifier) parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (v *Verifier) validateClaims(c *Claims) error {
	if iss := c.Issuer; iss != "" && v.issuer != "" {
		if iss != v.issuer && iss != v.issuer+"/auth/v1" {
			return ErrInvalidIssuer
		}
	}

	if c.IssuedAt != nil {
		age := v.now().Sub(c.IssuedAt.Time)
		if age > v.maxAge {
			return ErrTokenTooOld
		}
		if age < -v.leeway {
			return ErrIssuedInFuture
		}
	}

	if c.Subject == "" || c.Email == "" {
		return ErrMissingClaim
	}
	return nil
}
