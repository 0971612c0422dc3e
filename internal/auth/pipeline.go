package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// Request-level authentication failures, mapped to HTTP statuses by the
// transport layer.
var (
	ErrMissingAuthHeader = errors.New("access token required")
	ErrBadAuthHeader     = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrRateLimited       = errors.New("too many attempts")
	ErrStoreUnavailable  = errors.New("identity store unavailable")
)

const (
	resolveAttempts = 3
	resolveBackoff  = 500 * time.Millisecond
)

// trailingParenthetical matches a "(...)" suffix on a display name, e.g. the
// "(Personal)" in "Alice Smith (Personal)".
var trailingParenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// Pipeline authenticates a bearer token end to end: local verification with
// a remote fallback, rate limiting, identity caching, and first-login user
// provisioning.
type Pipeline struct {
	verifier   *Verifier
	remote     RemoteVerifier
	identities *IdentityCache
	limiter    *RateLimiter
	users      repository.UserRepository
	log        zerolog.Logger
	sleep      func(time.Duration)
}

// NewPipeline constructs a Pipeline.
func NewPipeline(
	verifier *Verifier,
	remote RemoteVerifier,
	identities *IdentityCache,
	limiter *RateLimiter,
	users repository.UserRepository,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		verifier:   verifier,
		remote:     remote,
		identities: identities,
		limiter:    limiter,
		users:      users,
		log:        log,
		sleep:      time.Sleep,
	}
}

// Authenticate resolves an Authorization header to an internal user.
// clientID identifies the caller for rate-limiting purposes, typically the
// client IP.
func (p *Pipeline) Authenticate(ctx context.Context, authHeader, clientID string) (*model.User, error) {
	token, err := bearerToken(authHeader)
	if err != nil {
		return nil, err
	}

	if !p.limiter.AllowFailed(clientID) {
		return nil, ErrRateLimited
	}

	subject, email, meta, err := p.verifyToken(ctx, token, clientID)
	if err != nil {
		if !errors.Is(err, ErrRateLimited) {
			p.limiter.RecordFailed(clientID)
		}
		return nil, err
	}

	// Store failures past this point are server-side and do not count
	// against the client's failed-attempt budget.
	user, err := p.resolveUser(ctx, subject, email, meta)
	if err != nil {
		return nil, err
	}

	p.limiter.Reset(clientID)
	return user, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", ErrBadAuthHeader
	}
	return token, nil
}

// verifyToken runs local verification first and consults the remote
// authority only when the local outcome is a signature mismatch or an
// unexpected verifier failure. Content-level rejections (expired, malformed,
// wrong issuer) are final: the remote authority would reject those tokens
// too, so a round trip buys nothing.
func (p *Pipeline) verifyToken(ctx context.Context, token, clientID string) (subject, email string, meta map[string]any, err error) {
	claims, verr := p.verifier.Verify(token)
	if verr == nil {
		return claims.Subject, claims.Email, claims.UserMetadata, nil
	}

	switch {
	case errors.Is(verr, ErrTokenExpired),
		errors.Is(verr, ErrTokenMalformed),
		errors.Is(verr, ErrIssuedInFuture),
		errors.Is(verr, ErrTokenTooOld),
		errors.Is(verr, ErrInvalidIssuer),
		errors.Is(verr, ErrMissingClaim):
		return "", "", nil, ErrInvalidToken
	}

	if p.remote == nil {
		return "", "", nil, ErrInvalidToken
	}
	if !p.limiter.AllowFallback(clientID) {
		return "", "", nil, ErrRateLimited
	}
	p.limiter.RecordFallback(clientID)

	p.log.Warn().Err(verr).Msg("local token verification inconclusive, falling back to remote")
	identity, rerr := p.remote.VerifyToken(ctx, token)
	if rerr != nil {
		p.log.Warn().Err(rerr).Msg("remote token verification failed")
		return "", "", nil, ErrInvalidToken
	}
	return identity.Subject, identity.Email, identity.Metadata, nil
}

// resolveUser maps a verified identity to an internal user, creating the
// user and their default data room on first login. Transient store failures
// are retried with increasing backoff.
func (p *Pipeline) resolveUser(ctx context.Context, subject, email string, meta map[string]any) (*model.User, error) {
	var lastErr error
	for attempt := 1; attempt <= resolveAttempts; attempt++ {
		user, err := p.lookupOrCreate(ctx, subject, email, meta)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrUnavailable) {
			return nil, err
		}
		lastErr = err
		if attempt < resolveAttempts {
			p.sleep(time.Duration(attempt) * resolveBackoff)
		}
	}
	p.log.Error().Err(lastErr).Msg("identity store unavailable after retries")
	return nil, ErrStoreUnavailable
}

func (p *Pipeline) lookupOrCreate(ctx context.Context, subject, email string, meta map[string]any) (*model.User, error) {
	if id, ok := p.identities.Get(subject); ok {
		user, err := p.users.FindByID(ctx, id)
		if err == nil && user.Subject == subject {
			return user, nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// Stale entry: the user was deleted or re-keyed since caching.
		p.identities.Invalidate(subject)
	}

	user, err := p.users.FindBySubject(ctx, subject)
	if err == nil {
		p.identities.Put(subject, user.ID)
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// A user may predate external auth: match on email and attach the
	// subject so subsequent logins hit the fast path.
	user, err = p.users.FindByEmail(ctx, email)
	if err == nil {
		if user.Subject == "" {
			if err := p.users.SetSubject(ctx, user.ID, subject); err != nil {
				return nil, err
			}
			user.Subject = subject
		}
		p.identities.Put(subject, user.ID)
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return p.createUser(ctx, subject, email, meta)
}

func (p *Pipeline) createUser(ctx context.Context, subject, email string, meta map[string]any) (*model.User, error) {
	name := displayName(meta, email)
	now := time.Now().UTC()
	newUser := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Subject:   subject,
		Name:      name,
		CreatedAt: now,
	}
	room := &model.DataRoom{
		ID:        uuid.NewString(),
		OwnerID:   newUser.ID,
		Name:      fmt.Sprintf("Data Room (%s)", name),
		CreatedAt: now,
	}

	created, _, err := p.users.CreateWithDataRoom(ctx, newUser, room)
	if err == nil {
		p.log.Info().Str("user_id", created.ID).Msg("provisioned user with default data room")
		p.identities.Put(subject, created.ID)
		return created, nil
	}
	if !repository.IsConflict(err) {
		return nil, err
	}

	// Lost a first-login race with a concurrent request; the winner's row
	// is the one to use.
	user, rerr := p.users.FindBySubject(ctx, subject)
	if rerr != nil {
		return nil, rerr
	}
	p.identities.Put(subject, user.ID)
	return user, nil
}

// displayName derives a human-readable name from token metadata, falling
// back to the email local part. A trailing parenthetical is stripped so that
// the default data room name does not nest parentheses.
func displayName(meta map[string]any, email string) string {
	name := ""
	if meta != nil {
		if v, ok := meta["full_name"].(string); ok {
			name = strings.TrimSpace(v)
		}
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	name = strings.TrimSpace(trailingParenthetical.ReplaceAllString(name, ""))
	if name == "" {
		name = "User"
	}
	return name
}
