package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrimarySecret   = "primary-secret"
	testSecondarySecret = "secondary-secret"
	testIssuer          = "https://auth.example.com"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	return NewVerifier(VerifierOpts{
		PrimarySecret:   testPrimarySecret,
		SecondarySecret: testSecondarySecret,
		Issuer:          testIssuer,
		Leeway:          time.Minute,
		MaxAge:          24 * time.Hour,
		Now:             func() time.Time { return testNow },
	})
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "subject-1",
		"email": "alice@example.com",
		"iss":   testIssuer,
		"iat":   testNow.Add(-time.Hour).Unix(),
		"exp":   testNow.Add(time.Hour).Unix(),
	}
}

func TestVerifyPrimarySecret(t *testing.T) {
	v := newTestVerifier(t)

	claims, err := v.Verify(signToken(t, testPrimarySecret, baseClaims()))

	require.NoError(t, err)
	assert.Equal(t, "subject-1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestVerifySecondarySecret(t *testing.T) {
	v := newTestVerifier(t)

	claims, err := v.Verify(signToken(t, testSecondarySecret, baseClaims()))

	require.NoError(t, err)
	assert.Equal(t, "subject-1", claims.Subject)
}

func TestVerifyUnknownSecret(t *testing.T) {
	v := newTestVerifier(t)

	_, err := v.Verify(signToken(t, "some-other-secret", baseClaims()))

	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyDeterministic(t *testing.T) {
	v := newTestVerifier(t)
	token := signToken(t, "some-other-secret", baseClaims())

	for range 5 {
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	}
}

func TestVerifyExpired(t *testing.T) {
	v := newTestVerifier(t)
	claims := baseClaims()
	claims["exp"] = testNow.Add(-time.Hour).Unix()

	_, err := v.Verify(signToken(t, testPrimarySecret, claims))

	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyExpiredWithinLeeway(t *testing.T) {
	v := newTestVerifier(t)
	claims := baseClaims()
	claims["exp"] = testNow.Add(-30 * time.Second).Unix()

	_, err := v.Verify(signToken(t, testPrimarySecret, claims))

	assert.NoError(t, err)
}

func TestVerifyIssuedInFuture(t *testing.T) {
	v := newTestVerifier(t)
	claims := baseClaims()
	claims["iat"] = testNow.Add(10 * time.Minute).Unix()

	_, err := v.Verify(signToken(t, testPrimarySecret, claims))

	assert.ErrorIs(t, err, ErrIssuedInFuture)
}

func TestVerifyTooOld(t *testing.T) {
	v := newTestVerifier(t)
	claims := baseClaims()
	claims["iat"] = testNow.Add(-25 * time.Hour).Unix()
	claims["exp"] = testNow.Add(time.Hour).Unix()

	_, err := v.Verify(signToken(t, testPrimarySecret, claims))

	assert.ErrorIs(t, err, ErrTokenTooOld)
}

func TestVerifyIssuer(t *testing.T) {
	tests := []struct {
		name    string
		issuer  any
		wantErr error
	}{
		{"exact match", testIssuer, nil},
		{"auth suffix", testIssuer + "/auth/v1", nil},
		{"wrong issuer", "https://evil.example.com", ErrInvalidIssuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVerifier(t)
			claims := baseClaims()
			claims["iss"] = tt.issuer

			_, err := v.Verify(signToken(t, testPrimarySecret, claims))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyMissingClaims(t *testing.T) {
	v := newTestVerifier(t)
	claims := baseClaims()
	delete(claims, "email")

	_, err := v.Verify(signToken(t, testPrimarySecret, claims))

	assert.ErrorIs(t, err, ErrMissingClaim)
}

func TestVerifyMalformed(t *testing.T) {
	v := newTestVerifier(t)

	_, err := v.Verify("not.a.token")

	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	v := newTestVerifier(t)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, baseClaims())
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(signed)

	assert.ErrorIs(t, err, ErrSignatureMismatch)
}
