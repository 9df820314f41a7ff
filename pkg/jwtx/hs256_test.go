package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/snazzyfellas/auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	exampleIssuer = "https://auth.snazzyfellas.com"
	exampleSecret = "0123456789abcdef0123456789abcdef"
)

func TestHS256SignAndVerify(t *testing.T) {
	signer, err := jwtx.NewSignerHS256([]byte(exampleSecret))
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	require.Equal(t, "HS256", signer.Alg())

	now := time.Now().UTC()
	claims := jwtx.NewIDClaims("user-789", exampleIssuer, "client-42", now, now.Add(time.Hour))

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3, "compact JWS has three segments")

	verifier := jwtx.NewVerifierHS256([]byte(exampleSecret), exampleIssuer, []string{"client-42"})
	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-789", got.Subject)
	require.Equal(t, exampleIssuer, got.Issuer)
	require.Equal(t, claims.ID, got.ID)
}

func TestNewSignerHS256_RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewSignerHS256(nil)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256Verify_Failures(t *testing.T) {
	signer, err := jwtx.NewSignerHS256([]byte(exampleSecret))
	require.NoError(t, err)

	now := time.Now().UTC()
	valid, err := signer.Sign(jwtx.NewIDClaims("user-1", exampleIssuer, "client-42", now, now.Add(time.Hour)))
	require.NoError(t, err)

	expired, err := signer.Sign(jwtx.NewIDClaims("user-1", exampleIssuer, "client-42", now.Add(-2*time.Hour), now.Add(-time.Hour)))
	require.NoError(t, err)

	noSubject, err := signer.Sign(jwtx.NewIDClaims("", exampleIssuer, "client-42", now, now.Add(time.Hour)))
	require.NoError(t, err)

	// Same claims signed with a different algorithm must be refused.
	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384,
		jwtx.NewIDClaims("user-1", exampleIssuer, "client-42", now, now.Add(time.Hour)),
	).SignedString([]byte(exampleSecret))
	require.NoError(t, err)

	tests := []struct {
		name     string
		verifier *jwtx.HS256Verifier
		token    string
		wantErr  error
	}{
		{
			name:     "wrong secret",
			verifier: jwtx.NewVerifierHS256([]byte("ffffffffffffffffffffffffffffffff"), exampleIssuer, nil),
			token:    valid,
			wantErr:  jwtx.ErrInvalidSig,
		},
		{
			name:     "wrong issuer",
			verifier: jwtx.NewVerifierHS256([]byte(exampleSecret), "https://other.example", nil),
			token:    valid,
			wantErr:  jwtx.ErrIssuer,
		},
		{
			name:     "wrong audience",
			verifier: jwtx.NewVerifierHS256([]byte(exampleSecret), exampleIssuer, []string{"client-9"}),
			token:    valid,
			wantErr:  jwtx.ErrAudience,
		},
		{
			name:     "expired",
			verifier: jwtx.NewVerifierHS256([]byte(exampleSecret), exampleIssuer, nil),
			token:    expired,
			wantErr:  jwtx.ErrExpired,
		},
		{
			name:     "missing subject",
			verifier: jwtx.NewVerifierHS256([]byte(exampleSecret), exampleIssuer, nil),
			token:    noSubject,
			wantErr:  jwtx.ErrInvalidClaim,
		},
		{
			name:     "malformed",
			verifier: jwtx.NewVerifierHS256([]byte(exampleSecret), exampleIssuer, nil),
			token:    "not-a-jwt",
			wantErr:  jwtx.ErrMalformed,
		},
		{
			name:     "unexpected algorithm",
			verifier: jwtx.NewVerifierHS256([]byte(exampleSecret), exampleIssuer, nil),
			token:    hs384,
			wantErr:  jwtx.ErrInvalidSig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.verifier.Verify(tt.token)
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, claims)
		})
	}
}

func TestHS256Verify_Leeway(t *testing.T) {
	signer, err := jwtx.NewSignerHS256([]byte(exampleSecret))
	require.NoError(t, err)

	now := time.Now().UTC()
	token, err := signer.Sign(jwtx.NewIDClaims("user-1", exampleIssuer, "", now.Add(-time.Hour), now.Add(-5*time.Second)))
	require.NoError(t, err)

	v := jwtx.NewVerifierHS256([]byte(exampleSecret), exampleIssuer, nil)
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	v.Leeway = time.Minute
	_, err = v.Verify(token)
	require.NoError(t, err)
}
