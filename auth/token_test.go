package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	token, exp, err := svc.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	username, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", username)
}

func TestVerifyMissingToken(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	_, err := svc.Verify("")
	require.ErrorIs(t, err, ErrNoToken)
}

func TestVerifyWrongKey(t *testing.T) {
	issuer := NewTokenService([]byte("key-one"), time.Hour)
	verifier := NewTokenService([]byte("key-two"), time.Hour)

	token, _, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	_, err := svc.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), -time.Minute)
	token, _, err := svc.Issue("alice")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}
