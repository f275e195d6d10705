package auth

import (
	"context"
	"testing"
	"time"

	"github.com/callcove/backoffice/internal/agents"
	"github.com/callcove/backoffice/internal/revocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	agents map[int64]agents.Agent
	hashes map[string]string // email -> bcrypt hash
}

func (d *stubDirectory) GetByID(ctx context.Context, id int64) (agents.Agent, error) {
	agent, ok := d.agents[id]
	if !ok {
		return agents.Agent{}, agents.ErrAgentNotFound
	}
	return agent, nil
}

func (d *stubDirectory) GetByEmail(ctx context.Context, email string) (agents.Agent, string, error) {
	for _, agent := range d.agents {
		if agent.Email == email {
			return agent, d.hashes[email], nil
		}
	}
	return agents.Agent{}, "", agents.ErrAgentNotFound
}

func newTestService(t *testing.T) (*Service, *stubDirectory) {
	t.Helper()

	hash, err := agents.HashPassword("pw12345678")
	require.NoError(t, err)

	dir := &stubDirectory{
		agents: map[int64]agents.Agent{
			1: {ID: 1, Number: "101", FullName: "Ava Martin", Email: "a@x.com", Role: agents.RoleAgent},
		},
		hashes: map[string]string{"a@x.com": hash},
	}
	return NewService(testTokenConfig, revocation.NewMemoryRegistry(), dir), dir
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		token, err := svc.Login(ctx, "a@x.com", "pw12345678")
		require.NoError(t, err)

		id, err := VerifyToken(testTokenConfig, token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@x.com", "pw12345678")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticate(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "a@x.com", "pw12345678")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		agent, err := svc.Authenticate(ctx, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), agent.ID)
		assert.Equal(t, "a@x.com", agent.Email)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "bearer "+token)
		require.NoError(t, err)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "Basic dXNlcjpwdw==")
		assert.ErrorIs(t, err, ErrMalformedCredential)

		_, err = svc.Authenticate(ctx, "Bearer")
		assert.ErrorIs(t, err, ErrMalformedCredential)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "Bearer garbage")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown subject reported as invalid token", func(t *testing.T) {
		orphan, err := IssueToken(testTokenConfig, 999)
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "Bearer "+orphan)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("deleted agent invalidates token", func(t *testing.T) {
		delete(dir.agents, 1)
		defer func() {
			dir.agents[1] = agents.Agent{ID: 1, Number: "101", FullName: "Ava Martin", Email: "a@x.com", Role: agents.RoleAgent}
		}()

		_, err := svc.Authenticate(ctx, "Bearer "+token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestLogoutRevokes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "a@x.com", "pw12345678")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "Bearer "+token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "Bearer "+token))

	// The token is still within its natural lifetime but must now be
	// rejected with the revocation error, not the generic one.
	_, err = svc.Authenticate(ctx, "Bearer "+token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "a@x.com", "pw12345678")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "Bearer "+token))
	require.NoError(t, svc.Logout(ctx, "Bearer "+token))
}

func TestLogoutAcceptsInvalidTokens(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Unparseable and expired tokens still log out cleanly.
	require.NoError(t, svc.Logout(ctx, "Bearer garbage"))

	expired := TokenConfig{Secret: testTokenConfig.Secret, TTL: -1 * time.Minute}
	token, err := IssueToken(expired, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, "Bearer "+token))
}

func TestLogoutRequiresWellFormedHeader(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Logout(ctx, ""), ErrMissingCredential)
	assert.ErrorIs(t, svc.Logout(ctx, "nonsense"), ErrMalformedCredential)
}
