package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/callcove/backoffice/internal/agents"
	"github.com/callcove/backoffice/internal/revocation"
)

// Directory resolves token subjects and login emails to agent accounts.
// Implemented by *agents.Repo.
type Directory interface {
	GetByID(ctx context.Context, id int64) (agents.Agent, error)
	GetByEmail(ctx context.Context, email string) (agents.Agent, string, error)
}

type Service struct {
	tokens    TokenConfig
	registry  revocation.Registry
	directory Directory
}

func NewService(tokens TokenConfig, registry revocation.Registry, directory Directory) *Service {
	return &Service{
		tokens:    tokens,
		registry:  registry,
		directory: directory,
	}
}

// Login verifies the email/password pair and issues an access token.
// Unknown email and wrong password both come back as
// ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	agent, hash, err := s.directory.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("query agent: %w", err)
	}

	if !agents.CheckPassword(password, hash) {
		return "", ErrInvalidCredentials
	}

	token, err := IssueToken(s.tokens, agent.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Logout revokes the presented bearer token for the remainder of its
// lifetime. The token need not verify: a well-formed header always
// succeeds, so logging out twice, or with an expired token, is a no-op
// from the caller's point of view.
func (s *Service) Logout(ctx context.Context, header string) error {
	token, err := bearerToken(header)
	if err != nil {
		return err
	}

	ttl := s.tokens.TTL
	if exp, err := TokenExpiry(token); err == nil {
		remaining := time.Until(exp)
		if remaining <= 0 {
			// Already past natural expiry; nothing left to revoke.
			return nil
		}
		ttl = remaining
	}

	if err := s.registry.Revoke(ctx, token, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Authenticate resolves an Authorization header to the agent it
// authenticates. Checks run in a fixed order: header presence, bearer
// scheme, revocation, signature/expiry, subject lookup. An unknown
// subject is reported as ErrInvalidToken so responses never reveal
// whether an account exists.
func (s *Service) Authenticate(ctx context.Context, header string) (agents.Agent, error) {
	token, err := bearerToken(header)
	if err != nil {
		return agents.Agent{}, err
	}

	revoked, err := s.registry.IsRevoked(ctx, token)
	if err != nil {
		return agents.Agent{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return agents.Agent{}, ErrTokenRevoked
	}

	agentID, err := VerifyToken(s.tokens, token)
	if err != nil {
		return agents.Agent{}, ErrInvalidToken
	}

	agent, err := s.directory.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			return agents.Agent{}, ErrInvalidToken
		}
		return agents.Agent{}, fmt.Errorf("resolve subject: %w", err)
	}
	return agent, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredential
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedCredential
	}
	return parts[1], nil
}
