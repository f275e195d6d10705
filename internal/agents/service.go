package agents

import (
	"context"
	"fmt"
)

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Agent, error) {
	hash, err := HashPassword(params.Password)
	if err != nil {
		return Agent{}, fmt.Errorf("hash password: %w", err)
	}

	role := params.Role
	if role == "" {
		role = RoleAgent
	}

	return s.repo.Create(ctx, params.Number, params.FullName, params.Email, hash, role)
}

func (s *Service) Get(ctx context.Context, id int64) (Agent, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Agent, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (Agent, error) {
	var passwordHash *string
	if params.Password != nil {
		hash, err := HashPassword(*params.Password)
		if err != nil {
			return Agent{}, fmt.Errorf("hash password: %w", err)
		}
		passwordHash = &hash
	}

	return s.repo.Update(ctx, id, params.Number, params.FullName, params.Email, passwordHash, params.Role)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
