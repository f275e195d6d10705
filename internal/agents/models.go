package agents

import "time"

type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleAgent || r == RoleAdmin
}

// Agent is a back-office account. The stored secret never leaves the
// repository layer except as a bcrypt hash for login verification.
type Agent struct {
	ID        int64
	Number    string
	FullName  string
	Email     string
	Role      Role
	CreatedAt time.Time
}

type CreateParams struct {
	Number   string
	FullName string
	Email    string
	Password string
	Role     Role
}

// UpdateParams applies only the fields that are set.
type UpdateParams struct {
	Number   *string
	FullName *string
	Email    *string
	Password *string
	Role     *Role
}
