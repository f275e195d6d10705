package sessions

import "time"

type ClientType string

const (
	ClientIndividual ClientType = "individual"
	ClientCompany    ClientType = "company"
)

func (c ClientType) Valid() bool {
	return c == ClientIndividual || c == ClientCompany
}

type FinalStatus string

const (
	StatusSatisfied    FinalStatus = "satisfied"
	StatusNotSatisfied FinalStatus = "not_satisfied"
)

func (f FinalStatus) Valid() bool {
	return f == StatusSatisfied || f == StatusNotSatisfied
}

// Session records one handled call: who took it, what kind of client,
// why they called, what was asked of the assistant and how it ended.
// Result and FinalStatus stay empty until the call is wrapped up.
type Session struct {
	ID          int64
	AgentID     int64
	ClientType  ClientType
	Reason      string
	AIQuery     string
	Result      *string
	FinalStatus *FinalStatus
	CreatedAt   time.Time
}

type CreateParams struct {
	ClientType  ClientType
	Reason      string
	AIQuery     string
	Result      *string
	FinalStatus *FinalStatus
}

// Filter narrows List results; nil fields match everything.
type Filter struct {
	AgentID     *int64
	ClientType  *ClientType
	FinalStatus *FinalStatus
}
