package dto

type CreateSessionRequest struct {
	ClientType  string  `json:"client_type" binding:"required,oneof=individual company"`
	Reason      string  `json:"reason" binding:"required"`
	AIQuery     string  `json:"ai_query" binding:"required"`
	Result      *string `json:"result"`
	FinalStatus *string `json:"final_status" binding:"omitempty,oneof=satisfied not_satisfied"`
}

type SessionResponse struct {
	ID          int64   `json:"id"`
	AgentID     int64   `json:"agent_id"`
	ClientType  string  `json:"client_type"`
	Reason      string  `json:"reason"`
	AIQuery     string  `json:"ai_query"`
	Result      *string `json:"result"`
	FinalStatus *string `json:"final_status"`
	CreatedAt   string  `json:"created_at"`
}

type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Count    int               `json:"count"`
}
