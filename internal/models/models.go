package models

// ChatTurn is one prior exchange in a follow-up conversation.
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// AskRequest carries a follow-up question. Context and History are
// optional: a non-empty Context grounds the question directly instead
// of the document stored for the caller's session.
type AskRequest struct {
	Query   string     `json:"query" binding:"required"`
	Context string     `json:"context,omitempty"`
	History []ChatTurn `json:"history,omitempty" binding:"omitempty,dive"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
