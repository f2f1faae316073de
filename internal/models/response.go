package models

// BasicResponse is a simple message/status payload for health and
// informational endpoints.
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
