package models

// Category is the closed taxonomy of conversation topics.
type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryStress       Category = "stress"
	CategoryDepression   Category = "depression"
	CategoryAnxiety      Category = "anxiety"
	CategoryRelationship Category = "relationship"
	CategoryStudy        Category = "study"
	CategoryFamily       Category = "family"
	CategoryError        Category = "error"
)

// Source tags where a chat answer came from.
type Source string

const (
	// SourceRule means the answer came straight from the canned rule table.
	SourceRule Source = "rule"
	// SourcePrompt means a pre-written template answered (degraded path).
	SourcePrompt Source = "prompt"
	// SourceGemini means the answer was generated by the Gemini backend.
	SourceGemini Source = "gemini"
)

// ChatMessage represents a single message in a conversation
type ChatMessage struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // The message content
}

// ChatRequest represents the incoming chat request from the frontend
type ChatRequest struct {
	Message string        `json:"message"`           // The current user message
	History []ChatMessage `json:"history,omitempty"` // Previous conversation history
}

// ClassificationResult is the tagged outcome of handling one user turn.
// Exactly one is produced per input message; Answer is always populated,
// possibly with a degraded apology, never a raw error string.
type ClassificationResult struct {
	Category   Category `json:"category"`
	Source     Source   `json:"source"`
	Confidence float64  `json:"confidence"` // [0,1]; 1.0 for rule hits
	Answer     string   `json:"answer"`
}

// ChatResponse represents the response sent back to the frontend
type ChatResponse struct {
	Message    string   `json:"message"`
	Status     string   `json:"status"` // "success" or "error"
	Category   Category `json:"category,omitempty"`
	Source     Source   `json:"source,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}
