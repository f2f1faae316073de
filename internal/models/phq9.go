package models

// PHQ9Option is one of the four frequency choices for a question.
type PHQ9Option struct {
	Value int    `json:"value"` // 0..3
	Label string `json:"label"`
}

// PHQ9Question is one item of the nine-question depression screener.
type PHQ9Question struct {
	ID      int          `json:"id"`
	Text    string       `json:"text"`
	Options []PHQ9Option `json:"options"`
}

// PHQ9ScoreRequest carries the nine answers, in question order.
type PHQ9ScoreRequest struct {
	Answers []int `json:"answers"`
}

// PHQ9Severity is one severity band of the total score.
type PHQ9Severity struct {
	Level string `json:"level"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// PHQ9Result is the scored outcome of a completed screener.
type PHQ9Result struct {
	Score    int          `json:"score"` // 0..27
	Severity PHQ9Severity `json:"severity"`
}
