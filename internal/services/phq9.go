package services

import (
	"fmt"

	"ai-companion/internal/models"
)

// phq9Options are identical for every question.
var phq9Options = []models.PHQ9Option{
	{Value: 0, Label: "ไม่มีเลย"},
	{Value: 1, Label: "มีบางวัน"},
	{Value: 2, Label: "มีมากกว่า 7 วัน"},
	{Value: 3, Label: "มีเกือบทุกวัน"},
}

var phq9Questions = []models.PHQ9Question{
	{ID: 1, Text: "เบื่อทำอะไรๆ ก็ไม่เพลิดเพลิน", Options: phq9Options},
	{ID: 2, Text: "ไม่สบายใจ ซึมเศร้า หรือสิ้นหวัง", Options: phq9Options},
	{ID: 3, Text: "นอนไม่หลับ หรือหลับๆ ตื่นๆ หรือหลับมากไป", Options: phq9Options},
	{ID: 4, Text: "เหนื่อยง่าย หรือไม่ค่อยมีแรง", Options: phq9Options},
	{ID: 5, Text: "เบื่ออาหาร หรือกินมากเกินไป", Options: phq9Options},
	{ID: 6, Text: "รู้สึกไม่ดีกับตัวเอง คิดว่าตัวเองล้มเหลว หรือทำให้ตัวเองหรือครอบครัวผิดหวัง", Options: phq9Options},
	{ID: 7, Text: "สมาธิไม่ดี เวลาทำอะไร เช่น อ่านหนังสือหรือดูทีวี", Options: phq9Options},
	{ID: 8, Text: "พูดหรือทำอะไรช้าจนคนอื่นสังเกต หรือตรงกันข้าม คือ กระสับกระส่าย หรือดิ้นไปมา", Options: phq9Options},
	{ID: 9, Text: "คิดทำร้ายตัวเอง หรือคิดว่าถ้าตายไปเสียดีกว่า", Options: phq9Options},
}

// phq9Severities are the standard PHQ-9 bands with Thai labels.
var phq9Severities = []models.PHQ9Severity{
	{Level: "none", Label: "ไม่มีภาวะซึมเศร้า", Min: 0, Max: 4},
	{Level: "mild", Label: "ภาวะซึมเศร้าเล็กน้อย", Min: 5, Max: 9},
	{Level: "moderate", Label: "ภาวะซึมเศร้าปานกลาง", Min: 10, Max: 14},
	{Level: "moderately_severe", Label: "ภาวะซึมเศร้าปานกลางค่อนข้างรุนแรง", Min: 15, Max: 19},
	{Level: "severe", Label: "ภาวะซึมเศร้ารุนแรง", Min: 20, Max: 27},
}

// PHQ9Service serves the nine-question depression screener and scores
// completed answer sets.
type PHQ9Service struct{}

// NewPHQ9Service creates a screener service.
func NewPHQ9Service() *PHQ9Service {
	return &PHQ9Service{}
}

// Questions returns the screener questions in order.
func (s *PHQ9Service) Questions() []models.PHQ9Question {
	return phq9Questions
}

// Score validates and totals a completed answer set. It requires exactly
// one answer per question, each in 0..3.
func (s *PHQ9Service) Score(answers []int) (*models.PHQ9Result, error) {
	if len(answers) != len(phq9Questions) {
		return nil, fmt.Errorf("expected %d answers, got %d", len(phq9Questions), len(answers))
	}

	total := 0
	for i, a := range answers {
		if a < 0 || a > 3 {
			return nil, fmt.Errorf("answer %d out of range: %d", i+1, a)
		}
		total += a
	}

	for _, sev := range phq9Severities {
		if total >= sev.Min && total <= sev.Max {
			return &models.PHQ9Result{Score: total, Severity: sev}, nil
		}
	}
	// Unreachable: 9 answers of 0..3 always land in a band.
	return &models.PHQ9Result{Score: total, Severity: phq9Severities[len(phq9Severities)-1]}, nil
}
