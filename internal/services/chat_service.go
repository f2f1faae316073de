package services

import (
	"context"
	"log"

	"ai-companion/internal/models"
)

// Confidence heuristics for generated answers. Rule hits are always 1.0.
const (
	confidenceMatched = 0.75
	confidenceGeneral = 0.5
)

// ChatService routes a user turn to the rule table, or to prompt-steered
// generation when no rule fires. It owns no state across calls; the only
// process-wide state is the model fallback index inside the generation
// client.
type ChatService struct {
	classifier *Classifier
	rules      *RuleTable
	prompts    *PromptBuilder
	generator  GenerationClient
	logger     *log.Logger
}

// NewChatService creates a chat service with injected dependencies.
func NewChatService(classifier *Classifier, rules *RuleTable, prompts *PromptBuilder, generator GenerationClient, logger *log.Logger) *ChatService {
	return &ChatService{
		classifier: classifier,
		rules:      rules,
		prompts:    prompts,
		generator:  generator,
		logger:     logger,
	}
}

// Respond handles one user turn and always returns a populated result:
// transient upstream failures are absorbed into a degraded answer, never
// surfaced to the chat UI. Rule hits short-circuit generation entirely,
// with crisis rules checked before anything else.
func (s *ChatService) Respond(ctx context.Context, text string, history []models.ChatMessage) models.ClassificationResult {
	category, matched := s.classifier.Classify(text)

	if m := s.rules.Lookup(text); m != nil {
		ruleCategory := m.Rule.Category
		if m.Rule.Crisis {
			s.logger.Printf("crisis trigger %q matched, short-circuiting to hotline answer", m.Trigger)
		}
		return models.ClassificationResult{
			Category:   ruleCategory,
			Source:     models.SourceRule,
			Confidence: 1.0,
			Answer:     m.Rule.Answer,
		}
	}

	prompt := s.prompts.Build(text, category)

	result, err := s.generator.Generate(ctx, prompt, history)
	if err != nil {
		// ValidationError or caller cancellation. The router has no
		// fallible contract of its own, so degrade rather than throw.
		s.logger.Printf("generation failed: %v", err)
		return models.ClassificationResult{
			Category:   category,
			Source:     models.SourcePrompt,
			Confidence: confidence(matched),
			Answer:     apologies[0],
		}
	}

	source := models.SourceGemini
	if result.Degraded {
		source = models.SourcePrompt
	}
	return models.ClassificationResult{
		Category:   category,
		Source:     source,
		Confidence: confidence(matched),
		Answer:     result.Text,
	}
}

func confidence(matched []string) float64 {
	if len(matched) > 0 {
		return confidenceMatched
	}
	return confidenceGeneral
}
