package services

import (
	"sort"
	"strings"
	"unicode"

	"ai-companion/internal/models"

	"github.com/jdkato/prose/v2"
)

// TagSuggester extracts candidate tags from article text so the admin
// panel can offer them instead of requiring hand-typed tags. The POS
// tagger only understands English; Thai tokens fall through to the
// frequency path with a neutral score.
type TagSuggester struct {
	stopWords map[string]bool
	minLength int
}

// NewTagSuggester creates a suggester with the default stop-word list.
func NewTagSuggester() *TagSuggester {
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
		"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
		"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
		"be": true, "been": true, "have": true, "has": true, "had": true, "do": true,
		"does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
		"this": true, "that": true, "these": true, "those": true, "i": true, "you": true,
		"he": true, "she": true, "it": true, "we": true, "they": true, "my": true,
		"your": true, "his": true, "her": true, "its": true, "our": true, "their": true,
	}

	return &TagSuggester{
		stopWords: stopWords,
		minLength: 2,
	}
}

// TagSuggestion is a candidate tag with its frequency and importance.
type TagSuggestion struct {
	Word      string  `json:"word"`
	Frequency int     `json:"frequency"`
	Score     float64 `json:"score"`
	PosTag    string  `json:"pos_tag"`
}

// Suggest extracts candidate tags from an article, weighting the title
// above the body, and returns them best first.
func (ts *TagSuggester) Suggest(article models.Article) ([]TagSuggestion, error) {
	// Title counts twice so its words outrank body mentions.
	text := strings.Repeat(article.Title+" ", 2) + " " + article.Content

	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	wordFreq := make(map[string]*TagSuggestion)

	for _, tok := range doc.Tokens() {
		word := strings.ToLower(tok.Text)

		if ts.shouldSkipWord(word, tok.Tag) {
			continue
		}

		score := ts.calculateScore(tok.Tag)

		if existing, exists := wordFreq[word]; exists {
			existing.Frequency++
			existing.Score += score
		} else {
			wordFreq[word] = &TagSuggestion{
				Word:      word,
				Frequency: 1,
				Score:     score,
				PosTag:    tok.Tag,
			}
		}
	}

	// Named entities get a boost; they make the best tags.
	for _, ent := range doc.Entities() {
		word := strings.ToLower(ent.Text)
		if len(word) >= ts.minLength && !ts.stopWords[word] {
			if existing, exists := wordFreq[word]; exists {
				existing.Score += 2.0
			} else {
				wordFreq[word] = &TagSuggestion{
					Word:      word,
					Frequency: 1,
					Score:     2.0,
					PosTag:    "NE_" + ent.Label,
				}
			}
		}
	}

	var suggestions []TagSuggestion
	for _, result := range wordFreq {
		result.Score = result.Score * float64(result.Frequency)
		suggestions = append(suggestions, *result)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	return suggestions, nil
}

// SuggestTop returns at most limit suggestions.
func (ts *TagSuggester) SuggestTop(article models.Article, limit int) ([]TagSuggestion, error) {
	suggestions, err := ts.Suggest(article)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(suggestions) > limit {
		return suggestions[:limit], nil
	}

	return suggestions, nil
}

// shouldSkipWord determines if a word should be filtered out
func (ts *TagSuggester) shouldSkipWord(word, posTag string) bool {
	if len(word) < ts.minLength {
		return true
	}

	if ts.stopWords[word] {
		return true
	}

	if ts.isPureNumber(word) || ts.isPunctuation(word) {
		return true
	}

	// Skip certain POS tags (determiners, prepositions, etc.)
	skipTags := map[string]bool{
		"DT":   true, // determiner
		"IN":   true, // preposition
		"TO":   true, // to
		"CC":   true, // coordinating conjunction
		"PRP":  true, // personal pronoun
		"PRP$": true, // possessive pronoun
		"WP":   true, // wh-pronoun
		"WDT":  true, // wh-determiner
	}

	return skipTags[posTag]
}

// calculateScore assigns importance based on POS tag
func (ts *TagSuggester) calculateScore(posTag string) float64 {
	scores := map[string]float64{
		"NN":   1.5, // noun
		"NNS":  1.5, // plural noun
		"NNP":  2.0, // proper noun
		"NNPS": 2.0, // plural proper noun
		"VB":   1.2, // verb
		"VBG":  1.2, // gerund
		"JJ":   1.3, // adjective
		"JJR":  1.3, // comparative adjective
		"JJS":  1.3, // superlative adjective
		"RB":   0.8, // adverb
	}

	if score, exists := scores[posTag]; exists {
		return score
	}
	return 1.0
}

func (ts *TagSuggester) isPureNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func (ts *TagSuggester) isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return len(s) > 0
}
