package services

import (
	"strings"

	"ai-companion/internal/models"
)

// categoryKeywords pairs a category with its trigger keywords.
type categoryKeywords struct {
	category models.Category
	keywords []string
}

// classifierTable is scanned in order and the first category with a
// matching keyword wins. The order is a contract: co-occurring keywords
// resolve toward the more urgent topic (depression before stress, stress
// before study), so changing it changes user-visible behavior.
var classifierTable = []categoryKeywords{
	{models.CategoryDepression, []string{
		"ซึมเศร้า", "เศร้า", "หดหู่", "สิ้นหวัง", "ท้อแท้", "ไร้ค่า", "เบื่อชีวิต", "depress", "hopeless",
	}},
	{models.CategoryAnxiety, []string{
		"กังวล", "วิตก", "ตื่นตระหนก", "แพนิค", "ใจสั่น", "กลัวมาก", "anxiety", "panic",
	}},
	{models.CategoryStress, []string{
		"เครียด", "กดดัน", "หนักใจ", "เหนื่อยใจ", "รับไม่ไหว", "burnout", "stress",
	}},
	{models.CategoryStudy, []string{
		"สอบ", "การบ้าน", "เกรด", "เรียน", "โรงเรียน", "มหาวิทยาลัย", "อ่านหนังสือไม่ทัน", "exam", "study",
	}},
	{models.CategoryRelationship, []string{
		"แฟน", "อกหัก", "เลิกกัน", "ความรัก", "ทะเลาะกับเพื่อน", "เพื่อนไม่คบ", "โดนนอกใจ", "relationship",
	}},
	{models.CategoryFamily, []string{
		"ครอบครัว", "พ่อ", "แม่", "ผู้ปกครอง", "พี่น้อง", "ที่บ้าน", "family",
	}},
}

// Classifier assigns a Category to free-text user input by case-insensitive
// substring matching against static keyword tables. It is a pure function
// over the tables: no I/O, no randomness, same input always yields the
// same category. This is deliberately first-match-wins pattern matching,
// not a scoring scheme.
type Classifier struct {
	table []categoryKeywords
}

// NewClassifier creates a classifier over the built-in keyword tables.
func NewClassifier() *Classifier {
	return &Classifier{table: classifierTable}
}

// Classify returns the category for the given text plus the keywords that
// matched. Unmatched input, including empty input, returns CategoryGeneral.
func (c *Classifier) Classify(text string) (models.Category, []string) {
	lowered := strings.ToLower(text)

	for _, entry := range c.table {
		var matched []string
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			return entry.category, matched
		}
	}

	return models.CategoryGeneral, nil
}
