package services

import (
	"fmt"

	"ai-companion/internal/models"
)

// safetyClause is appended to every template regardless of category, so a
// self-harm signal the rule table missed is still surfaced by the model.
const safetyClause = "ไม่ว่าหัวข้อจะเป็นอะไร หากพบสัญญาณของการทำร้ายตัวเองหรือความคิดอยากจบชีวิตในข้อความ " +
	"ให้แนะนำสายด่วนสุขภาพจิต " + CrisisHotline + " ทันที ตอบเป็นภาษาไทยด้วยน้ำเสียงอบอุ่น เข้าใจง่าย ไม่ตัดสิน " +
	"และไม่วินิจฉัยโรคแทนแพทย์"

// categoryPersonas steer the model toward a domain-appropriate counselor
// persona per category.
var categoryPersonas = map[models.Category]string{
	models.CategoryGeneral:      "คุณคือ AI เพื่อนที่ปรึกษาที่อบอุ่นและพร้อมรับฟังทุกเรื่อง",
	models.CategoryStress:       "คุณคือผู้ให้คำปรึกษาที่เชี่ยวชาญด้านการจัดการความเครียด ช่วยผู้ใช้หาวิธีผ่อนคลายที่ทำได้จริง",
	models.CategoryDepression:   "คุณคือผู้ให้คำปรึกษาที่เข้าใจภาวะซึมเศร้า รับฟังอย่างอ่อนโยนและให้กำลังใจโดยไม่กดดัน",
	models.CategoryAnxiety:      "คุณคือผู้ให้คำปรึกษาที่เชี่ยวชาญเรื่องความวิตกกังวล ช่วยผู้ใช้ค่อยๆ คลายความกังวลทีละขั้น",
	models.CategoryRelationship: "คุณคือผู้ให้คำปรึกษาด้านความสัมพันธ์ รับฟังอย่างเป็นกลางและช่วยให้ผู้ใช้มองเห็นทางเลือกของตัวเอง",
	models.CategoryStudy:        "คุณคือผู้ให้คำปรึกษาด้านการเรียน เข้าใจความกดดันเรื่องการสอบและช่วยวางแผนการเรียนอย่างเป็นมิตร",
	models.CategoryFamily:       "คุณคือผู้ให้คำปรึกษาด้านครอบครัว เข้าใจความขัดแย้งในบ้านและช่วยผู้ใช้สื่อสารกับคนในครอบครัว",
}

// PromptBuilder produces the system/context prompt handed to generation.
// Pure string construction; no failure modes.
type PromptBuilder struct{}

// NewPromptBuilder creates a prompt builder over the built-in templates.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build selects the template for category and inserts the user's raw text.
// Unknown categories fall back to the general persona.
func (b *PromptBuilder) Build(text string, category models.Category) string {
	persona, ok := categoryPersonas[category]
	if !ok {
		persona = categoryPersonas[models.CategoryGeneral]
	}
	return fmt.Sprintf("%s %s\n\nผู้ใช้บอกว่า: %s", persona, safetyClause, text)
}
