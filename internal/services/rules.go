package services

import (
	"strings"

	"ai-companion/internal/models"
)

// CrisisHotline is the Department of Mental Health counseling line. Every
// crisis answer must contain it verbatim.
const CrisisHotline = "1323"

// Rule is a static trigger→answer mapping that bypasses generation.
type Rule struct {
	Triggers []string
	Answer   string
	Category models.Category
	Crisis   bool
}

// RuleMatch is a rule that fired for a given input.
type RuleMatch struct {
	Rule    *Rule
	Trigger string
}

// crisisRules short-circuit everything else. Matching any of these must
// return an answer carrying the hotline number; this is a safety
// invariant, not a stylistic choice.
var crisisRules = []Rule{
	{
		Triggers: []string{"อยากตาย", "ฆ่าตัวตาย", "ทำร้ายตัวเอง", "ไม่อยากมีชีวิตอยู่", "ไม่อยากอยู่แล้ว", "จบชีวิต", "suicide", "kill myself"},
		Answer: "เราเป็นห่วงคุณมากนะ ความรู้สึกแบบนี้หนักเกินกว่าจะแบกไว้คนเดียว " +
			"อยากให้คุณโทรหาสายด่วนสุขภาพจิต " + CrisisHotline + " ได้ตลอด 24 ชั่วโมง " +
			"มีคนพร้อมรับฟังคุณอยู่เสมอ และถ้าพอไหว ลองเล่าให้คนใกล้ตัวที่ไว้ใจฟังด้วยนะ คุณไม่ได้อยู่คนเดียว",
		Category: models.CategoryDepression,
		Crisis:   true,
	},
}

// generalRules are high-confidence canned answers for small talk.
var generalRules = []Rule{
	{
		Triggers: []string{"สวัสดี", "หวัดดี", "ดีจ้า", "hello", "hi there"},
		Answer:   "สวัสดีค่ะ ยินดีที่ได้คุยกันนะ วันนี้เป็นยังไงบ้าง มีอะไรอยากเล่าให้ฟังไหม",
		Category: models.CategoryGeneral,
	},
	{
		Triggers: []string{"ขอบคุณ", "ขอบใจ", "thank you"},
		Answer:   "ด้วยความยินดีเสมอนะ ถ้ามีอะไรอยากคุยอีกก็ทักมาได้เลย",
		Category: models.CategoryGeneral,
	},
	{
		Triggers: []string{"ลาก่อน", "บายๆ", "ไปก่อนนะ", "goodbye"},
		Answer:   "ดูแลตัวเองด้วยนะ แล้วกลับมาคุยกันใหม่ได้เสมอเลย",
		Category: models.CategoryGeneral,
	},
	{
		Triggers: []string{"คุณคือใคร", "คุณเป็นใคร", "who are you"},
		Answer:   "เราเป็น AI เพื่อนที่ปรึกษา พร้อมรับฟังและอยู่เป็นเพื่อนคุณในทุกเรื่องที่ไม่สบายใจค่ะ",
		Category: models.CategoryGeneral,
	},
}

// RuleTable holds the static canned-answer rules, loaded once at process
// start and immutable thereafter.
type RuleTable struct {
	crisis []Rule
	rules  []Rule
}

// NewRuleTable creates the built-in rule table.
func NewRuleTable() *RuleTable {
	return &RuleTable{crisis: crisisRules, rules: generalRules}
}

// Lookup returns the first rule whose trigger is a case-insensitive
// substring of text, checking crisis rules before everything else.
// It returns nil when no rule matches.
func (t *RuleTable) Lookup(text string) *RuleMatch {
	lowered := strings.ToLower(text)

	if m := matchRules(t.crisis, lowered); m != nil {
		return m
	}
	return matchRules(t.rules, lowered)
}

func matchRules(rules []Rule, lowered string) *RuleMatch {
	for i := range rules {
		for _, trigger := range rules[i].Triggers {
			if strings.Contains(lowered, trigger) {
				return &RuleMatch{Rule: &rules[i], Trigger: trigger}
			}
		}
	}
	return nil
}
