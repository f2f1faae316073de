package models

import "time"

// MoodEntry is one tracked mood sample.
type MoodEntry struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	MoodScore int       `json:"moodScore" bson:"moodScore"` // 1..5
	Tags      []string  `json:"tags" bson:"tags"`
	Note      string    `json:"note" bson:"note"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// MoodPage is a paged listing of mood entries.
type MoodPage struct {
	Items    []MoodEntry `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// MoodQuery filters a mood listing. From/To are optional bounds on CreatedAt.
type MoodQuery struct {
	UserID   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
