package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Article is a record in the resource library managed by the admin panel.
type Article struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Source    string    `json:"source" bson:"source"`
	URL       string    `json:"url" bson:"url"`
	ImageURL  string    `json:"imageUrl" bson:"imageUrl"`
	Category  string    `json:"category" bson:"category"`
	Date      string    `json:"date" bson:"date"`
	Author    string    `json:"author,omitempty" bson:"author,omitempty"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// ArticleInput is the create/update payload from the admin panel.
type ArticleInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Source   string   `json:"source"`
	URL      string   `json:"url"`
	ImageURL string   `json:"imageUrl"`
	Category string   `json:"category"`
	Date     string   `json:"date"`
	Author   string   `json:"author"`
	Tags     []string `json:"tags"`
}

// Validate checks the required fields and that the URL is well formed.
func (in *ArticleInput) Validate() error {
	missing := []string{}
	for field, value := range map[string]string{
		"title":    in.Title,
		"content":  in.Content,
		"source":   in.Source,
		"url":      in.URL,
		"category": in.Category,
		"date":     in.Date,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("กรุณากรอกข้อมูลให้ครบถ้วน (%s)", strings.Join(missing, ", "))
	}

	u, err := url.Parse(in.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("รูปแบบ URL ไม่ถูกต้อง: %q", in.URL)
	}
	return nil
}
