package models

import "time"

// VisitStats is the site-wide visit counter.
type VisitStats struct {
	VisitCount  int64     `json:"visitCount"`
	LastUpdated time.Time `json:"lastUpdated"`
}
