package repositories

import (
	"context"

	"ai-companion/internal/models"
)

// VisitRepository is the two-operation visit counter contract. The backing
// store (file, Redis, MongoDB) is swappable at startup.
type VisitRepository interface {
	// Get returns the current count without changing it.
	Get(ctx context.Context) (*models.VisitStats, error)
	// Increment atomically adds one visit and returns the new stats.
	Increment(ctx context.Context) (*models.VisitStats, error)
}

// initialVisitCount seeds empty stores so the first recorded visit reads
// 735, matching the count carried over from the original deployment.
const initialVisitCount = 734
