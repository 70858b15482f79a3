package analyses

import (
	"time"

	"github.com/kartik220803/image-analyzer/src/vision"
)

// Analysis is one persisted record of an image submission plus its
// normalized vision results.
type Analysis struct {
	ID        string         `json:"id" pg:"id,pk"`
	UserID    string         `json:"userId" pg:"user_id"`
	ImageURL  string         `json:"imageUrl" pg:"image_url,notnull"`
	Results   vision.Results `json:"results" pg:"results,type:jsonb"`
	IsSaved   bool           `json:"isSaved" pg:"is_saved,use_zero"`
	CreatedAt time.Time      `json:"createdAt" pg:"created_at,default:now()"`
}

// Store is the persistence boundary for analyses. Every lookup and mutation
// is scoped by the owning user's id; callers must pass the authenticated
// user, never an id taken from the request body.
type Store interface {
	Insert(analysis *Analysis) error
	// FindByUser returns the user's analyses newest-first. A limit of 0 means
	// no limit; savedOnly restricts the result to saved analyses.
	FindByUser(userID string, limit int, savedOnly bool) ([]Analysis, error)
	FindOne(id string, userID string) (*Analysis, error)
	// ToggleSaved flips the saved flag of an owned analysis and returns the
	// updated record, or nil when no owned record matches.
	ToggleSaved(id string, userID string) (*Analysis, error)
	Delete(userID string, id string) error
}
