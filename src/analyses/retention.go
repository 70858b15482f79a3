package analyses

import (
	"context"

	"github.com/kartik220803/image-analyzer/src/storage"
)

// RetentionLimit is how many analyses each user keeps.
const RetentionLimit = 10

// BlobDeleter removes a stored image blob by its storage key.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Policy trims each user's history down to the retention limit. It runs
// after every authenticated analysis creation; re-running it is always safe.
type Policy struct {
	store Store
	blobs BlobDeleter
	keep  int
}

func NewPolicy(store Store, blobs BlobDeleter) *Policy {
	return &Policy{store: store, blobs: blobs, keep: RetentionLimit}
}

// Enforce deletes the user's analyses beyond the newest `keep`, together with
// their backing image blobs. Each deletion is independent: a blob failure is
// logged and the record is deleted anyway, and a record failure does not stop
// the rest of the sweep, so a crashed run reconverges on the next one.
func (p *Policy) Enforce(ctx context.Context, userID string) error {
	list, err := p.store.FindByUser(userID, 0, false)
	if err != nil {
		return err
	}

	if len(list) <= p.keep {
		return nil
	}

	for _, analysis := range list[p.keep:] {
		if key := storage.KeyFromURL(analysis.ImageURL); key != "" {
			if err := p.blobs.Delete(ctx, key); err != nil {
				logger.Warn().Msgf("failed to delete blob %s for analysis %s: %v", key, analysis.ID, err)
			}
		}

		if err := p.store.Delete(userID, analysis.ID); err != nil {
			logger.Error().Msgf("failed to delete analysis %s: %v", analysis.ID, err)
		}
	}

	return nil
}
