package analyses

import (
	"os"

	"github.com/go-pg/pg/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger zerolog.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

type PGStore struct {
	db *pg.DB
}

func NewPGStore(db *pg.DB) *PGStore {
	return &PGStore{db: db}
}

func (store *PGStore) Insert(analysis *Analysis) error {
	_, err := store.db.Model(analysis).Insert()
	if err != nil {
		return err
	}
	logger.Debug().Msgf("inserted analysis: %s", analysis.ID)

	return nil
}

func (store *PGStore) FindByUser(userID string, limit int, savedOnly bool) ([]Analysis, error) {
	var list []Analysis

	q := store.db.Model(&list).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC")
	if savedOnly {
		q = q.Where("is_saved = TRUE")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Select(); err != nil {
		return nil, err
	}

	return list, nil
}

func (store *PGStore) FindOne(id string, userID string) (*Analysis, error) {
	analysis := new(Analysis)
	err := store.db.Model(analysis).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return analysis, nil
}

func (store *PGStore) ToggleSaved(id string, userID string) (*Analysis, error) {
	analysis, err := store.FindOne(id, userID)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, nil
	}

	analysis.IsSaved = !analysis.IsSaved
	_, err = store.db.Model(analysis).
		Set("is_saved = ?", analysis.IsSaved).
		WherePK().
		Update()
	if err != nil {
		return nil, err
	}

	return analysis, nil
}

func (store *PGStore) Delete(userID string, id string) error {
	_, err := store.db.Model((*Analysis)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Delete()
	return err
}
