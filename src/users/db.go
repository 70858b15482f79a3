package users

import (
	"github.com/go-pg/pg/v10"
)

type PGStore struct {
	db *pg.DB
}

func NewPGStore(db *pg.DB) *PGStore {
	return &PGStore{db: db}
}

func (store *PGStore) Create(user *User) error {
	_, err := store.db.Model(user).Insert()
	return err
}

func (store *PGStore) FindByID(id string) (*User, error) {
	user := new(User)
	err := store.db.Model(user).Where("id = ?", id).Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (store *PGStore) FindByUsername(username string) (*User, error) {
	user := new(User)
	err := store.db.Model(user).Where("username = ?", username).Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (store *PGStore) FindByEmail(email string) (*User, error) {
	user := new(User)
	err := store.db.Model(user).Where("email = ?", email).Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (store *PGStore) UpdateUsername(id string, username string) (*User, error) {
	user := new(User)
	_, err := store.db.Model(user).
		Set("username = ?", username).
		Where("id = ?", id).
		Returning("*").
		Update()
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (store *PGStore) UpdatePassword(id string, passwordHash string) error {
	_, err := store.db.Model((*User)(nil)).
		Set("password = ?", passwordHash).
		Where("id = ?", id).
		Update()
	return err
}
