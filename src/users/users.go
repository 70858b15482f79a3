package users

import "time"

// User is a registered account. The password field only ever holds a bcrypt
// hash and is excluded from JSON output.
type User struct {
	ID        string    `json:"id" pg:"id,pk"`
	Username  string    `json:"username" pg:"username,unique,notnull"`
	Email     string    `json:"email" pg:"email,unique,notnull"`
	Password  string    `json:"-" pg:"password,notnull"`
	CreatedAt time.Time `json:"createdAt" pg:"created_at,default:now()"`
}

type Store interface {
	Create(user *User) error
	FindByID(id string) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	UpdateUsername(id string, username string) (*User, error)
	UpdatePassword(id string, passwordHash string) error
}
