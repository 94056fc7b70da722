package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"

	"github.com/verano-labs/go-entity-cache/repository"
)

// User is an account row. Email is unique; the password never leaves the
// model through the read projection.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	Email    string `bun:"email,unique,notnull" json:"email"`
	Password string `bun:"password,notnull" json:"-"`
}

// UserCreate is the create input schema for users.
type UserCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the create input against the schema constraints.
func (c UserCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required, validation.Length(8, 128)),
	)
}

// UserUpdate is the update input schema for users. The password is changed
// through a dedicated flow, not here.
type UserUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks the update input against the schema constraints.
func (u UserUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&u.Email, validation.Required, is.Email),
	)
}

// UserRead is the outward projection of a user. It deliberately has no
// password field.
type UserRead struct {
	ID    int64  `json:"id" msgpack:"id"`
	Name  string `json:"name" msgpack:"name"`
	Email string `json:"email" msgpack:"email"`
}

// UserHandlers binds the user schemas to the engine.
func UserHandlers() repository.Handlers[User, UserCreate, UserUpdate, UserRead] {
	return repository.Handlers[User, UserCreate, UserUpdate, UserRead]{
		Table:    "users",
		PKColumn: "id",
		PKValue:  func(u *User) int64 { return u.ID },
		FromCreate: func(in UserCreate) *User {
			return &User{Name: in.Name, Email: in.Email, Password: in.Password}
		},
		ApplyUpdate: func(u *User, in UserUpdate) {
			u.Name = in.Name
			u.Email = in.Email
		},
		ToRead: func(u *User) UserRead {
			return UserRead{ID: u.ID, Name: u.Name, Email: u.Email}
		},
	}
}
