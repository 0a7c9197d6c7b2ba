package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (p RegisterPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Username, validation.Required, validation.Length(1, 120)),
			validation.Field(&p.Email, validation.Required, is.Email),
			validation.Field(&p.Password, validation.Required, validation.Length(1, 256)),
		)
	}, "Invalid registration payload")
}

// UpdateUserPayload is the admin profile update body; the password is
// optional and re-hashed when present.
type UpdateUserPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Validate will run validation rules
func (p UpdateUserPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Username, validation.Required, validation.Length(1, 120)),
			validation.Field(&p.Email, validation.Required, is.Email),
		)
	}, "Invalid user payload")
}

// BookPayload is the create/update body for books.
type BookPayload struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Validate will run validation rules
func (p BookPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Title, validation.Required, validation.Length(1, 512)),
			validation.Field(&p.Author, validation.Required, validation.Length(1, 256)),
		)
	}, "Invalid book payload")
}

// UserOut is the public user shape; the password hash never leaves the
// persistence layer.
type UserOut struct {
	ID       int64         `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Role     booknote.Role `json:"role"`
}

// TokenOut is the login response.
type TokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func newUserOut(user *booknote.User) UserOut {
	return UserOut{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func newUserList(users []*booknote.User) []UserOut {
	out := make([]UserOut, 0, len(users))
	for _, u := range users {
		out = append(out, newUserOut(u))
	}
	return out
}
