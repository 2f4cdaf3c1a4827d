package domain

import "time"

// Account models a registered user. The password hash never leaves the
// service layer in JSON form.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"-"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// OwnedBy reports whether the identity may edit this account.
func (a *Account) OwnedBy(id *Identity) bool {
	return id != nil && a.ID == id.Subject
}
