package entity

import "time"

type Account struct {
	ID            int64
	Username      string
	Email         string
	Password      string // hashed
	Enabled       bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanLogin reports whether the account may start a credential login.
// Gate order matters: a disabled account is rejected before an unverified one.
func (a Account) CanLogin() error {
	if !a.Enabled {
		return ErrAccountDisabled
	}
	if !a.EmailVerified {
		return ErrEmailNotVerified
	}
	return nil
}

type NewAccount struct {
	ID       int64
	Username string
	Email    string
	Password string // hashed
}
