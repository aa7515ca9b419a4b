package model

// Account represents a registered user. UserID is immutable once created;
// URLLimit may only be changed by an administrator.
type Account struct {
	UserID       string
	Username     string
	PasswordHash string
	URLLimit     int
	IsAdmin      bool
	Disabled     bool
}

// QuotaStatus is the result of a quota check for one account.
type QuotaStatus struct {
	Allowed bool `json:"allowed"`
	Limit   int  `json:"limit"`
	Count   int  `json:"current_count"`
}
