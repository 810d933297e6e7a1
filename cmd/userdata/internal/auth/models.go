package auth

import "fmt"

// User is a row of the users table. Password holds the stored digest.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	SSN       string `json:"-"`
	Password  string `json:"-"`
	IP        string `json:"ip,omitempty"`
	LastLogin string `json:"last_login,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// String renders the user as a log-ready field list. Sensitive values are
// included verbatim and are expected to be redacted by the logger.
func (u *User) String() string {
	return fmt.Sprintf("id=%d; name=%s; email=%s;", u.ID, u.Name, u.Email)
}
