package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Role is the authorization level attached to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a raw role onto a known Role. Unknown values become RoleUser.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Satisfies reports whether r is allowed where required is demanded.
// Admin satisfies every requirement; an empty requirement is always met.
func (r Role) Satisfies(required Role) bool {
	return required == "" || r == required || r == RoleAdmin
}

// User is the authenticated identity held by a session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// Identified reports whether u names an account: a nil user or one with
// neither id nor email is treated as no user at all.
func (u *User) Identified() bool {
	return u != nil && (u.ID != "" || u.Email != "")
}

type wireUser struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	FullName    string          `json:"full_name"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	Phone       string          `json:"phone"`
	PhoneNumber string          `json:"phone_number"`
}

// UnmarshalJSON accepts numeric ids and the full_name/phone_number aliases the
// remote API uses, and normalizes the role.
func (u *User) UnmarshalJSON(data []byte) error {
	var w wireUser
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := flexibleID(w.ID)
	if err != nil {
		return err
	}
	name := w.Name
	if name == "" {
		name = w.FullName
	}
	phone := w.Phone
	if phone == "" {
		phone = w.PhoneNumber
	}
	*u = User{
		ID:    id,
		Name:  name,
		Email: w.Email,
		Role:  ParseRole(w.Role),
		Phone: phone,
	}
	return nil
}

// Tokens is the opaque credential pair issued by the remote API.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SessionStatus is the state of the session state machine.
type SessionStatus string

const (
	SessionAnonymous      SessionStatus = "anonymous"
	SessionAuthenticating SessionStatus = "authenticating"
	SessionAuthenticated  SessionStatus = "authenticated"
	SessionError          SessionStatus = "error"
)

func flexibleID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}
