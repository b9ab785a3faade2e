package models

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:16;default:user" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PublicLabel masks the email local part so certificates can name their
// owner without exposing who it is: "jane.doe@x.io" becomes "j******e".
func (u *User) PublicLabel() string {
	if u == nil {
		return "Learner"
	}
	local := u.Email
	if i := strings.IndexByte(local, '@'); i >= 0 {
		local = local[:i]
	}
	runes := []rune(local)
	switch {
	case len(runes) == 0:
		return "Learner"
	case len(runes) <= 2:
		return strings.Repeat("*", len(runes))
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}
