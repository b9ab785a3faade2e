package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicLabel(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane.doe@example.io", "j******e"},
		{"bob@example.com", "b*b"},
		{"al@example.com", "**"},
		{"x@example.com", "*"},
		{"@example.com", "Learner"},
		{"", "Learner"},
	}
	for _, tt := range tests {
		u := &User{Email: tt.email}
		assert.Equal(t, tt.want, u.PublicLabel(), tt.email)
		assert.NotContains(t, u.PublicLabel(), "@")
	}

	var nilUser *User
	assert.Equal(t, "Learner", nilUser.PublicLabel())
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
}
