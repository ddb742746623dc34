package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", Admin, true},
		{"ADMIN", Admin, true},
		{"Admin", Admin, true},
		{" admin ", Admin, true},
		{"user", User, true},
		{"USER", User, true},
		{"", "", false},
		{"superuser", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIs(t *testing.T) {
	assert.True(t, Is("ADMIN", Admin))
	assert.True(t, Is("admin", Admin))
	assert.False(t, Is("user", Admin))
	assert.False(t, Is("", Admin))
	assert.True(t, Is("User", User))
}
