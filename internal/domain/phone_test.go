package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+55 (11) 98765-4321", "5511987654321"},
		{"11 98765 4321", "11987654321"},
		{"11987654321", "11987654321"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in))
	}
}

func TestSamePhone(t *testing.T) {
	assert.True(t, SamePhone("+55 (11) 98765-4321", "5511987654321"))
	assert.True(t, SamePhone("11 98765-4321", "11987654321"))
	assert.False(t, SamePhone("11987654321", "11987654322"))
	// Two empty numbers never authenticate.
	assert.False(t, SamePhone("", ""))
}
