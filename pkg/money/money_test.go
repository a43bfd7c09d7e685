package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.0, Round2(10))
	assert.Equal(t, 10.13, Round2(10.125))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 0.0, Round2(0.004))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 60.0, Percentage(200, 30))
	assert.Equal(t, 50.0, Percentage(100, 50))
	assert.Equal(t, 33.0, Percentage(99.99, 33))
	assert.Equal(t, 0.0, Percentage(0, 50))
	assert.Equal(t, 0.0, Percentage(100, 0))
}
