package lockkey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockKeys(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	otherDate := date.AddDate(0, 0, 1)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, ForStaffSlot(7, date), ForStaffSlot(7, date))
		assert.Equal(t, ForResourceSlot(3, date), ForResourceSlot(3, date))
	})

	t.Run("distinct per id and date", func(t *testing.T) {
		assert.NotEqual(t, ForStaffSlot(7, date), ForStaffSlot(8, date))
		assert.NotEqual(t, ForStaffSlot(7, date), ForStaffSlot(7, otherDate))
		assert.NotEqual(t, ForResourceSlot(3, date), ForResourceSlot(4, date))
	})

	t.Run("staff and resource namespaces do not collide", func(t *testing.T) {
		assert.NotEqual(t, ForStaffSlot(3, date), ForResourceSlot(3, date))
	})

	t.Run("keys are non-negative", func(t *testing.T) {
		for id := int64(1); id <= 100; id++ {
			assert.GreaterOrEqual(t, ForStaffSlot(id, date), int64(0))
			assert.GreaterOrEqual(t, ForResourceSlot(id, date), int64(0))
		}
	})

	t.Run("time of day does not change the key", func(t *testing.T) {
		afternoon := time.Date(2026, 9, 15, 16, 45, 12, 0, time.UTC)
		assert.Equal(t, ForStaffSlot(7, date), ForStaffSlot(7, afternoon))
	})
}
