package lockkey

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Advisory lock keys for slot serialization.
//
// pg_advisory_xact_lock takes a signed 64-bit key, so the hash is masked to
// 63 bits to avoid negative keys. xxhash keeps the collision probability
// negligible for the (id, date) cardinality of a single installation.

const dateLayout = "2006-01-02"

// ForStaffSlot derives the lock key for a per-staff booking day.
func ForStaffSlot(staffID int64, date time.Time) int64 {
	return hash(fmt.Sprintf("staff:%d:%s", staffID, date.Format(dateLayout)))
}

// ForResourceSlot derives the lock key for a per-resource booking day.
func ForResourceSlot(resourceID int64, date time.Time) int64 {
	return hash(fmt.Sprintf("resource:%d:%s", resourceID, date.Format(dateLayout)))
}

func hash(s string) int64 {
	return int64(xxhash.Sum64String(s) & 0x7FFFFFFFFFFFFFFF)
}
