package service

import (
	"fmt"
	"time"
)

// NextCaseNumber derives the next human-readable case number from the
// current total case count, formatted PV-<year>-<seq> with the sequence
// zero-padded to three digits. A negative count (a failed count lookup
// reported as -1, say) is treated as zero.
//
// Numbers are only monotonic when allocations are serialized; two
// concurrent submissions can read the same count and derive the same
// number. The cases table's UNIQUE constraint on case_number turns that
// race into an insert error rather than a silent duplicate.
func NextCaseNumber(count int, now time.Time) string {
	if count < 0 {
		count = 0
	}
	return fmt.Sprintf("PV-%d-%03d", now.Year(), count+1)
}
