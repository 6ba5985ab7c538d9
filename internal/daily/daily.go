// internal/daily/daily.go
//
// Date-seeded randomness for the daily challenge. Every player gets the
// same page order, pick, hints and option order for a given UTC date.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives a deterministic seed from HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]) >> 1)
}

// Rand returns a fresh source seeded for date.
func Rand(date time.Time, salt string) *rand.Rand {
	return rand.New(rand.NewSource(Seed(date, salt)))
}
