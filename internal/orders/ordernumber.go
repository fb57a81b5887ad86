package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// orderNumberAlphabet excludes lowercase so numbers read cleanly on
// packing slips and in support tickets.
const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const orderNumberSuffixLen = 6

// NewOrderNumber returns a human-readable order number of the form
// ORD-YYYYMMDD-XXXXXX. The suffix is drawn from crypto/rand; collisions
// are possible and resolved by the caller regenerating on a unique
// violation.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, orderNumberSuffixLen)
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate order number suffix: %w", err)
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix), nil
}
