package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Identifiers are sparse random numeric strings, reserved by the unique
// insert they ride in on. Generation alone never guarantees uniqueness; the
// caller retries the whole atomic unit on a duplicate-record error, up to
// maxIdentifierAttempts, then gives up with ErrIdentifierSpaceExhausted.
const maxIdentifierAttempts = 5

// newAccountID returns a 9-digit numeric account identifier candidate.
func newAccountID() string {
	return randomNumeric(100000000, 999999999)
}

// newTransactionID returns a 10-digit numeric transaction identifier candidate.
func newTransactionID() string {
	return randomNumeric(1000000000, 9999999999)
}

func randomNumeric(min, max int64) string {
	span := big.NewInt(max - min + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken.
		panic(fmt.Sprintf("read random identifier: %v", err))
	}
	return fmt.Sprintf("%d", n.Int64()+min)
}
