package booking

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
)

// Reference is the human-facing booking identifier: one uppercase letter
// followed by seven digits, e.g. W1234567. It is generated at creation time
// and unique across all bookings; a collision at insert time is handled by
// regenerating, never by reusing.
type Reference string

var (
	ErrInvalidReference = errors.New("invalid booking reference format")

	referencePattern = regexp.MustCompile(`^[A-Z][0-9]{7}$`)
)

const (
	referenceLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	referenceDigits  = 10000000
)

func NewReference() Reference {
	letter := referenceLetters[randInt(int64(len(referenceLetters)))]
	digits := randInt(referenceDigits)

	buf := make([]byte, 8)
	buf[0] = letter
	for i := 7; i >= 1; i-- {
		buf[i] = byte('0' + digits%10)
		digits /= 10
	}
	return Reference(buf)
}

func ParseReference(s string) (Reference, error) {
	if !referencePattern.MatchString(s) {
		return "", ErrInvalidReference
	}
	return Reference(s), nil
}

func (r Reference) String() string {
	return string(r)
}

func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken; there is no
		// weaker source worth falling back to for an identifier.
		panic(err)
	}
	return v.Int64()
}
