// Package sandboxcard produces the canned card data the sandbox gateway
// attaches to transactions it creates. Numbers are Luhn-valid test PANs from
// a well-known test BIN and are never real cards.
package sandboxcard

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const (
	testBIN  = "411111"
	panLen   = 16
	CardType = "Visa"
)

// Number generates a Luhn-valid 16-digit test PAN on the sandbox BIN.
func Number() (string, error) {
	fill := panLen - 1 - len(testBIN)
	digits, err := randomDigits(fill)
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	body := testBIN + digits
	return body + luhnCheckDigit(body), nil
}

// Masked renders a PAN in gateway summary form, BIN and last four visible.
func Masked(pan string) string {
	if len(pan) <= 10 {
		return strings.Repeat("*", len(pan))
	}
	return pan[:6] + strings.Repeat("*", len(pan)-10) + pan[len(pan)-4:]
}

func LastFour(pan string) string {
	if len(pan) <= 4 {
		return pan
	}
	return pan[len(pan)-4:]
}

// Expiration returns a card expiration in MM/YYYY form, years ahead of now.
func Expiration(now time.Time, years int) string {
	t := now.UTC()
	return fmt.Sprintf("%02d/%04d", int(t.Month()), t.Year()+years)
}

// Valid reports whether pan is all digits with a correct Luhn check digit.
func Valid(pan string) bool {
	if len(pan) != panLen {
		return false
	}
	for i := 0; i < len(pan); i++ {
		if pan[i] < '0' || pan[i] > '9' {
			return false
		}
	}
	body := pan[:len(pan)-1]
	return pan[len(pan)-1:] == luhnCheckDigit(body)
}

// randomDigits generates count digits with rejection sampling so the
// distribution over 0..9 stays uniform.
func randomDigits(count int) (string, error) {
	const threshold = 250 // 256 - (256 % 10)
	var sb strings.Builder
	sb.Grow(count)
	buf := make([]byte, 32)
	for sb.Len() < count {
		n, err := rand.Read(buf)
		if err != nil {
			return "", err
		}
		for i := 0; i < n && sb.Len() < count; i++ {
			if buf[i] < threshold {
				sb.WriteByte('0' + buf[i]%10)
			}
		}
	}
	return sb.String(), nil
}

func luhnCheckDigit(body string) string {
	sum, double := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return string('0' + byte((10-sum%10)%10))
}
