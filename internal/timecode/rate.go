package timecode

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ErrInvalidRate is returned for non-positive or malformed frame rates.
var ErrInvalidRate = errors.New("invalid frame rate")

// Rate is an exact frame rate of Num/Den frames per second.
type Rate struct {
	Num int64
	Den int64
}

// Common disc frame rates.
var (
	Film     = Rate{Num: 24000, Den: 1001}
	Film24   = Rate{Num: 24, Den: 1}
	PAL      = Rate{Num: 25, Den: 1}
	NTSC     = Rate{Num: 30000, Den: 1001}
	PAL50    = Rate{Num: 50, Den: 1}
	NTSC5994 = Rate{Num: 60000, Den: 1001}
)

// NewRate validates num/den and reduces it to lowest terms.
func NewRate(num, den int64) (Rate, error) {
	if num <= 0 || den <= 0 {
		return Rate{}, fmt.Errorf("%w: %d/%d", ErrInvalidRate, num, den)
	}
	g := gcd(num, den)
	return Rate{Num: num / g, Den: den / g}, nil
}

// ParseRate accepts "24000/1001" or a plain integer such as "25".
func ParseRate(value string) (Rate, error) {
	value = strings.TrimSpace(value)
	numText, denText, found := strings.Cut(value, "/")
	if !found {
		denText = "1"
	}
	num, err := strconv.ParseInt(strings.TrimSpace(numText), 10, 64)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, value)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denText), 10, 64)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, value)
	}
	return NewRate(num, den)
}

// Valid reports whether both terms are positive.
func (r Rate) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

// Rat returns the rate as a fresh big.Rat.
func (r Rate) Rat() *big.Rat {
	return big.NewRat(r.Num, r.Den)
}

// Float64 approximates the rate for display only.
func (r Rate) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rate) String() string {
	return strconv.FormatInt(r.Num, 10) + "/" + strconv.FormatInt(r.Den, 10)
}

// MarshalText renders the rate as "num/den".
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the form produced by MarshalText.
func (r *Rate) UnmarshalText(text []byte) error {
	parsed, err := ParseRate(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
