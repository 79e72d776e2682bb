package timecode

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// TicksPerSecond is the playlist clock used by mark and in/out timestamps.
const TicksPerSecond = 45000

// ErrInvalidPrecision is returned when a timestamp precision is not one of 0, 3, 6 or 9.
var ErrInvalidPrecision = errors.New("invalid timestamp precision")

// TicksToSeconds converts playlist ticks to exact seconds.
func TicksToSeconds(ticks int64) *big.Rat {
	return big.NewRat(ticks, TicksPerSecond)
}

// SecondsToFrame returns the frame nearest to seconds at rate, rounding
// half to even.
func SecondsToFrame(seconds *big.Rat, rate Rate) int64 {
	frames := new(big.Rat).Mul(seconds, rate.Rat())
	return roundHalfEven(frames)
}

// TicksToFrame converts a tick offset straight to a frame number.
func TicksToFrame(ticks int64, rate Rate) int64 {
	return SecondsToFrame(TicksToSeconds(ticks), rate)
}

// FrameToSeconds returns the exact presentation time of frame at rate.
func FrameToSeconds(frame int64, rate Rate) *big.Rat {
	return new(big.Rat).Mul(big.NewRat(frame, 1), big.NewRat(rate.Den, rate.Num))
}

// FrameToTimestamp renders frame as HH:MM:SS[.fff...] at rate.
func FrameToTimestamp(frame int64, rate Rate, precision int) (string, error) {
	if !rate.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}
	return SecondsToTimestamp(FrameToSeconds(frame, rate), precision)
}

// SecondsToTimestamp renders seconds as HH:MM:SS with precision fractional
// digits, truncating toward zero.
func SecondsToTimestamp(seconds *big.Rat, precision int) (string, error) {
	if err := ValidatePrecision(precision); err != nil {
		return "", err
	}

	sign := ""
	value := new(big.Rat).Set(seconds)
	if value.Sign() < 0 {
		sign = "-"
		value.Neg(value)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil)
	scaled := new(big.Int).Mul(value.Num(), scale)
	scaled.Quo(scaled, value.Denom())

	whole, frac := new(big.Int).QuoRem(scaled, scale, new(big.Int))
	total := whole.Int64()
	hours := total / 3600
	minutes := (total / 60) % 60
	secs := total % 60

	var b strings.Builder
	fmt.Fprintf(&b, "%s%02d:%02d:%02d", sign, hours, minutes, secs)
	if precision > 0 {
		fmt.Fprintf(&b, ".%0*d", precision, frac.Int64())
	}
	return b.String(), nil
}

// ValidatePrecision accepts 0, 3, 6 and 9.
func ValidatePrecision(precision int) error {
	if precision < 0 || precision > 9 || precision%3 != 0 {
		return fmt.Errorf("%w: %d (expected 0, 3, 6 or 9)", ErrInvalidPrecision, precision)
	}
	return nil
}

func roundHalfEven(value *big.Rat) int64 {
	num := value.Num()
	den := value.Denom()

	// Euclidean division with a positive denominator is a floor.
	q, m := new(big.Int).DivMod(num, den, new(big.Int))
	twice := new(big.Int).Lsh(m, 1)
	switch twice.Cmp(den) {
	case 1:
		q.Add(q, big.NewInt(1))
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
	}
	return q.Int64()
}
