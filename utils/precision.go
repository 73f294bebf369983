package utils

import (
	"github.com/shopspring/decimal"
)

const MaxTimePrecision = 12

// GetPrecision returns the smallest number of decimal digits k such that
// num*10^k is integral, using the shortest decimal representation of num so that
// 0.025 yields 3 rather than the digits of its binary expansion. The result is
// capped at MaxTimePrecision, callers check IsIntegralAt for an exact value.
func GetPrecision(num float64) (precision int) {
	for precision = 0; precision < MaxTimePrecision; precision++ {
		if IsIntegralAt(num, precision) {
			return
		}
	}
	return
}

// IsIntegralAt reports whether num*10^precision is an integer, i.e. num is
// represented exactly with precision fractional digits
func IsIntegralAt(num float64, precision int) bool {
	s := decimal.NewFromFloat(num).Shift(int32(precision))
	return s.Equal(s.Truncate(0))
}

// FormatTime renders t with exactly precision fractional digits. Values that
// round to zero never carry a minus sign.
func FormatTime(t float64, precision int) string {
	return decimal.NewFromFloat(t).StringFixed(int32(precision))
}

// QuantizeTime returns round(t * 10^precision), the integer tick used to compare
// and key times that were produced by floating point accumulation.
func QuantizeTime(t float64, precision int) int64 {
	return decimal.NewFromFloat(t).Round(int32(precision)).Shift(int32(precision)).IntPart()
}

// TickToTime is the inverse of QuantizeTime
func TickToTime(tick int64, precision int) float64 {
	f, _ := decimal.New(tick, -int32(precision)).Float64()
	return f
}

// FormatTick renders a quantized time with precision fractional digits
func FormatTick(tick int64, precision int) string {
	return decimal.New(tick, -int32(precision)).StringFixed(int32(precision))
}
