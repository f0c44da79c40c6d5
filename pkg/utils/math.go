package utils

import (
	"math"
	"strconv"
	"strings"
)

// RoundDecimal rounds a float64 value to the specified number of decimal places,
// half away from zero. For example, RoundDecimal(3.14159, 2) returns 3.14.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}

// FormatDecimal renders v in its shortest form but always with a fractional
// part, so 5 becomes "5.0" and 4.96 stays "4.96".
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
