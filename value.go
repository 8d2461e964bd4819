package lox

import (
	"fmt"
	"math"
	"strconv"
)

// Value is any runtime value of the language: nil, bool, float64, string,
// *Function, *Native, *Class or *Instance.
type Value any

func isTruthy(val Value) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

func isEqual(fst, snd Value) bool {
	if fst == nil || snd == nil {
		return fst == nil && snd == nil
	}
	x, ok1 := fst.(float64)
	y, ok2 := snd.(float64)
	if ok1 && ok2 {
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	}
	return fst == snd
}

// Stringify gives the display form of a value as written by print.
func Stringify(val Value) string {
	switch v := val.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
