package player

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as "M:SS". NaN, infinite and negative values
// render as "0:00".
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// finite returns v, or 0 for NaN, infinite or negative values.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func fraction(t, duration float64) float64 {
	t, duration = finite(t), finite(duration)
	if duration == 0 {
		return 0
	}
	return clamp01(t / duration)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
