package analytics

import (
	"math"

	"fintrack/internal/core"
)

// ForecastMonths is the fixed trailing window the forecaster operates on.
const ForecastMonths = 6

// PredictNext fits an ordinary least-squares line over values (month index
// as the independent variable) and extrapolates one step past the last
// observed index. With fewer than two points the regression degenerates, so
// the single value (or zero) is returned directly.
func PredictNext(values []float64) float64 {
	n := len(values)
	if n < 2 {
		if n == 0 {
			return 0
		}
		return values[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	return slope*fn + intercept
}

// ForecastExpenses predicts the next month's expense total from a trailing
// series of monthly totals (oldest first, empty months included as zero).
// The prediction is clamped at zero and rounded to the nearest whole
// currency unit; the history is returned unrounded.
func ForecastExpenses(history []core.Money) core.Forecast {
	values := make([]float64, len(history))
	for i, m := range history {
		values[i] = m.Units()
	}

	predicted := PredictNext(values)
	if predicted < 0 {
		predicted = 0
	}
	return core.Forecast{
		Predicted: int64(math.Round(predicted)),
		History:   history,
	}
}
