package insights

import (
	"errors"
	"math"
)

// MinTrendPoints is the smallest series a trend is fitted on.
const MinTrendPoints = 3

// ErrInsufficientPoints is returned when a series is too short for a trend.
var ErrInsufficientPoints = errors.New("insights: not enough points for a trend")

// Trend is an ordinary least squares line fitted over the series index.
type Trend struct {
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	RSquared  float64   `json:"r_squared"`
	Fitted    []float64 `json:"fitted"`
	Next      float64   `json:"next"`
}

// At evaluates the fitted line at index x.
func (t Trend) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// FitTrend fits y = slope*x + intercept with x = 0..n-1 and projects the
// value at index n.
func FitTrend(values []float64) (Trend, error) {
	if len(values) < MinTrendPoints {
		return Trend{}, ErrInsufficientPoints
	}

	// slope = (n*Σxy - Σx*Σy) / (n*Σx² - (Σx)²), intercept = (Σy - slope*Σx) / n
	n := float64(len(values))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}
	denominator := n*sumX2 - sumX*sumX
	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	var r float64
	spread := math.Sqrt(denominator * (n*sumY2 - sumY*sumY))
	if spread > 1e-10 {
		r = (n*sumXY - sumX*sumY) / spread
	}

	trend := Trend{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r * r,
		Fitted:    make([]float64, len(values)),
	}
	for i := range values {
		trend.Fitted[i] = trend.At(float64(i))
	}
	trend.Next = trend.At(n)
	return trend, nil
}

// ProjectRevenue fits the revenue series. Revenue cannot be negative so the
// projection is clamped at zero.
func ProjectRevenue(points []TimeSeriesPoint) (Trend, error) {
	trend, err := FitTrend(revenues(points))
	if err != nil {
		return Trend{}, err
	}
	trend.Next = math.Max(0, trend.Next)
	return trend, nil
}

// ProjectProfit fits the profit series. The projection is not clamped: a
// loss-making trend projects a loss.
func ProjectProfit(points []TimeSeriesPoint) (Trend, error) {
	return FitTrend(profits(points))
}

func revenues(points []TimeSeriesPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Revenue
	}
	return out
}

func profits(points []TimeSeriesPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Profit
	}
	return out
}
