// Package eta turns a distance and a current speed into an arrival estimate.
package eta

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	StoppedText = "Stopped"

	// MinMovingSpeedKmh is the slowest speed still treated as moving
	MinMovingSpeedKmh = 0.1
)

// Estimate is either a whole number of minutes or the stopped sentinel
type Estimate struct {
	Minutes int
	Stopped bool
}

// Calculate estimates the minutes needed to cover distanceKm at speedKmh.
// Anything slower than MinMovingSpeedKmh, including negative and NaN speeds, is Stopped.
func Calculate(distanceKm float64, speedKmh float64) Estimate {
	if math.IsNaN(speedKmh) || speedKmh < MinMovingSpeedKmh {
		return Estimate{Stopped: true}
	}

	if math.IsNaN(distanceKm) || distanceKm < 0 {
		distanceKm = 0
	}

	minutes := (distanceKm / speedKmh) * 60

	return Estimate{Minutes: int(math.Round(minutes))}
}

func (e Estimate) Text() string {
	if e.Stopped {
		return StoppedText
	}

	return fmt.Sprintf("%d minutes", e.Minutes)
}

func (e Estimate) String() string {
	return e.Text()
}

func (e Estimate) MarshalJSON() ([]byte, error) {
	if e.Stopped {
		return json.Marshal(StoppedText)
	}

	return json.Marshal(e.Minutes)
}

// RoundDistance rounds a distance to 2 decimal places for presentation
func RoundDistance(distanceKm float64) float64 {
	return math.Round(distanceKm*100) / 100
}
