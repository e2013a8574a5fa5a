package eta

import (
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/ctdf"
)

// Result is the arrival estimate for a device heading to a destination
type Result struct {
	DeviceID        string        `json:"device_id"`
	CurrentLocation ctdf.Location `json:"current_location"`
	Destination     ctdf.Location `json:"destination"`
	DistanceKm      float64       `json:"distance_km"`
	CurrentSpeedKmh float64       `json:"current_speed_kmh"`
	ETAMinutes      Estimate      `json:"eta_minutes"`
	ETAText         string        `json:"eta_text"`
	Updated         time.Time     `json:"updated"`
}

// ForFix estimates arrival at destination from the device's last fix and current speed
func ForFix(fix ctdf.DeviceFix, destination ctdf.Location) Result {
	current := fix.Location()
	distance := current.Distance(destination)
	estimate := Calculate(distance, fix.Speed)

	return Result{
		DeviceID:        fix.DeviceID,
		CurrentLocation: current,
		Destination:     destination,
		DistanceKm:      RoundDistance(distance),
		CurrentSpeedKmh: fix.Speed,
		ETAMinutes:      estimate,
		ETAText:         estimate.Text(),
		Updated:         fix.Updated,
	}
}
