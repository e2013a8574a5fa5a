package ctdf

import "time"

// DeviceFix is the last known state reported by a single tracking device.
// Only the most recent fix per DeviceID is ever kept.
type DeviceFix struct {
	DeviceID string    `json:"device_id" groups:"detailed"`
	Lat      float64   `json:"lat" groups:"basic,detailed" validate:"gte=-90,lte=90"`
	Lon      float64   `json:"lon" groups:"basic,detailed" validate:"gte=-180,lte=180"`
	Speed    float64   `json:"speed" groups:"basic,detailed" validate:"gte=0"`
	Updated  time.Time `json:"updated" groups:"basic,detailed"`
}

func (f *DeviceFix) Location() Location {
	return Location{
		Lat: f.Lat,
		Lon: f.Lon,
	}
}
