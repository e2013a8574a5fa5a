package ctdf

import "math"

const EarthRadiusKm = 6371

type Location struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Distance returns the great-circle distance to other in kilometres
func (l Location) Distance(other Location) float64 {
	return DistanceKm(l.Lat, l.Lon, other.Lat, other.Lon)
}

// DistanceKm is the Haversine distance between two points given in degrees
func DistanceKm(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
