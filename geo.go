package main

import (
	"math"
	"sort"
)

// parisLocation is the fallback origin when a client never shares its
// position (geolocation denied or unavailable).
var parisLocation = LatLng{Lat: 48.8566, Lon: 2.3522}

// haversineKm computes the great-circle distance between two points in km.
func haversineKm(a, b LatLng) float64 {
	const R = 6371 // Earth radius in km
	dLat := (b.Lat - a.Lat) * (math.Pi / 180)
	dLon := (b.Lon - a.Lon) * (math.Pi / 180)
	lat1 := a.Lat * (math.Pi / 180)
	lat2 := b.Lat * (math.Pi / 180)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// withinRadius keeps candidates at most radiusKm away from origin.
// radiusKm <= 0 disables filtering. A radius that would empty the deck
// falls back to the full candidate list instead of returning nothing.
func withinRadius(origin LatLng, candidates []Profile, radiusKm float64) []Profile {
	if radiusKm <= 0 {
		return candidates
	}
	kept := make([]Profile, 0, len(candidates))
	for _, p := range candidates {
		if haversineKm(origin, p.Location) <= radiusKm {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}

// sortByDistance orders profiles ascending by distance from origin.
// The sort is stable so equally distant profiles keep their deck order.
func sortByDistance(origin LatLng, profiles []Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		return haversineKm(origin, profiles[i].Location) < haversineKm(origin, profiles[j].Location)
	})
}
