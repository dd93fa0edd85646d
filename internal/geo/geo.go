// Package geo ranks stores by great-circle distance from a point.
package geo

import (
	"fmt"
	"math"
	"net/url"
	"sort"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
)

const EarthRadiusKm = 6371.0

// ValidPoint reports whether lat/lng is a finite coordinate on the globe.
func ValidPoint(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RankByDistance attaches distances from (lat, lng), sorts ascending with a
// stable sort and truncates to limit. limit <= 0 keeps everything.
func RankByDistance(stores []*domain.Store, lat, lng float64, limit int) []*domain.NearbyStore {
	out := make([]*domain.NearbyStore, 0, len(stores))
	for _, s := range stores {
		d := HaversineKm(lat, lng, s.Lat, s.Lng)
		out = append(out, &domain.NearbyStore{
			Store:      s,
			DistanceKm: &d,
			MapsURL:    MapsURL(s),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceKm < *out[j].DistanceKm
	})
	return truncate(out, limit)
}

// Unranked keeps the incoming order. Used when the caller has no location.
func Unranked(stores []*domain.Store, limit int) []*domain.NearbyStore {
	out := make([]*domain.NearbyStore, 0, len(stores))
	for _, s := range stores {
		out = append(out, &domain.NearbyStore{
			Store:   s,
			MapsURL: MapsURL(s),
		})
	}
	return truncate(out, limit)
}

// MapsURL builds a Google Maps search link, preferring the place id when set.
func MapsURL(s *domain.Store) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", fmt.Sprintf("%.6f,%.6f", s.Lat, s.Lng))
	if s.PlaceID != "" {
		q.Set("query_place_id", s.PlaceID)
	}
	return "https://www.google.com/maps/search/?" + q.Encode()
}

func truncate(list []*domain.NearbyStore, limit int) []*domain.NearbyStore {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
