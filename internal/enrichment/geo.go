package enrichment

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/models"
)

// ErrLocationUnavailable is returned by locators that have no data for an IP.
var ErrLocationUnavailable = errors.New("location unavailable")

// GeoLocation is the result of an IP lookup. Coordinates are optional.
type GeoLocation struct {
	Country     string
	CountryCode string
	Region      string
	City        string
	Latitude    *float64
	Longitude   *float64
	Timezone    string
	ISP         string
}

// GeoLocator resolves a public IP address to a location.
type GeoLocator interface {
	Locate(ip string) (*GeoLocation, error)
}

// StaticLocator answers every lookup with the same location. It stands in
// for a real GeoIP database.
type StaticLocator struct {
	Location GeoLocation
}

// NewStaticLocator returns a locator that always reports San Francisco.
func NewStaticLocator() *StaticLocator {
	lat, lon := 37.7749, -122.4194
	return &StaticLocator{
		Location: GeoLocation{
			Country:     "United States",
			CountryCode: "US",
			Region:      "California",
			City:        "San Francisco",
			Latitude:    &lat,
			Longitude:   &lon,
			Timezone:    "America/Los_Angeles",
			ISP:         "Unknown",
		},
	}
}

// Locate implements GeoLocator.
func (s *StaticLocator) Locate(ip string) (*GeoLocation, error) {
	loc := s.Location
	return &loc, nil
}

var unknownLocation = GeoLocation{
	Country:     "Unknown",
	CountryCode: "XX",
	Region:      "Unknown",
	City:        "Unknown",
	Timezone:    "Unknown",
	ISP:         "Unknown",
}

// geolocate resolves the client IP. Only the first address of a forwarded
// chain is considered.
func (e *Enricher) geolocate(ev models.Event) (models.Event, error) {
	raw := ev.String(models.FieldIPAddress)
	if raw == "" {
		return nil, nil
	}

	ip := strings.TrimSpace(strings.Split(raw, ",")[0])
	if isPrivateIP(ip) {
		return locationFields(&unknownLocation, true), nil
	}

	loc, err := e.locator.Locate(ip)
	if err != nil || loc == nil {
		fields := logrus.Fields{"ip_address": ip}
		if err != nil {
			fields["error"] = err.Error()
		}
		e.logger.WithFields(fields).Warn("Geolocation lookup failed, using unknown location")
		return locationFields(&unknownLocation, false), nil
	}

	return locationFields(loc, false), nil
}

func isPrivateIP(ip string) bool {
	for _, prefix := range privateIPPrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}

func locationFields(loc *GeoLocation, private bool) models.Event {
	fields := models.Event{
		"country":       loc.Country,
		"country_code":  loc.CountryCode,
		"region":        loc.Region,
		"city":          loc.City,
		"timezone":      loc.Timezone,
		"isp":           loc.ISP,
		"is_private_ip": private,
	}
	if loc.Latitude != nil {
		fields["latitude"] = *loc.Latitude
	}
	if loc.Longitude != nil {
		fields["longitude"] = *loc.Longitude
	}
	return fields
}
