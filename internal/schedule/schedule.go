package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nathan-osman/go-sunrise"
	"github.com/wheelibin/phuey/internal/constants"
)

type Event string

const (
	Sunrise Event = "sunrise"
	Sunset  Event = "sunset"
)

var (
	ErrInvalidEvent       = errors.New("expected sunrise or sunset, optionally with an offset such as sunset-1h")
	ErrInvalidGeoLocation = errors.New("expected a geo location as lat,lng")
	ErrNoSunEvent         = errors.New("the sun does not rise or set at this location on that day")
)

// At is a solar event shifted by an offset, e.g. "sunset-30m".
type At struct {
	Event  Event
	Offset time.Duration
}

func ParseAt(s string) (At, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, event := range []Event{Sunrise, Sunset} {
		if !strings.HasPrefix(s, string(event)) {
			continue
		}
		if s == string(event) {
			return At{Event: event}, nil
		}
		offset, err := time.ParseDuration(s[len(event):])
		if err != nil {
			return At{}, fmt.Errorf("%w: %q", ErrInvalidEvent, s)
		}
		return At{Event: event, Offset: offset}, nil
	}
	return At{}, fmt.Errorf("%w: %q", ErrInvalidEvent, s)
}

func (a At) String() string {
	if a.Offset == 0 {
		return string(a.Event)
	}
	if a.Offset > 0 {
		return fmt.Sprintf("%s+%s", a.Event, a.Offset)
	}
	return fmt.Sprintf("%s%s", a.Event, a.Offset)
}

type GeoLocation struct {
	Lat float64
	Lng float64
}

// ParseGeoLocation reads "lat,lng" in decimal degrees.
func ParseGeoLocation(s string) (GeoLocation, error) {
	latLng := strings.Split(s, ",")
	if len(latLng) != 2 {
		return GeoLocation{}, fmt.Errorf("%w: %q", ErrInvalidGeoLocation, s)
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latLng[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(latLng[1]), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return GeoLocation{}, fmt.Errorf("%w: %q", ErrInvalidGeoLocation, s)
	}
	return GeoLocation{Lat: lat, Lng: lng}, nil
}

// Bounds clamp the calculated sun times to local "HH:MM" times. Empty
// values leave that side unbounded.
type Bounds struct {
	SunriseMin string
	SunriseMax string
	SunsetMin  string
	SunsetMax  string
}

type SunTimes struct {
	Sunrise time.Time
	Sunset  time.Time
}

// Planner works out when solar events happen at a location.
type Planner struct {
	logger   *log.Logger
	location GeoLocation
	bounds   Bounds
	tz       *time.Location
}

// NewPlanner returns a planner for the given location. A nil tz uses the local time zone.
func NewPlanner(logger *log.Logger, location GeoLocation, bounds Bounds, tz *time.Location) *Planner {
	if tz == nil {
		tz = time.Local
	}
	return &Planner{
		logger:   logger.With("component", "schedule"),
		location: location,
		bounds:   bounds,
		tz:       tz,
	}
}

// SunTimes calculates sunrise and sunset on the given day, clamped to the bounds.
func (p *Planner) SunTimes(day time.Time) (SunTimes, error) {
	baseDate := day.In(p.tz)
	rise, set := sunrise.SunriseSunset(
		p.location.Lat, p.location.Lng,
		baseDate.Year(), baseDate.Month(), baseDate.Day(),
	)
	if rise.IsZero() || set.IsZero() {
		return SunTimes{}, fmt.Errorf("%w: %s", ErrNoSunEvent, baseDate.Format(time.DateOnly))
	}

	rise, err := p.clamp(rise, p.bounds.SunriseMin, p.bounds.SunriseMax, baseDate)
	if err != nil {
		return SunTimes{}, err
	}
	set, err = p.clamp(set, p.bounds.SunsetMin, p.bounds.SunsetMax, baseDate)
	if err != nil {
		return SunTimes{}, err
	}

	p.logger.Info("Calculated local sunrise and sunset",
		"sunrise", rise.In(p.tz).Format("15:04"),
		"sunset", set.In(p.tz).Format("15:04"),
	)
	return SunTimes{Sunrise: rise, Sunset: set}, nil
}

func (p *Planner) clamp(t time.Time, lower string, upper string, baseDate time.Time) (time.Time, error) {
	if lower != "" {
		minTime, err := TimeFromConfigTimeString(lower, baseDate)
		if err != nil {
			return time.Time{}, err
		}
		if t.Before(minTime) {
			t = minTime
		}
	}
	if upper != "" {
		maxTime, err := TimeFromConfigTimeString(upper, baseDate)
		if err != nil {
			return time.Time{}, err
		}
		if t.After(maxTime) {
			t = maxTime
		}
	}
	return t, nil
}

// Next returns the first occurrence of at after now, today's or tomorrow's.
func (p *Planner) Next(at At, now time.Time) (time.Time, error) {
	for days := 0; days < 2; days++ {
		times, err := p.SunTimes(now.AddDate(0, 0, days))
		if err != nil {
			return time.Time{}, err
		}
		t := times.Sunrise
		if at.Event == Sunset {
			t = times.Sunset
		}
		t = t.Add(at.Offset)
		if t.After(now) {
			return t.In(p.tz), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: no %s in the next two days", ErrNoSunEvent, at)
}

// BridgeLocalTime formats t the way the bridge expects a one-off schedule's localtime.
func (p *Planner) BridgeLocalTime(t time.Time) string {
	return t.In(p.tz).Format(constants.ScheduleTimeFormat)
}

// TimeFromConfigTimeString builds a time from an "HH:MM" string on the base date.
func TimeFromConfigTimeString(timeString string, baseDate time.Time) (time.Time, error) {
	hm, err := time.Parse("15:04", strings.TrimSpace(timeString))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM: %w", timeString, err)
	}
	return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), hm.Hour(), hm.Minute(), 0, 0, baseDate.Location()), nil
}
