package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/adhan/internal/hijri"
	"github.com/smokyabdulrahman/adhan/internal/method"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/qibla"
)

const dateLayout = "2006-01-02"

// EventJSON is one of the nine events. Time is null when there is none.
type EventJSON struct {
	Name   prayer.EventName `json:"name"`
	Title  string           `json:"title"`
	Time   *time.Time       `json:"time"`
	Clock  string           `json:"clock,omitempty"`
	Status prayer.Status    `json:"status"`
}

// TimesResponse is the body of GET /api/times.
type TimesResponse struct {
	Date      string      `json:"date"`
	Timezone  string      `json:"timezone"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Method    string      `json:"method"`
	Madhab    string      `json:"madhab"`
	Hijri     string      `json:"hijri"`
	Events    []EventJSON `json:"events"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// NextResponse is the body of GET /api/next.
type NextResponse struct {
	Event            prayer.Event `json:"event"`
	Title            string       `json:"title"`
	RemainingSeconds int64        `json:"remaining_seconds"`
	Remaining        string       `json:"remaining"`
	Warnings         []string     `json:"warnings,omitempty"`
}

// MethodJSON is one row of GET /api/methods.
type MethodJSON struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	FajrAngle    float64            `json:"fajr_angle"`
	IshaAngle    float64            `json:"isha_angle,omitempty"`
	IshaInterval int                `json:"isha_interval,omitempty"`
	Isha         string             `json:"isha"`
	Adjustments  method.Adjustments `json:"adjustments"`
}

// HijriResponse is the body of GET /api/hijri.
type HijriResponse struct {
	Gregorian    string     `json:"gregorian"`
	Hijri        hijri.Date `json:"hijri"`
	Text         string     `json:"text"`
	MonthName    string     `json:"month_name"`
	Ramadan      bool       `json:"ramadan"`
	MoonAge      float64    `json:"moon_age_days"`
	MoonPhase    string     `json:"moon_phase"`
	Illumination float64    `json:"illumination"`
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// settingsFor applies query overrides (lat, lon, elevation, method, madhab,
// tz) to the server's settings.
func (s *Server) settingsFor(c *gin.Context) (prayer.Settings, error) {
	settings := s.currentSettings()

	float := func(key string, dst *float64) error {
		v := c.Query(key)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q", key, v)
		}
		*dst = f
		return nil
	}
	if err := errors.Join(
		float("lat", &settings.Coordinates.Latitude),
		float("lon", &settings.Coordinates.Longitude),
		float("elevation", &settings.Coordinates.Elevation),
	); err != nil {
		return settings, err
	}
	if err := settings.Coordinates.Validate(); err != nil {
		return settings, err
	}

	if v := c.Query("method"); v != "" {
		if _, err := method.Lookup(v); err != nil {
			return settings, err
		}
		settings.Method = v
	}
	if v := c.Query("madhab"); v != "" {
		m, err := method.ParseMadhab(v)
		if err != nil {
			return settings, err
		}
		settings.Madhab = m
	}
	if v := c.Query("tz"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return settings, fmt.Errorf("invalid tz %q", v)
		}
		settings.Location = loc
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return settings, nil
}

// dateFor parses ?date=YYYY-MM-DD in loc, defaulting to today.
func (s *Server) dateFor(c *gin.Context, loc *time.Location) (time.Time, error) {
	v := c.Query("date")
	if v == "" {
		return s.now().In(loc), nil
	}
	d, err := time.ParseInLocation(dateLayout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", v)
	}
	return d.Add(12 * time.Hour), nil
}

func (s *Server) handleTimes(c *gin.Context) {
	settings, err := s.settingsFor(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	date, err := s.dateFor(c, settings.Location)
	if err != nil {
		badRequest(c, err)
		return
	}

	var warnings []string
	engine, err := settings.Engine(date)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	day := engine.Day(date)
	if err := day.Prayers.Err(); err != nil {
		warnings = append(warnings, err.Error())
	}

	events := make([]EventJSON, 0, len(prayer.CanonicalOrder))
	for _, name := range prayer.CanonicalOrder {
		t, _ := day.Get(name)
		ev := EventJSON{Name: name, Title: name.Title(), Status: t.Status}
		if t.Valid() {
			instant := t.Instant
			ev.Time = &instant
			ev.Clock = instant.Format("15:04")
		}
		events = append(events, ev)
	}

	c.JSON(http.StatusOK, TimesResponse{
		Date:      date.Format(dateLayout),
		Timezone:  settings.Location.String(),
		Latitude:  settings.Coordinates.Latitude,
		Longitude: settings.Coordinates.Longitude,
		Method:    string(engine.Params.Method),
		Madhab:    settings.Madhab.String(),
		Hijri:     hijri.FromTime(date, s.hijriOffset).String(),
		Events:    events,
		Warnings:  warnings,
	})
}

func (s *Server) handleNext(c *gin.Context) {
	settings, err := s.settingsFor(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	now := s.now()
	var warnings []string
	engine, err := settings.Engine(now)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	ev, ok := engine.Next(now)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no upcoming event could be computed"})
		return
	}
	remaining := prayer.TimeRemaining(ev, now)
	c.JSON(http.StatusOK, NextResponse{
		Event:            ev,
		Title:            ev.Name.Title(),
		RemainingSeconds: int64(remaining / time.Second),
		Remaining:        prayer.FormatRemaining(remaining),
		Warnings:         warnings,
	})
}

func (s *Server) handleQibla(c *gin.Context) {
	settings, err := s.settingsFor(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, qibla.From(settings.Coordinates.Latitude, settings.Coordinates.Longitude))
}

func (s *Server) handleMethods(c *gin.Context) {
	infos := method.All()
	out := make([]MethodJSON, 0, len(infos))
	for _, info := range infos {
		out = append(out, MethodJSON{
			Name:         string(info.Method),
			Description:  info.Description,
			FajrAngle:    info.FajrAngle,
			IshaAngle:    info.IshaAngle,
			IshaInterval: info.IshaInterval,
			Isha:         info.IshaLabel(),
			Adjustments:  info.Adjustments,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleHijri(c *gin.Context) {
	loc := s.currentSettings().Location
	if loc == nil {
		loc = time.Local
	}
	date, err := s.dateFor(c, loc)
	if err != nil {
		badRequest(c, err)
		return
	}
	h := hijri.FromTime(date, s.hijriOffset)
	c.JSON(http.StatusOK, HijriResponse{
		Gregorian:    date.Format(dateLayout),
		Hijri:        h,
		Text:         h.String(),
		MonthName:    h.MonthName(),
		Ramadan:      h.IsRamadan(),
		MoonAge:      hijri.MoonAge(date),
		MoonPhase:    hijri.Phase(date),
		Illumination: hijri.Illumination(date),
	})
}
