package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/masjidhub/prayer-engine/internal/domain"
	"github.com/masjidhub/prayer-engine/internal/provider"
	"github.com/masjidhub/prayer-engine/internal/service"
)

type TimetableService interface {
	GetDailyTimes(ctx context.Context, q service.DailyQuery) (*domain.PrayerSet, error)
	GetMonthlyTimes(ctx context.Context, q service.MonthQuery) ([]domain.PrayerSet, error)
	GetQibla(ctx context.Context, latitude, longitude float64) (*domain.QiblaInfo, error)
	GetIslamicDate(ctx context.Context, latitude, longitude float64) (*domain.IslamicDate, error)
}

type TimetableHandler struct {
	service TimetableService
	now     func() time.Time
}

func NewTimetableHandler(service TimetableService) (*TimetableHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("timetable service is required")
	}
	return &TimetableHandler{service: service, now: time.Now}, nil
}

func RegisterTimetableRoutes(router fiber.Router, service TimetableService) error {
	h, err := NewTimetableHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/timings", h.GetDailyTimings)
	v1.Get("/timings/monthly", h.GetMonthlyTimings)
	v1.Get("/timings/next", h.GetNextPrayer)
	v1.Get("/qibla", h.GetQibla)
	v1.Get("/date", h.GetIslamicDate)
	v1.Get("/methods", h.GetMethods)

	return nil
}

type dateResponse struct {
	Readable  string `json:"readable"`
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

type timetableMetaResponse struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Timezone   string  `json:"timezone"`
	MethodID   int     `json:"methodId"`
	MethodName string  `json:"methodName"`
}

type prayerSetResponse struct {
	Date    dateResponse          `json:"date"`
	Timings map[string]string     `json:"timings"`
	Meta    timetableMetaResponse `json:"meta"`
}

type nextPrayerResponse struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	NextDay   bool   `json:"nextDay"`
}

type qiblaResponse struct {
	Direction float64 `json:"direction"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type islamicDateResponse struct {
	Hijri     string `json:"hijri"`
	HijriDay  string `json:"hijriDay"`
	Gregorian string `json:"gregorian"`
	Weekday   string `json:"weekday"`
}

type methodResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (h *TimetableHandler) GetDailyTimings(c *fiber.Ctx) error {
	latitude, longitude, err := parseCoordinates(c)
	if err != nil {
		return toHTTPError(err)
	}

	set, err := h.service.GetDailyTimes(c.Context(), service.DailyQuery{
		Latitude:  latitude,
		Longitude: longitude,
		Date:      strings.TrimSpace(c.Query("date")),
		Method:    c.QueryInt("method", 0),
		Timezone:  strings.TrimSpace(c.Query("timezone")),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toPrayerSetResponse(set))
}

func (h *TimetableHandler) GetMonthlyTimings(c *fiber.Ctx) error {
	latitude, longitude, err := parseCoordinates(c)
	if err != nil {
		return toHTTPError(err)
	}

	month := c.QueryInt("month", 0)
	if month < 0 || month > 12 {
		return toHTTPError(fmt.Errorf("%w: month must be between 1 and 12", domain.ErrValidation))
	}

	sets, err := h.service.GetMonthlyTimes(c.Context(), service.MonthQuery{
		Latitude:  latitude,
		Longitude: longitude,
		Year:      c.QueryInt("year", 0),
		Month:     month,
		Method:    c.QueryInt("method", 0),
	})
	if err != nil {
		return err
	}

	days := make([]prayerSetResponse, 0, len(sets))
	for i := range sets {
		days = append(days, toPrayerSetResponse(&sets[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"days": days})
}

func (h *TimetableHandler) GetNextPrayer(c *fiber.Ctx) error {
	latitude, longitude, err := parseCoordinates(c)
	if err != nil {
		return toHTTPError(err)
	}

	set, err := h.service.GetDailyTimes(c.Context(), service.DailyQuery{
		Latitude:  latitude,
		Longitude: longitude,
		Method:    c.QueryInt("method", 0),
		Timezone:  strings.TrimSpace(c.Query("timezone")),
	})
	if err != nil {
		return err
	}

	next := domain.NextPrayer(*set, h.now())
	return c.Status(fiber.StatusOK).JSON(nextPrayerResponse{
		Prayer:    next.Name.String(),
		Time:      next.Time,
		Remaining: next.Remaining,
		NextDay:   next.NextDay,
	})
}

func (h *TimetableHandler) GetQibla(c *fiber.Ctx) error {
	latitude, longitude, err := parseCoordinates(c)
	if err != nil {
		return toHTTPError(err)
	}

	info, err := h.service.GetQibla(c.Context(), latitude, longitude)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(qiblaResponse{
		Direction: info.Direction,
		Latitude:  info.Latitude,
		Longitude: info.Longitude,
	})
}

func (h *TimetableHandler) GetIslamicDate(c *fiber.Ctx) error {
	// Optional location; zero coordinates fall back to the reference point.
	latitude := c.QueryFloat("latitude", 0)
	longitude := c.QueryFloat("longitude", 0)
	if err := validateCoordinates(latitude, longitude); err != nil {
		return toHTTPError(err)
	}

	islamic, err := h.service.GetIslamicDate(c.Context(), latitude, longitude)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(islamicDateResponse{
		Hijri:     islamic.Hijri,
		HijriDay:  islamic.HijriDay,
		Gregorian: islamic.Gregorian,
		Weekday:   islamic.Weekday,
	})
}

func (h *TimetableHandler) GetMethods(c *fiber.Ctx) error {
	methods := provider.CalculationMethods()
	items := make([]methodResponse, 0, len(methods))
	for _, m := range methods {
		items = append(items, methodResponse{ID: m.ID, Name: m.Name})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"methods": items})
}

func parseCoordinates(c *fiber.Ctx) (float64, float64, error) {
	if strings.TrimSpace(c.Query("latitude")) == "" || strings.TrimSpace(c.Query("longitude")) == "" {
		return 0, 0, fmt.Errorf("%w: latitude and longitude are required", domain.ErrValidation)
	}

	latitude := c.QueryFloat("latitude", 0)
	longitude := c.QueryFloat("longitude", 0)
	if err := validateCoordinates(latitude, longitude); err != nil {
		return 0, 0, err
	}

	return latitude, longitude, nil
}

func validateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}

func toPrayerSetResponse(set *domain.PrayerSet) prayerSetResponse {
	if set == nil {
		return prayerSetResponse{}
	}

	timings := make(map[string]string, len(set.Prayers))
	for name, clock := range set.Prayers {
		timings[name.String()] = clock
	}

	return prayerSetResponse{
		Date: dateResponse{
			Readable:  set.Date.Readable,
			Gregorian: set.Date.Gregorian,
			Hijri:     set.Date.Hijri,
		},
		Timings: timings,
		Meta: timetableMetaResponse{
			Latitude:   set.Meta.Latitude,
			Longitude:  set.Meta.Longitude,
			Timezone:   set.Meta.Timezone,
			MethodID:   set.Meta.MethodID,
			MethodName: set.Meta.MethodName,
		},
	}
}
