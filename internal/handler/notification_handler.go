package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/masjidhub/prayer-engine/internal/domain"
)

type NotificationService interface {
	DispatchPrayerAlert(ctx context.Context, prefs domain.PreferenceView, name domain.PrayerName, prayerTime string) domain.DispatchResult
	DispatchEventAlert(ctx context.Context, prefs domain.PreferenceView, event domain.Event) (domain.DispatchResult, error)
	DispatchTest(ctx context.Context, prefs domain.PreferenceView, name domain.PrayerName) domain.DispatchResult
	DispatchBulkEvent(ctx context.Context, prefsList []domain.PreferenceView, event domain.Event) (*domain.BulkResult, error)
}

type PreferenceStore interface {
	GetPreferenceView(ctx context.Context, userID string) (*domain.PreferenceView, error)
	ListByEventCategory(ctx context.Context, category string) ([]domain.PreferenceView, error)
	SaveDeviceToken(ctx context.Context, userID string, channel domain.ChannelKind, token string) error
}

type NotificationHandler struct {
	service NotificationService
	prefs   PreferenceStore
}

func NewNotificationHandler(service NotificationService, prefs PreferenceStore) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	if prefs == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	return &NotificationHandler{service: service, prefs: prefs}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService, prefs PreferenceStore) error {
	h, err := NewNotificationHandler(service, prefs)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/notifications/prayer", h.SendPrayerAlert)
	v1.Post("/notifications/event", h.SendEventAlert)
	v1.Post("/notifications/event/bulk", h.SendBulkEventAlert)
	v1.Post("/notifications/test", h.SendTestNotification)
	v1.Put("/devices/token", h.SaveDeviceToken)

	return nil
}

type prayerAlertRequest struct {
	UserID string `json:"userId"`
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
}

type eventRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
	Category    string `json:"category"`
}

type eventAlertRequest struct {
	UserID string       `json:"userId"`
	Event  eventRequest `json:"event"`
}

type bulkEventRequest struct {
	Event eventRequest `json:"event"`
}

type testNotificationRequest struct {
	UserID string `json:"userId"`
	Prayer string `json:"prayer,omitempty"`
}

type saveTokenRequest struct {
	UserID  string `json:"userId"`
	Channel string `json:"channel"`
	Token   string `json:"token"`
}

type outcomeResponse struct {
	Channel           string `json:"channel"`
	Success           bool   `json:"success"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`
	ErrorDetail       string `json:"errorDetail,omitempty"`
}

type dispatchResponse struct {
	Success  bool              `json:"success"`
	Skipped  string            `json:"skipped,omitempty"`
	Outcomes []outcomeResponse `json:"outcomes"`
}

type userDispatchResponse struct {
	UserID string `json:"userId"`
	dispatchResponse
}

type bulkDispatchResponse struct {
	TotalSent   int                    `json:"totalSent"`
	TotalFailed int                    `json:"totalFailed"`
	PerUser     []userDispatchResponse `json:"perUser"`
	StartedAt   time.Time              `json:"startedAt"`
	FinishedAt  time.Time              `json:"finishedAt"`
}

func (h *NotificationHandler) SendPrayerAlert(c *fiber.Ctx) error {
	var req prayerAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	name, err := domain.ParsePrayerName(req.Prayer)
	if err != nil {
		return toHTTPError(err)
	}
	if _, err := domain.ParseClock(req.Time); err != nil {
		return toHTTPError(err)
	}

	prefs, err := h.loadPreferences(c, req.UserID)
	if err != nil {
		return toHTTPError(err)
	}

	result := h.service.DispatchPrayerAlert(c.Context(), *prefs, name, req.Time)
	return c.Status(fiber.StatusOK).JSON(toDispatchResponse(result))
}

func (h *NotificationHandler) SendEventAlert(c *fiber.Ctx) error {
	var req eventAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	prefs, err := h.loadPreferences(c, req.UserID)
	if err != nil {
		return toHTTPError(err)
	}

	result, err := h.service.DispatchEventAlert(c.Context(), *prefs, toDomainEvent(req.Event))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toDispatchResponse(result))
}

func (h *NotificationHandler) SendBulkEventAlert(c *fiber.Ctx) error {
	var req bulkEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	event := toDomainEvent(req.Event)
	if err := event.Validate(); err != nil {
		return toHTTPError(err)
	}
	if event.Category == "" {
		return toHTTPError(fmt.Errorf("%w: event category is required", domain.ErrValidation))
	}

	recipients, err := h.prefs.ListByEventCategory(c.Context(), event.Category)
	if err != nil {
		return err
	}

	result, err := h.service.DispatchBulkEvent(c.Context(), recipients, event)
	if err != nil {
		return toHTTPError(err)
	}

	perUser := make([]userDispatchResponse, 0, len(result.PerUser))
	for _, userResult := range result.PerUser {
		perUser = append(perUser, userDispatchResponse{
			UserID:           userResult.UserID,
			dispatchResponse: toDispatchResponse(userResult.DispatchResult),
		})
	}

	return c.Status(fiber.StatusOK).JSON(bulkDispatchResponse{
		TotalSent:   result.TotalSent,
		TotalFailed: result.TotalFailed,
		PerUser:     perUser,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
	})
}

func (h *NotificationHandler) SendTestNotification(c *fiber.Ctx) error {
	var req testNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	name := domain.PrayerFajr
	if strings.TrimSpace(req.Prayer) != "" {
		parsed, err := domain.ParsePrayerName(req.Prayer)
		if err != nil {
			return toHTTPError(err)
		}
		name = parsed
	}

	prefs, err := h.loadPreferences(c, req.UserID)
	if err != nil {
		return toHTTPError(err)
	}

	result := h.service.DispatchTest(c.Context(), *prefs, name)
	return c.Status(fiber.StatusOK).JSON(toDispatchResponse(result))
}

func (h *NotificationHandler) SaveDeviceToken(c *fiber.Ctx) error {
	var req saveTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return toHTTPError(fmt.Errorf("%w: userId is required", domain.ErrValidation))
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return toHTTPError(fmt.Errorf("%w: token is required", domain.ErrValidation))
	}

	kind := domain.ChannelKind(strings.ToUpper(strings.TrimSpace(req.Channel)))
	if !kind.IsValid() {
		return toHTTPError(fmt.Errorf("%w: invalid channel %q", domain.ErrValidation, req.Channel))
	}

	if err := h.prefs.SaveDeviceToken(c.Context(), userID, kind, token); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"userId":  userID,
		"channel": kind.String(),
	})
}

func (h *NotificationHandler) loadPreferences(c *fiber.Ctx, userID string) (*domain.PreferenceView, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	return h.prefs.GetPreferenceView(c.Context(), trimmed)
}

func toDomainEvent(req eventRequest) domain.Event {
	return domain.Event{
		ID:          strings.TrimSpace(req.ID),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Date:        strings.TrimSpace(req.Date),
		Category:    strings.TrimSpace(req.Category),
	}
}

func toDispatchResponse(result domain.DispatchResult) dispatchResponse {
	outcomes := make([]outcomeResponse, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		outcomes = append(outcomes, outcomeResponse{
			Channel:           outcome.Channel.String(),
			Success:           outcome.Success,
			ProviderMessageID: outcome.ProviderMessageID,
			ErrorDetail:       outcome.ErrorDetail,
		})
	}

	return dispatchResponse{
		Success:  result.Success,
		Skipped:  result.Skipped,
		Outcomes: outcomes,
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
