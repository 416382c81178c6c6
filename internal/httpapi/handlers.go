package httpapi

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"RecordsScanner/internal/ports"
	"RecordsScanner/internal/usecase"
)

const defaultArrestLimit = 50

type handlers struct {
	lookup  HearingLookup
	ingest  IngestRunner
	arrests ports.ArrestRepository
	logger  *slog.Logger
}

type searchRequest struct {
	FullName   string `json:"fullName"`
	State      string `json:"state"`
	County     string `json:"county"`
	MaxResults int    `json:"maxResults"`
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func (h *handlers) searchCourtDates(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "fullName is required")
	}
	if h.lookup == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "court lookup is not configured")
	}

	result := h.lookup.Lookup(c.UserContext(), name, usecase.ResolveOptions{
		State:      req.State,
		County:     req.County,
		MaxResults: req.MaxResults,
	})
	return c.JSON(result)
}

func (h *handlers) storedCourtDates(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if h.lookup == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "court lookup is not configured")
	}

	records, err := h.lookup.Stored(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (h *handlers) runIngest(c *fiber.Ctx) error {
	if h.ingest == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "ingestion is not configured")
	}

	report, err := h.ingest.Run(c.UserContext())
	if errors.Is(err, usecase.ErrRunInProgress) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) recentArrests(c *fiber.Ctx) error {
	if h.arrests == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "storage is not configured")
	}

	limit := c.QueryInt("limit", defaultArrestLimit)
	if limit <= 0 {
		limit = defaultArrestLimit
	}

	records, err := h.arrests.RecentArrests(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(records)
}
