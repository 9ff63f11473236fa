// Package handlers exposes venues and route computation over HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"

	"venue-wayfinding/internal/common/middleware"
	"venue-wayfinding/internal/wayfinding/cache"
	"venue-wayfinding/internal/wayfinding/engine"
	"venue-wayfinding/internal/wayfinding/models"
	"venue-wayfinding/internal/wayfinding/repository"
)

// Store is the venue persistence the handlers need.
type Store interface {
	List(ctx context.Context) ([]repository.VenueSummary, error)
	Get(ctx context.Context, id string) (*models.Venue, error)
	Save(ctx context.Context, v *models.Venue) error
	ReplaceFloorObjects(ctx context.Context, venueID, floorID string, objects []models.PlacedObject) (int64, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// ============================================================
// Venue Handler
// ============================================================

type VenueHandler struct {
	store  Store
	engine *engine.Engine
	routes *cache.Routes
	logger *log.Logger
}

func NewVenueHandler(store Store, eng *engine.Engine, routes *cache.Routes, logger *log.Logger) *VenueHandler {
	if routes == nil {
		routes = cache.NewRoutes(nil, 0)
	}
	return &VenueHandler{
		store:  store,
		engine: eng,
		routes: routes,
		logger: logger.WithPrefix("http"),
	}
}

// Register mounts every venue route on app.
func (h *VenueHandler) Register(app *fiber.App) {
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)

	app.Get("/venues", h.ListVenues)
	app.Post("/venues", h.CreateVenue)
	app.Get("/venues/:id", h.GetVenue)
	app.Delete("/venues/:id", h.DeleteVenue)
	app.Get("/venues/:id/destinations", h.Destinations)
	app.Get("/venues/:id/entrances", h.Entrances)
	app.Post("/venues/:id/route", h.Route)
	app.Post("/venues/:id/floors/:floorId/svg", h.ImportSVG)
	app.Get("/venues/:id/floors/:floorId/graph.svg", h.FloorGraph)
	app.Get("/venues/:id/floors/:floorId/plan.svg", h.FloorPlan)
}

// ============================================================
// Health Check Handlers
// ============================================================

// Live reports that the process is up.
func (h *VenueHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready reports whether the database answers.
func (h *VenueHandler) Ready(c fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		h.logger.Error("readiness check failed", "err", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// ============================================================
// Errors
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(errorResponse{Error: msg, Code: "bad_request"})
}

// fail maps storage and engine errors to a status and a stable code.
func (h *VenueHandler) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(errorResponse{Error: err.Error(), Code: "venue_not_found"})
	case errors.Is(err, repository.ErrUnknownFloor):
		return c.Status(http.StatusNotFound).JSON(errorResponse{Error: err.Error(), Code: "unknown_floor"})
	case errors.Is(err, engine.ErrInvalidReference):
		return c.Status(http.StatusNotFound).JSON(errorResponse{Error: err.Error(), Code: engine.Code(err)})
	case errors.Is(err, engine.ErrNoRoute), errors.Is(err, engine.ErrInvalidScale):
		return c.Status(http.StatusUnprocessableEntity).JSON(errorResponse{Error: err.Error(), Code: engine.Code(err)})
	}
	h.logger.Error("request failed", "path", c.Path(), "request_id", middleware.GetRequestID(c), "err", err)
	return c.Status(http.StatusInternalServerError).JSON(errorResponse{Error: "internal error", Code: "internal"})
}
