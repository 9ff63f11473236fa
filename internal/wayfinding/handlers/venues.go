package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"venue-wayfinding/internal/wayfinding/engine"
	"venue-wayfinding/internal/wayfinding/venuefile"
)

func (h *VenueHandler) ListVenues(c fiber.Ctx) error {
	list, err := h.store.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// CreateVenue stores a venue document. Posting an existing id replaces the
// venue and bumps its version.
func (h *VenueHandler) CreateVenue(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "empty body")
	}
	v, err := venuefile.Decode(c.Body(), venuefile.FormatJSON)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.store.Save(c.Context(), v); err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("venue stored", "venue", v.ID, "version", v.Version)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": v.ID, "version": v.Version})
}

func (h *VenueHandler) GetVenue(c fiber.Ctx) error {
	v, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(v)
}

func (h *VenueHandler) DeleteVenue(c fiber.Ctx) error {
	if err := h.store.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *VenueHandler) Destinations(c fiber.Ctx) error {
	v, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(engine.ExtractDestinations(v.Objects))
}

func (h *VenueHandler) Entrances(c fiber.Ctx) error {
	v, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.engine.DetectEntrances(v.Floors, v.Objects, v.NavNodes))
}
