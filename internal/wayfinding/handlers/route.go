package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"venue-wayfinding/internal/wayfinding/cache"
	"venue-wayfinding/internal/wayfinding/engine"
	"venue-wayfinding/internal/wayfinding/models"
)

type routeRequest struct {
	From           models.WayfindingPoint `json:"from"`
	ToObjectID     string                 `json:"to_object_id"`
	AccessibleOnly bool                   `json:"accessible_only"`
}

// Route computes a route from a point to a destination object. Results are
// cached per venue version, so a saved venue never serves stale routes.
func (h *VenueHandler) Route(c fiber.Ctx) error {
	var req routeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if req.ToObjectID == "" || req.From.FloorID == "" {
		return badRequest(c, "from.floor_id and to_object_id required")
	}

	ctx := c.Context()
	v, err := h.store.Get(ctx, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	key := cache.RouteKey(v.ID, v.Version, req.From, req.ToObjectID, req.AccessibleOnly)
	cached, ok, err := h.routes.Get(ctx, key)
	if err != nil {
		h.logger.Warn("route cache read failed", "err", err)
	}
	if ok {
		c.Set("X-Cache", "HIT")
		return c.JSON(cached)
	}

	route, err := h.engine.Plan(ctx, engine.RequestForVenue(v, req.From, req.ToObjectID, engine.AccessibleOnly(req.AccessibleOnly)))
	if err != nil {
		h.logger.Debug("no route", "venue", v.ID, "to", req.ToObjectID, "code", engine.Code(err))
		return h.fail(c, err)
	}
	if err := h.routes.Put(ctx, key, route); err != nil {
		h.logger.Warn("route cache write failed", "err", err)
	}
	c.Set("X-Cache", "MISS")
	return c.JSON(route)
}
