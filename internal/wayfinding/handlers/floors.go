package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"

	"venue-wayfinding/internal/wayfinding/export"
	"venue-wayfinding/internal/wayfinding/parser"
	"venue-wayfinding/internal/wayfinding/repository"
)

// ImportSVG заменяет объекты этажа объектами из загруженного SVG.
func (h *VenueHandler) ImportSVG(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required in multipart/form-data")
	}
	f, err := file.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()

	floorID := c.Params("floorId")
	objects, err := parser.ParseSVG(f, floorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	version, err := h.store.ReplaceFloorObjects(c.Context(), c.Params("id"), floorID, objects)
	if err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("floor imported", "venue", c.Params("id"), "floor", floorID, "file", file.Filename, "objects", len(objects))
	return c.JSON(fiber.Map{"objects": len(objects), "version": version})
}

// FloorGraph рисует навигационный граф этажа; ?format=dot отдаёт исходник DOT.
func (h *VenueHandler) FloorGraph(c fiber.Ctx) error {
	v, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	fg, err := h.engine.FloorGraph(v, c.Params("floorId"))
	if err != nil {
		return h.fail(c, err)
	}

	var route []string
	if r := c.Query("route"); r != "" {
		route = strings.Split(r, ",")
	}
	dot := export.ToDOT(fg, export.Options{Route: route})
	if c.Query("format") == "dot" {
		c.Set("Content-Type", "text/vnd.graphviz")
		return c.SendString(dot)
	}

	svg, err := export.RenderSVG(c.Context(), dot)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.Send(svg)
}

// FloorPlan отдаёт объекты этажа как SVG, пригодный для повторного импорта.
func (h *VenueHandler) FloorPlan(c fiber.Ctx) error {
	v, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	floorID := c.Params("floorId")
	if _, ok := v.Floor(floorID); !ok {
		return h.fail(c, fmt.Errorf("%w: %s", repository.ErrUnknownFloor, floorID))
	}
	svg, err := export.FloorPlanSVG(floorID, v.Objects)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(errorResponse{Error: err.Error(), Code: "empty_floor"})
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}
