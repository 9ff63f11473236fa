package engine

import (
	"math"
	"strings"

	"venue-wayfinding/internal/wayfinding/classify"
	"venue-wayfinding/internal/wayfinding/models"
)

// entranceDedupe is how close, in drawing units, an entrance object may sit
// to an already listed entrance before it is treated as the same one.
const entranceDedupe = 10.0

// DetectEntrances lists candidate start points in drawing units: authored
// entrance nodes first, then objects the classifier calls entrances.
// Floors are needed to turn node metres back into drawing units.
func (e *Engine) DetectEntrances(floors []models.Floor, objects []models.PlacedObject, nodes []models.NavNode) []models.EntranceOption {
	out := []models.EntranceOption{}

	for _, n := range nodes {
		if n.Role != models.RoleEntrance {
			continue
		}
		label := n.MetaString("label")
		if label == "" {
			label = "Entrance"
		}
		scale := models.DefaultScalePxPerM
		if f, ok := findFloor(floors, n.FloorID); ok {
			scale = e.gen.Scale(f)
		}
		out = append(out, models.EntranceOption{
			NodeID:  n.ID,
			Label:   label,
			X:       n.X * scale,
			Y:       n.Y * scale,
			FloorID: n.FloorID,
		})
	}

	classifier := e.gen.Classifier()
	for _, obj := range objects {
		c := classifier.Classify(obj)
		if c.Kind != classify.KindNode || c.Role != models.RoleEntrance {
			continue
		}
		center := obj.Center()
		if nearEntrance(out, obj.FloorID, center) {
			continue
		}
		label := obj.Label
		if label == "" {
			label = "Entrance"
		}
		out = append(out, models.EntranceOption{
			ObjectID: obj.ID,
			Label:    label,
			X:        center.X,
			Y:        center.Y,
			FloorID:  obj.FloorID,
		})
	}
	return out
}

func nearEntrance(list []models.EntranceOption, floorID string, p models.Point) bool {
	for _, en := range list {
		if en.FloorID == floorID && math.Abs(en.X-p.X) < entranceDedupe && math.Abs(en.Y-p.Y) < entranceDedupe {
			return true
		}
	}
	return false
}

// ExtractDestinations lists labelled booths at their centers.
func ExtractDestinations(objects []models.PlacedObject) []models.BoothDestination {
	out := []models.BoothDestination{}
	for _, obj := range objects {
		if !strings.EqualFold(obj.Type, "booth") || strings.TrimSpace(obj.Label) == "" {
			continue
		}
		center := obj.Center()
		out = append(out, models.BoothDestination{
			ObjectID: obj.ID,
			BoothID:  obj.MetaString("booth_id"),
			Label:    obj.Label,
			X:        center.X,
			Y:        center.Y,
			FloorID:  obj.FloorID,
		})
	}
	return out
}
