package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-wayfinding/internal/wayfinding/models"
	"venue-wayfinding/internal/wayfinding/parser"
)

func planObjects() []models.PlacedObject {
	return []models.PlacedObject{
		{ID: "wall-n", FloorID: "g", Type: "wall", Points: []models.Point{{X: 0, Y: 0}, {X: 200, Y: 0}}},
		{ID: "hall", FloorID: "g", Type: "room", X: 0, Y: 0, Width: 200, Height: 100, Label: "Hall A"},
		{ID: "b1", FloorID: "g", Type: "booth", X: 20, Y: 30, Width: 40, Height: 20, Label: "Acme & Sons", Metadata: map[string]any{"booth_id": "A1"}},
		{ID: "b2", FloorID: "g", Type: "booth", X: 100, Y: 30, Width: 10, Height: 10, Rotation: 90, Label: "Tilted"},
		{ID: "lift", FloorID: "g", Type: "elevator", X: 150, Y: 60, Width: 10, Height: 10, Metadata: map[string]any{"linked_object_id": "lift-2", "accessible": true}},
		{ID: "other-floor", FloorID: "l1", Type: "booth", X: 0, Y: 0, Width: 5, Height: 5},
	}
}

func TestFloorPlanSVG(t *testing.T) {
	svg, err := FloorPlanSVG("g", planObjects())
	require.NoError(t, err)

	assert.Contains(t, svg, `viewBox="0 0 200 100"`)
	assert.Contains(t, svg, `<rect id="b1" x="20" y="30" width="40" height="20" data-type="booth" data-label="Acme &amp; Sons" data-booth-id="A1"`)
	assert.Contains(t, svg, `<polygon id="b2" points="100,30 100,40 90,40 90,30"`)
	assert.Contains(t, svg, `<polyline id="wall-n" points="0,0 200,0" data-type="wall" fill="none"`)
	assert.NotContains(t, svg, "other-floor")
	assert.Less(t, strings.Index(svg, `id="hall"`), strings.Index(svg, `id="b1"`), "areas are drawn first")
	assert.Less(t, strings.Index(svg, `id="lift"`), strings.Index(svg, `id="wall-n"`), "walls are drawn last")

	_, err = FloorPlanSVG("roof", planObjects())
	assert.Error(t, err)
}

func TestFloorPlanSVG_ImportsBack(t *testing.T) {
	svg, err := FloorPlanSVG("g", planObjects())
	require.NoError(t, err)

	back, err := parser.ParseSVG(strings.NewReader(svg), "g")
	require.NoError(t, err)
	require.Len(t, back, 5)

	byID := make(map[string]models.PlacedObject)
	for _, o := range back {
		byID[o.ID] = o
	}
	assert.Equal(t, "booth", byID["b1"].Type)
	assert.Equal(t, "Acme & Sons", byID["b1"].Label)
	assert.Equal(t, "A1", byID["b1"].MetaString("booth_id"))
	assert.Equal(t, models.Point{X: 40, Y: 40}, byID["b1"].Center())
	assert.Equal(t, "lift-2", byID["lift"].MetaString("linked_object_id"))
	assert.Equal(t, "wall", byID["wall-n"].Type)
}
