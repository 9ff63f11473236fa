package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-wayfinding/internal/wayfinding/models"
)

const hallSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="400" height="200">
  <rect id="Wall_north" x="0" y="0" width="400" height="4"/>
  <g transform="translate(100, 50)">
    <rect id="Booth_12" x="10" y="20" width="40" height="30" data-booth-id="B-12">
      <title>Acme Robotics</title>
    </rect>
    <circle data-type="Elevator" cx="50" cy="50" r="5" data-linked-object="lift-l2"/>
  </g>
  <path id="Entrance_main" d="M 0 100 l 10 0 v 10 h -10 Z" data-label="Main entrance"/>
  <polyline id="Wall_partition" points="200,0 200,80 240,80"/>
  <polygon id="Hall_room" points="0,0 400,0 400,200 0,200" data-accessible="false"/>
  <text id="Booth_caption">ignored element kind</text>
  <rect id="decoration" x="1" y="1" width="1" height="1"/>
</svg>`

func parseHall(t *testing.T) map[string]models.PlacedObject {
	t.Helper()
	objects, err := ParseSVG(strings.NewReader(hallSVG), "ground")
	require.NoError(t, err)

	byID := make(map[string]models.PlacedObject, len(objects))
	for _, o := range objects {
		assert.Equal(t, "ground", o.FloorID)
		byID[o.ID] = o
	}
	require.Len(t, byID, len(objects), "ids are unique")
	return byID
}

func TestParseSVG_Elements(t *testing.T) {
	objects := parseHall(t)
	assert.Len(t, objects, 6)
	assert.NotContains(t, objects, "decoration", "unknown ids are skipped")
	assert.NotContains(t, objects, "Booth_caption")

	wall := objects["Wall_north"]
	assert.Equal(t, "wall", wall.Type)
	assert.Equal(t, 400.0, wall.Width)

	booth := objects["Booth_12"]
	assert.Equal(t, "booth", booth.Type)
	assert.Equal(t, "Acme Robotics", booth.Label, "label from <title>")
	assert.Equal(t, 110.0, booth.X, "group translate applies")
	assert.Equal(t, 70.0, booth.Y)
	assert.Equal(t, "B-12", booth.MetaString("booth_id"))

	entrance := objects["Entrance_main"]
	assert.Equal(t, "entrance", entrance.Type)
	assert.Equal(t, "Main entrance", entrance.Label)
	require.Len(t, entrance.Points, 5)
	assert.Equal(t, entrance.Points[0], entrance.Points[4], "Z closes the ring")
	_, open := entrance.MetaBool("open")
	assert.False(t, open)

	partition := objects["Wall_partition"]
	assert.Equal(t, []models.Point{{X: 200, Y: 0}, {X: 200, Y: 80}, {X: 240, Y: 80}}, partition.Points)
	isOpen, _ := partition.MetaBool("open")
	assert.True(t, isOpen)
	assert.Equal(t, 40.0, partition.Width)
	assert.Equal(t, 80.0, partition.Height)

	room := objects["Hall_room"]
	assert.Equal(t, "room", room.Type)
	accessible, ok := room.MetaBool("accessible")
	require.True(t, ok)
	assert.False(t, accessible)
}

func TestParseSVG_GeneratedIDs(t *testing.T) {
	objects := parseHall(t)

	var lift *models.PlacedObject
	for _, o := range objects {
		if o.Type == "elevator" {
			lift = &o
		}
	}
	require.NotNil(t, lift, "data-type is case-insensitive")
	_, err := uuid.Parse(lift.ID)
	assert.NoError(t, err)
	assert.Equal(t, lift.ID, lift.Label, "label falls back to the id")
	assert.Equal(t, 145.0, lift.X)
	assert.Equal(t, 95.0, lift.Y)
	assert.Equal(t, 10.0, lift.Width)
	assert.Equal(t, "lift-l2", lift.MetaString("linked_object_id"))
}

func TestParseSVG_Errors(t *testing.T) {
	_, err := ParseSVG(strings.NewReader("<svg"), "f")
	assert.Error(t, err)

	_, err = ParseSVG(strings.NewReader("<html></html>"), "f")
	assert.ErrorContains(t, err, "not an svg")

	_, err = ParseSVG(strings.NewReader(`<svg><path id="Wall_x" d="   "/></svg>`), "f")
	assert.ErrorContains(t, err, "Wall_x")
}

func TestParseSVGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hall.svg")
	require.NoError(t, os.WriteFile(path, []byte(hallSVG), 0o644))

	objects, err := ParseSVGFile(path, "ground")
	require.NoError(t, err)
	assert.Len(t, objects, 6)

	_, err = ParseSVGFile(filepath.Join(t.TempDir(), "missing.svg"), "ground")
	assert.Error(t, err)
}

func TestClassifyElementByID(t *testing.T) {
	cases := map[string]string{
		"Wall_1":        "wall",
		"Hui_Wall_7":    "wall",
		"Door_2":        "entrance",
		"Exit_east":     "exit",
		"Stairs_A":      "stairs",
		"Lift_3":        "elevator",
		"Room_101":      "room",
		"Toilet_Room":   "room",
		"Balcony":       "area",
		"Window_1":      "",
		"random_string": "",
	}
	for id, want := range cases {
		assert.Equal(t, want, classifyElementByID(id), id)
	}
}
