package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-wayfinding/internal/wayfinding/models"
	"venue-wayfinding/internal/wayfinding/venuefile"
)

const hallTOML = `
id = "hall"
name = "Hall"

[[floors]]
id = "g"
name = "Ground"
scale_px_per_m = 1

[[floors]]
id = "roof"
level = 2
scale_px_per_m = 1

[[objects]]
id = "in"
floor_id = "g"
type = "entrance"
label = "Main entrance"

[[objects]]
id = "out"
floor_id = "g"
type = "exit"
x = 10
label = "Exit"

[[objects]]
id = "b1"
floor_id = "g"
type = "booth"
x = 3
y = 5
width = 2
height = 2
label = "Acme"
metadata = { booth_id = "A1" }

[[objects]]
id = "hatch"
floor_id = "roof"
type = "exit"
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WAYFINDING_CONFIG", "")
	root := NewRootCommand(io.Discard)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRouteCmd(t *testing.T) {
	venue := writeFile(t, "hall.toml", hallTOML)

	out, err := run(t, "route", venue, "--from", "0,0", "--floor", "g", "--to", "out")
	require.NoError(t, err)
	assert.Contains(t, out, "Route to Exit")
	assert.Contains(t, out, "Ground")
	assert.Contains(t, out, "Head east for 10 m")
	assert.Contains(t, out, "Arrive at your destination")

	out, err = run(t, "route", venue, "--from", "0, 0", "--to", "out", "--json")
	require.NoError(t, err)
	var route models.Route
	require.NoError(t, json.Unmarshal([]byte(out), &route))
	assert.InDelta(t, 10.0, route.TotalDistanceM, 1e-9)
	assert.Equal(t, "7 sec", route.FormattedTime)
}

func TestRouteCmd_Errors(t *testing.T) {
	venue := writeFile(t, "hall.toml", hallTOML)

	_, err := run(t, "route", venue, "--from", "0,0", "--to", "hatch")
	assert.ErrorContains(t, err, "unreachable")

	_, err = run(t, "route", venue, "--from", "zero", "--to", "out")
	assert.ErrorContains(t, err, "invalid point")

	_, err = run(t, "route", venue, "--from", "0,0")
	assert.Error(t, err, "--to is required")

	_, err = run(t, "route", venue, "--from", "0,0", "--to", "out", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = run(t, "route", filepath.Join(t.TempDir(), "hall.yaml"), "--from", "0,0", "--to", "out")
	assert.ErrorIs(t, err, venuefile.ErrUnknownFormat)
}

func TestRouteCmd_Tunables(t *testing.T) {
	venue := writeFile(t, "hall.toml", hallTOML)
	tunables := writeFile(t, "wayfinding.toml", "[directions]\nwalking_speed_mps = 1.0\n")

	out, err := run(t, "--config", tunables, "route", venue, "--from", "0,0", "--to", "out", "--json")
	require.NoError(t, err)
	var route models.Route
	require.NoError(t, json.Unmarshal([]byte(out), &route))
	assert.Equal(t, 10.0, route.EstimatedTimeSeconds)
}

func TestDestinationsAndEntrancesCmd(t *testing.T) {
	venue := writeFile(t, "hall.toml", hallTOML)

	out, err := run(t, "destinations", venue)
	require.NoError(t, err)
	assert.Contains(t, out, "1 destinations")
	assert.Contains(t, out, "A1  Acme")

	out, err = run(t, "destinations", venue, "--json")
	require.NoError(t, err)
	var dests []models.BoothDestination
	require.NoError(t, json.Unmarshal([]byte(out), &dests))
	require.Len(t, dests, 1)
	assert.Equal(t, 4.0, dests[0].X)

	out, err = run(t, "entrances", venue)
	require.NoError(t, err)
	assert.Contains(t, out, "Main entrance")
}

func TestGraphCmd(t *testing.T) {
	venue := writeFile(t, "hall.toml", hallTOML)

	out, err := run(t, "graph", venue, "--floor", "g")
	require.NoError(t, err)
	assert.Contains(t, out, `digraph "g"`)

	path := filepath.Join(t.TempDir(), "g.dot")
	_, err = run(t, "graph", venue, "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data), "first floor is the default")

	_, err = run(t, "graph", venue, "--format", "png")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "graph", venue, "--floor", "basement")
	assert.Error(t, err)
}

func TestImportSVGCmd(t *testing.T) {
	svg := writeFile(t, "ground.svg", `<svg xmlns="http://www.w3.org/2000/svg">
  <rect id="Booth_7" x="10" y="10" width="20" height="10" data-label="Acme"/>
  <rect id="Entrance_1" x="0" y="0" width="2" height="2"/>
</svg>`)

	out, err := run(t, "import-svg", svg, "--scale", "10")
	require.NoError(t, err)

	v, err := venuefile.Decode([]byte(out), venuefile.FormatTOML)
	require.NoError(t, err, out)
	require.Len(t, v.Floors, 1)
	assert.Equal(t, "ground", v.Floors[0].ID, "floor id defaults to the file name")
	assert.Equal(t, 10.0, v.Floors[0].ScalePxPerM)
	assert.Len(t, v.Objects, 2)

	out, err = run(t, "import-svg", svg, "--floor", "l1", "--format", "json")
	require.NoError(t, err)
	v, err = venuefile.Decode([]byte(out), venuefile.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "l1", v.Objects[0].FloorID)

	_, err = run(t, "import-svg", svg, "--scale", "-1")
	assert.Error(t, err)
}

func TestParsePoint(t *testing.T) {
	x, y, err := parsePoint(" 1.5 , -2")
	require.NoError(t, err)
	assert.Equal(t, 1.5, x)
	assert.Equal(t, -2.0, y)

	_, _, err = parsePoint("1;2")
	assert.Error(t, err)
}

func TestPlanCmd(t *testing.T) {
	venue := writeFile(t, "hall.toml", hallTOML)

	out, err := run(t, "plan", venue)
	require.NoError(t, err)
	assert.Contains(t, out, `data-floor="g"`)
	assert.Contains(t, out, `data-booth-id="A1"`)
	assert.NotContains(t, out, `id="hatch"`)

	path := filepath.Join(t.TempDir(), "roof.svg")
	_, err = run(t, "plan", venue, "--floor", "roof", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `id="hatch"`)

	_, err = run(t, "plan", venue, "--floor", "basement")
	assert.ErrorContains(t, err, "has no objects")
}
