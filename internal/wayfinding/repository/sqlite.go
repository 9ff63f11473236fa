package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"venue-wayfinding/internal/wayfinding/models"
)

var (
	ErrNotFound     = errors.New("venue not found")
	ErrUnknownFloor = errors.New("unknown floor")
)

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// SQLite Repository
// ============================================================

// Repository stores venue documents. Every save bumps the venue version,
// which route cache keys include.
type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

func New(db *sql.DB, logger *log.Logger) *Repository {
	return &Repository{db: db, logger: logger.WithPrefix("repository")}
}

// Init applies the embedded migrations in name order.
func (r *Repository) Init(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		r.logger.Debug("migration applied", "name", name)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type VenueSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int64  `json:"version"`
	UpdatedAt string `json:"updated_at"`
}

func (r *Repository) List(ctx context.Context) ([]VenueSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, version, updated_at FROM venues ORDER BY name, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []VenueSummary{}
	for rows.Next() {
		var s VenueSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Save inserts or replaces the whole venue document. A venue without an id
// gets a new uuid. On return v carries its id and new version.
func (r *Repository) Save(ctx context.Context, v *models.Venue) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx, `
        INSERT INTO venues (id, name, version) VALUES (?, ?, 1)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            version = venues.version + 1,
            updated_at = CURRENT_TIMESTAMP
        RETURNING version
    `, v.ID, v.Name).Scan(&version)
	if err != nil {
		return fmt.Errorf("upsert venue: %w", err)
	}

	for _, table := range []string{"floors", "objects", "nav_nodes", "nav_edges", "cross_floor_links"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE venue_id = ?", v.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertFloors(ctx, tx, v.ID, v.Floors); err != nil {
		return err
	}
	if err := insertObjects(ctx, tx, v.ID, 0, v.Objects); err != nil {
		return err
	}
	if err := insertNodes(ctx, tx, v.ID, v.NavNodes); err != nil {
		return err
	}
	if err := insertEdges(ctx, tx, v.ID, v.NavEdges); err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, v.ID, v.Links); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	v.Version = version
	r.logger.Info("venue saved", "venue", v.ID, "version", version,
		"floors", len(v.Floors), "objects", len(v.Objects), "nav_nodes", len(v.NavNodes))
	return nil
}

// ReplaceFloorObjects swaps one floor's objects, e.g. after an SVG import,
// and returns the new venue version.
func (r *Repository) ReplaceFloorObjects(ctx context.Context, venueID, floorID string, objects []models.PlacedObject) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues WHERE id = ?`, venueID).Scan(&n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM floors WHERE venue_id = ? AND id = ?`, venueID, floorID).Scan(&n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFloor, floorID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM objects WHERE venue_id = ? AND floor_id = ?`, venueID, floorID); err != nil {
		return 0, err
	}
	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM objects WHERE venue_id = ?`, venueID).Scan(&next); err != nil {
		return 0, err
	}
	for i := range objects {
		objects[i].FloorID = floorID
	}
	if err := insertObjects(ctx, tx, venueID, next, objects); err != nil {
		return 0, err
	}

	var version int64
	if err := tx.QueryRowContext(ctx, `
        UPDATE venues SET version = version + 1, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? RETURNING version
    `, venueID).Scan(&version); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	r.logger.Info("floor objects replaced", "venue", venueID, "floor", floorID, "objects", len(objects), "version", version)
	return version, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads the whole venue document in saved order. All reads share one
// read-only transaction, so the version always matches the rows.
func (r *Repository) Get(ctx context.Context, id string) (*models.Venue, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	v := &models.Venue{}
	row := tx.QueryRowContext(ctx, `SELECT id, name, version FROM venues WHERE id = ?`, id)
	if err := row.Scan(&v.ID, &v.Name, &v.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if v.Floors, err = loadFloors(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("load floors: %w", err)
	}
	if v.Objects, err = loadObjects(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("load objects: %w", err)
	}
	if v.NavNodes, err = loadNodes(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("load nav nodes: %w", err)
	}
	if v.NavEdges, err = loadEdges(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("load nav edges: %w", err)
	}
	if v.Links, err = loadLinks(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}
	return v, tx.Commit()
}

// ============================================================
// Rows
// ============================================================

func insertFloors(ctx context.Context, tx *sql.Tx, venueID string, floors []models.Floor) error {
	for i, f := range floors {
		meta, err := encodeJSON(f.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO floors (venue_id, id, name, level, scale_px_per_m, metadata, position)
            VALUES (?, ?, ?, ?, ?, ?, ?)
        `, venueID, f.ID, f.Name, f.Level, f.ScalePxPerM, meta, i); err != nil {
			return fmt.Errorf("insert floor %s: %w", f.ID, err)
		}
	}
	return nil
}

func insertObjects(ctx context.Context, tx *sql.Tx, venueID string, offset int, objects []models.PlacedObject) error {
	for i, o := range objects {
		meta, err := encodeJSON(o.Metadata)
		if err != nil {
			return err
		}
		points, err := encodeJSON(o.Points)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO objects (venue_id, id, floor_id, type, x, y, width, height, rotation, label, metadata, points, position)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        `, venueID, o.ID, o.FloorID, o.Type, o.X, o.Y, o.Width, o.Height, o.Rotation, o.Label, meta, points, offset+i); err != nil {
			return fmt.Errorf("insert object %s: %w", o.ID, err)
		}
	}
	return nil
}

func insertNodes(ctx context.Context, tx *sql.Tx, venueID string, nodes []models.NavNode) error {
	for i, n := range nodes {
		meta, err := encodeJSON(n.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO nav_nodes (venue_id, id, floor_id, x, y, type, accessible, linked_node_id, metadata, position)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        `, venueID, n.ID, n.FloorID, n.X, n.Y, string(n.Role), n.Accessible, n.LinkedNodeID, meta, i); err != nil {
			return fmt.Errorf("insert nav node %s: %w", n.ID, err)
		}
	}
	return nil
}

func insertEdges(ctx context.Context, tx *sql.Tx, venueID string, edges []models.NavEdge) error {
	for i, e := range edges {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO nav_edges (venue_id, position, id, from_node_id, to_node_id, distance_m, accessible, bidirectional, weight_modifier)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        `, venueID, i, e.ID, e.FromNodeID, e.ToNodeID, e.DistanceM, e.Accessible, e.Bidirectional, e.WeightModifier); err != nil {
			return fmt.Errorf("insert nav edge %d: %w", i, err)
		}
	}
	return nil
}

func insertLinks(ctx context.Context, tx *sql.Tx, venueID string, links []models.CrossFloorLink) error {
	for i, l := range links {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO cross_floor_links (venue_id, position, from_node_id, to_node_id, role)
            VALUES (?, ?, ?, ?, ?)
        `, venueID, i, l.FromNodeID, l.ToNodeID, string(l.Role)); err != nil {
			return fmt.Errorf("insert link %d: %w", i, err)
		}
	}
	return nil
}

func loadFloors(ctx context.Context, tx *sql.Tx, venueID string) ([]models.Floor, error) {
	rows, err := tx.QueryContext(ctx, `
        SELECT id, name, level, scale_px_per_m, metadata FROM floors
        WHERE venue_id = ? ORDER BY position
    `, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Floor
	for rows.Next() {
		var f models.Floor
		var meta string
		if err := rows.Scan(&f.ID, &f.Name, &f.Level, &f.ScalePxPerM, &meta); err != nil {
			return nil, err
		}
		if err := decodeJSON(meta, &f.Metadata); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func loadObjects(ctx context.Context, tx *sql.Tx, venueID string) ([]models.PlacedObject, error) {
	rows, err := tx.QueryContext(ctx, `
        SELECT id, floor_id, type, x, y, width, height, rotation, label, metadata, points FROM objects
        WHERE venue_id = ? ORDER BY position
    `, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PlacedObject
	for rows.Next() {
		var o models.PlacedObject
		var meta, points string
		if err := rows.Scan(&o.ID, &o.FloorID, &o.Type, &o.X, &o.Y, &o.Width, &o.Height, &o.Rotation, &o.Label, &meta, &points); err != nil {
			return nil, err
		}
		if err := decodeJSON(meta, &o.Metadata); err != nil {
			return nil, err
		}
		if err := decodeJSON(points, &o.Points); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func loadNodes(ctx context.Context, tx *sql.Tx, venueID string) ([]models.NavNode, error) {
	rows, err := tx.QueryContext(ctx, `
        SELECT id, floor_id, x, y, type, accessible, linked_node_id, metadata FROM nav_nodes
        WHERE venue_id = ? ORDER BY position
    `, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.NavNode
	for rows.Next() {
		var n models.NavNode
		var role, meta string
		if err := rows.Scan(&n.ID, &n.FloorID, &n.X, &n.Y, &role, &n.Accessible, &n.LinkedNodeID, &meta); err != nil {
			return nil, err
		}
		n.Role = models.NodeRole(role)
		if err := decodeJSON(meta, &n.Metadata); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func loadEdges(ctx context.Context, tx *sql.Tx, venueID string) ([]models.NavEdge, error) {
	rows, err := tx.QueryContext(ctx, `
        SELECT id, from_node_id, to_node_id, distance_m, accessible, bidirectional, weight_modifier FROM nav_edges
        WHERE venue_id = ? ORDER BY position
    `, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.NavEdge
	for rows.Next() {
		var e models.NavEdge
		if err := rows.Scan(&e.ID, &e.FromNodeID, &e.ToNodeID, &e.DistanceM, &e.Accessible, &e.Bidirectional, &e.WeightModifier); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func loadLinks(ctx context.Context, tx *sql.Tx, venueID string) ([]models.CrossFloorLink, error) {
	rows, err := tx.QueryContext(ctx, `
        SELECT from_node_id, to_node_id, role FROM cross_floor_links
        WHERE venue_id = ? ORDER BY position
    `, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CrossFloorLink
	for rows.Next() {
		var l models.CrossFloorLink
		var role string
		if err := rows.Scan(&l.FromNodeID, &l.ToNodeID, &role); err != nil {
			return nil, err
		}
		l.Role = models.NodeRole(role)
		out = append(out, l)
	}
	return out, rows.Err()
}

// encodeJSON stores empty values as '' so nil round-trips as nil.
func encodeJSON[T any](v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	switch string(data) {
	case "null", "{}", "[]":
		return "", nil
	}
	return string(data), nil
}

func decodeJSON(s string, dst any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

// ============================================================
// Connection
// ============================================================

// OpenSQLite opens the sqlite database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
