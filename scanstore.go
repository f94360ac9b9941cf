package scanforge

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ScanRecord is the persisted summary of a captured vertex set.
type ScanRecord struct {
	ID          uuid.UUID
	Label       string
	CapturedAt  time.Time
	VertexCount int
	Bounds      BoundingBox
}

// ScanStore persists scan records and their quality history in SQLite.
type ScanStore struct {
	db *sql.DB
}

// OpenScanStore opens (or creates) the store at path and runs migrations.
func OpenScanStore(path string) (*ScanStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open scan store: %w", err)
	}

	store := &ScanStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate scan store: %w", err)
	}
	return store, nil
}

func (s *ScanStore) Close() error {
	return s.db.Close()
}

func (s *ScanStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		captured_at DATETIME NOT NULL,
		vertex_count INTEGER NOT NULL,
		min_x REAL NOT NULL, min_y REAL NOT NULL, min_z REAL NOT NULL,
		max_x REAL NOT NULL, max_y REAL NOT NULL, max_z REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS quality (
		scan_id TEXT NOT NULL,
		measured_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		point_density REAL NOT NULL,
		surface_completeness REAL NOT NULL,
		noise_level REAL NOT NULL,
		feature_preservation REAL NOT NULL,
		FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_quality_scan ON quality(scan_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *ScanStore) SaveScan(ctx context.Context, rec ScanRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scans
			(id, label, captured_at, vertex_count, min_x, min_y, min_z, max_x, max_y, max_z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Label, rec.CapturedAt.UTC(), rec.VertexCount,
		rec.Bounds.Min.X(), rec.Bounds.Min.Y(), rec.Bounds.Min.Z(),
		rec.Bounds.Max.X(), rec.Bounds.Max.Y(), rec.Bounds.Max.Z(),
	)
	if err != nil {
		return fmt.Errorf("save scan %s: %w", rec.ID, err)
	}
	return nil
}

func (s *ScanStore) GetScan(ctx context.Context, id uuid.UUID) (*ScanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, captured_at, vertex_count, min_x, min_y, min_z, max_x, max_y, max_z
		FROM scans WHERE id = ?`, id.String())

	rec, err := scanRow(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get scan %s: %w", id, err)
	}
	return rec, nil
}

func (s *ScanStore) ListScans(ctx context.Context) ([]ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, captured_at, vertex_count, min_x, min_y, min_z, max_x, max_y, max_z
		FROM scans ORDER BY captured_at`)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var recs []ScanRecord
	for rows.Next() {
		rec, err := scanRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list scans: %w", err)
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func scanRow(scan func(dest ...any) error) (*ScanRecord, error) {
	var (
		idStr, label                       string
		capturedAt                         time.Time
		count                              int
		minX, minY, minZ, maxX, maxY, maxZ float64
	)
	if err := scan(&idStr, &label, &capturedAt, &count, &minX, &minY, &minZ, &maxX, &maxY, &maxZ); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("malformed scan id %q: %w", idStr, err)
	}
	return &ScanRecord{
		ID:          id,
		Label:       label,
		CapturedAt:  capturedAt,
		VertexCount: count,
		Bounds: NewBoundingBox(
			mgl32.Vec3{float32(minX), float32(minY), float32(minZ)},
			mgl32.Vec3{float32(maxX), float32(maxY), float32(maxZ)},
		),
	}, nil
}

// DeleteScan removes a scan and, via the foreign key cascade, its quality
// history.
func (s *ScanStore) DeleteScan(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete scan %s: %w", id, err)
	}
	return nil
}

func (s *ScanStore) RecordQuality(ctx context.Context, scanID uuid.UUID, q QualityMetrics) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quality (scan_id, point_density, surface_completeness, noise_level, feature_preservation)
		VALUES (?, ?, ?, ?, ?)`,
		scanID.String(), q.PointDensity, q.SurfaceCompleteness, q.NoiseLevel, q.FeaturePreservation,
	)
	if err != nil {
		return fmt.Errorf("record quality for %s: %w", scanID, err)
	}
	return nil
}

func (s *ScanStore) QualityHistory(ctx context.Context, scanID uuid.UUID) ([]QualityMetrics, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT point_density, surface_completeness, noise_level, feature_preservation
		FROM quality WHERE scan_id = ? ORDER BY measured_at, rowid`, scanID.String())
	if err != nil {
		return nil, fmt.Errorf("quality history for %s: %w", scanID, err)
	}
	defer rows.Close()

	var history []QualityMetrics
	for rows.Next() {
		var q QualityMetrics
		if err := rows.Scan(&q.PointDensity, &q.SurfaceCompleteness, &q.NoiseLevel, &q.FeaturePreservation); err != nil {
			return nil, fmt.Errorf("quality history for %s: %w", scanID, err)
		}
		history = append(history, q)
	}
	return history, rows.Err()
}
