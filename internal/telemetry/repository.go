package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openfell/telemetry-core/internal/device"
)

// Repository defines the interface for reading persistence operations.
type Repository interface {
	// Create stores a new reading after validating its metric set against
	// the owning device's kind. A zero timestamp defaults to the current
	// time. Returns device.ErrDeviceNotFound if the device does not exist.
	Create(ctx context.Context, r *Reading) error

	// GetByID retrieves a reading by its unique identifier.
	GetByID(ctx context.Context, id string) (*Reading, error)

	// List retrieves all readings ordered by timestamp ascending.
	List(ctx context.Context) ([]Reading, error)

	// ListByDevice retrieves a device's readings ordered by timestamp
	// ascending.
	ListByDevice(ctx context.Context, deviceID string) ([]Reading, error)

	// Update applies a partial update, leaving nil fields unchanged, and
	// re-validates the merged metric set.
	Update(ctx context.Context, id string, upd Update) (*Reading, error)

	// Delete removes a reading by ID.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed reading repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const readingColumns = "id, device_id, temperature, humidity, pressure, light_level, cpu_usage, memory_usage, timestamp"

// Create stores a new reading. The device's kind is resolved in the same
// transaction so a concurrent device delete cannot orphan the row.
func (r *SQLiteRepository) Create(ctx context.Context, reading *Reading) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning create transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	var kind string
	err = tx.QueryRowContext(ctx,
		"SELECT kind FROM devices WHERE id = ?", reading.DeviceID).Scan(&kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return device.ErrDeviceNotFound
		}
		return fmt.Errorf("resolving device kind: %w", err)
	}

	if err := ValidateForKind(reading, device.Kind(kind)); err != nil {
		return err
	}

	if reading.ID == "" {
		reading.ID = "rdg-" + uuid.NewString()[:8]
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now().UTC().Truncate(time.Second)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO readings (id, device_id, temperature, humidity, pressure, light_level, cpu_usage, memory_usage, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reading.ID, reading.DeviceID,
		reading.Temperature, reading.Humidity, reading.Pressure, reading.LightLevel,
		reading.CPUUsage, reading.MemoryUsage,
		reading.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating reading: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reading: %w", err)
	}
	return nil
}

// GetByID retrieves a reading by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Reading, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+readingColumns+" FROM readings WHERE id = ?", id)

	reading, err := scanReading(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("querying reading by id: %w", err)
	}
	return reading, nil
}

// List retrieves all readings ordered by timestamp ascending.
func (r *SQLiteRepository) List(ctx context.Context) ([]Reading, error) {
	return r.queryReadings(ctx,
		"SELECT "+readingColumns+" FROM readings ORDER BY timestamp ASC")
}

// ListByDevice retrieves a device's readings ordered by timestamp ascending.
func (r *SQLiteRepository) ListByDevice(ctx context.Context, deviceID string) ([]Reading, error) {
	return r.queryReadings(ctx,
		"SELECT "+readingColumns+" FROM readings WHERE device_id = ? ORDER BY timestamp ASC",
		deviceID)
}

func (r *SQLiteRepository) queryReadings(ctx context.Context, query string, args ...any) ([]Reading, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		readings = append(readings, *reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}

	if readings == nil {
		readings = []Reading{}
	}
	return readings, nil
}

// Update applies a partial update inside a transaction. The merged metric
// set is re-validated against the device's kind before writing.
func (r *SQLiteRepository) Update(ctx context.Context, id string, upd Update) (*Reading, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning update transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	row := tx.QueryRowContext(ctx,
		"SELECT "+readingColumns+" FROM readings WHERE id = ?", id)
	reading, err := scanReading(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("querying reading for update: %w", err)
	}

	if upd.Temperature != nil {
		reading.Temperature = upd.Temperature
	}
	if upd.Humidity != nil {
		reading.Humidity = upd.Humidity
	}
	if upd.Pressure != nil {
		reading.Pressure = upd.Pressure
	}
	if upd.LightLevel != nil {
		reading.LightLevel = upd.LightLevel
	}
	if upd.CPUUsage != nil {
		reading.CPUUsage = upd.CPUUsage
	}
	if upd.MemoryUsage != nil {
		reading.MemoryUsage = upd.MemoryUsage
	}
	if upd.Timestamp != nil {
		reading.Timestamp = upd.Timestamp.UTC().Truncate(time.Second)
	}

	var kind string
	err = tx.QueryRowContext(ctx,
		"SELECT kind FROM devices WHERE id = ?", reading.DeviceID).Scan(&kind)
	if err != nil {
		return nil, fmt.Errorf("resolving device kind: %w", err)
	}
	if err := ValidateForKind(reading, device.Kind(kind)); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE readings
		 SET temperature = ?, humidity = ?, pressure = ?, light_level = ?,
		     cpu_usage = ?, memory_usage = ?, timestamp = ?
		 WHERE id = ?`,
		reading.Temperature, reading.Humidity, reading.Pressure, reading.LightLevel,
		reading.CPUUsage, reading.MemoryUsage,
		reading.Timestamp.Format(time.RFC3339), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating reading: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reading update: %w", err)
	}
	return reading, nil
}

// Delete removes a reading by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM readings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting reading: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrReadingNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(s scanner) (*Reading, error) {
	var reading Reading
	var timestamp string

	err := s.Scan(&reading.ID, &reading.DeviceID,
		&reading.Temperature, &reading.Humidity, &reading.Pressure, &reading.LightLevel,
		&reading.CPUUsage, &reading.MemoryUsage, &timestamp)
	if err != nil {
		return nil, err
	}

	reading.Timestamp, _ = time.Parse(time.RFC3339, timestamp) //nolint:errcheck // format is controlled
	return &reading, nil
}
