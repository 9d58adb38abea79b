package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for device persistence operations.
type Repository interface {
	// Create inserts a new device after validating it.
	// Returns ErrDuplicateIP if the IP address is already used by any device,
	// ErrOwnerNotFound if the owner does not exist.
	Create(ctx context.Context, d *Device) error

	// GetByID retrieves a device by its unique identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// GetDetail retrieves a device together with its owner's display name.
	GetDetail(ctx context.Context, id string) (*Detail, error)

	// List retrieves all devices in insertion order.
	List(ctx context.Context) ([]Device, error)

	// Update applies a partial update, leaving nil fields unchanged.
	// Returns the updated device.
	Update(ctx context.Context, id string, upd Update) (*Device, error)

	// Delete removes a device by ID. The readings cascade atomically.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed device repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// deviceColumns is the column list shared by every device SELECT.
const deviceColumns = "id, name, ip_address, kind, owner_id, created_at, updated_at"

// Create inserts a new device. The ID is generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, d *Device) error {
	if err := Validate(d); err != nil {
		return err
	}

	if d.ID == "" {
		d.ID = "dev-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Truncate(time.Second)
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, name, ip_address, kind, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.IPAddress, string(d.Kind), d.OwnerID,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateIP
		case isForeignKeyViolation(err):
			return ErrOwnerNotFound
		}
		return fmt.Errorf("creating device: %w", err)
	}

	return nil
}

// GetByID retrieves a device by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+deviceColumns+" FROM devices WHERE id = ?", id)

	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// GetDetail retrieves a device with its owner's display name resolved.
func (r *SQLiteRepository) GetDetail(ctx context.Context, id string) (*Detail, error) {
	var detail Detail
	var kind string
	var createdAt, updatedAt string
	var firstName, lastName string

	err := r.db.QueryRowContext(ctx,
		`SELECT d.id, d.name, d.ip_address, d.kind, d.owner_id, d.created_at, d.updated_at,
			u.first_name, u.last_name
		 FROM devices d
		 JOIN users u ON u.id = d.owner_id
		 WHERE d.id = ?`, id,
	).Scan(&detail.ID, &detail.Name, &detail.IPAddress, &kind, &detail.OwnerID,
		&createdAt, &updatedAt, &firstName, &lastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device detail: %w", err)
	}

	detail.Kind = Kind(kind)
	detail.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	detail.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled
	detail.OwnerName = firstName + " " + lastName

	return &detail, nil
}

// List retrieves all devices in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+deviceColumns+" FROM devices ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}

	if devices == nil {
		devices = []Device{}
	}
	return devices, nil
}

// Update applies a partial update inside a transaction. Nil fields are left
// unchanged; a changed IP address is re-validated and subject to the unique
// constraint.
func (r *SQLiteRepository) Update(ctx context.Context, id string, upd Update) (*Device, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning update transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	row := tx.QueryRowContext(ctx,
		"SELECT "+deviceColumns+" FROM devices WHERE id = ?", id)
	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device for update: %w", err)
	}

	if upd.Name != nil {
		d.Name = *upd.Name
	}
	if upd.IPAddress != nil {
		d.IPAddress = *upd.IPAddress
	}
	if err := Validate(d); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	d.UpdatedAt = now

	if _, err := tx.ExecContext(ctx,
		"UPDATE devices SET name = ?, ip_address = ?, updated_at = ? WHERE id = ?",
		d.Name, d.IPAddress, now.Format(time.RFC3339), id,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIP
		}
		return nil, fmt.Errorf("updating device: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing device update: %w", err)
	}
	return d, nil
}

// Delete removes a device by ID. Its readings are deleted in the same
// statement via the cascading foreign key.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a device from a row or rows.
func scanDevice(s scanner) (*Device, error) {
	var d Device
	var kind string
	var createdAt, updatedAt string

	err := s.Scan(&d.ID, &d.Name, &d.IPAddress, &kind, &d.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	d.Kind = Kind(kind)
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &d, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation checks if a SQLite error is a FOREIGN KEY violation.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
