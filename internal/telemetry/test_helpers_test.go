package telemetry

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openfell/telemetry-core/internal/device"
)

// testDB creates a temporary SQLite database with the schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "telemetry-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE TABLE devices (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			ip_address TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
		) STRICT;

		CREATE TABLE readings (
			id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			temperature REAL,
			humidity REAL,
			pressure REAL,
			light_level REAL,
			cpu_usage REAL,
			memory_usage REAL,
			timestamp TEXT NOT NULL,
			FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE
		) STRICT;
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	return db
}

// seedDevice inserts an owner and a device, returning the device ID.
func seedDevice(t *testing.T, db *sql.DB, id string, kind device.Kind, ip string) string {
	t.Helper()

	_, err := db.Exec(
		`INSERT OR IGNORE INTO users (id, username, first_name, last_name, email, password_hash)
		 VALUES ('usr-owner', 'owner', 'Olive', 'Owner', 'owner@example.com', 'x')`)
	if err != nil {
		t.Fatalf("seeding owner: %v", err)
	}

	_, err = db.Exec(
		`INSERT INTO devices (id, name, ip_address, kind, owner_id)
		 VALUES (?, ?, ?, ?, 'usr-owner')`,
		id, "Device "+id, ip, string(kind))
	if err != nil {
		t.Fatalf("seeding device %s: %v", id, err)
	}
	return id
}

func ptr(v float64) *float64 { return &v }
