package device

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "device-test-*.db")
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

// seedOwner inserts a user row to own test devices and returns its ID.
func seedOwner(t *testing.T, db *sql.DB, username string) string {
	t.Helper()

	id := "usr-" + username
	_, err := db.Exec(
		`INSERT INTO users (id, username, first_name, last_name, email, password_hash)
		 VALUES (?, ?, 'Alice', 'Anderson', ?, 'x')`,
		id, username, username+"@example.com")
	if err != nil {
		t.Fatalf("seeding owner %s: %v", username, err)
	}
	return id
}

// seedDevice inserts a device for the given owner and returns it.
func seedDevice(t *testing.T, repo *SQLiteRepository, ownerID, name, ip string, kind Kind) *Device {
	t.Helper()

	d := &Device{
		Name:      name,
		IPAddress: ip,
		Kind:      kind,
		OwnerID:   ownerID,
	}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("seeding device %s: %v", name, err)
	}
	return d
}
