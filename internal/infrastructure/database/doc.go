// Package database provides the SQLite connection and migration runner.
//
// The connection is opened once at startup with foreign keys enabled and
// (optionally) WAL mode, then handed to the repository packages. Schema
// migrations are embedded in the binary by the top-level migrations package
// and applied in version order on boot.
package database
