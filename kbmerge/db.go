package main

import (
	"fmt"
	"os"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"sdkcheck/internal/progress"
	"sdkcheck/kb"
)

// WriteDB compiles the merged knowledge base into a SQLite file for the
// inspection server. The file is rebuilt from scratch on every merge.
func WriteDB(path string, records []kb.PropertyRecord, base *kb.Base, prog *progress.Progress) error {
	prog.Log("Writing SQLite to %s ...", path)

	_ = os.Remove(path) // ignore if doesn't exist

	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate, sqlite.OpenReadWrite, sqlite.OpenWAL)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := sqlitex.ExecuteTransient(conn, "PRAGMA synchronous = NORMAL", nil); err != nil {
		return err
	}
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA temp_store = MEMORY", nil); err != nil {
		return err
	}
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA journal_mode = WAL", nil); err != nil {
		return err
	}

	if err := createTables(conn); err != nil {
		return err
	}

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := insertRecords(conn, records, prog); err != nil {
		endFn(&err)
		return err
	}
	if err := insertMeta(conn, records, base); err != nil {
		endFn(&err)
		return err
	}
	endFn(&err)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	// Indexes after the bulk insert.
	if err := createIndexes(conn); err != nil {
		return err
	}

	info, _ := os.Stat(path)
	if info != nil {
		prog.Log("Wrote %s (%d KB)", path, info.Size()/1024)
	}
	return nil
}

func createTables(conn *sqlite.Conn) error {
	ddl := `
CREATE TABLE records (
    service TEXT NOT NULL,
    operation TEXT NOT NULL,
    property TEXT NOT NULL,
    required INTEGER NOT NULL,
    PRIMARY KEY (service, operation, property)
);

CREATE TABLE meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
	return sqlitex.ExecuteScript(conn, ddl, nil)
}

func createIndexes(conn *sqlite.Conn) error {
	indexes := `
CREATE INDEX idx_records_operation ON records(operation);
CREATE INDEX idx_records_service ON records(service);
`
	return sqlitex.ExecuteScript(conn, indexes, nil)
}

func insertRecords(conn *sqlite.Conn, records []kb.PropertyRecord, prog *progress.Progress) error {
	stmt, err := conn.Prepare(`INSERT INTO records (service, operation, property, required) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer func() { _ = stmt.Finalize() }()

	for _, r := range records {
		stmt.BindText(1, r.Service)
		stmt.BindText(2, r.Operation)
		stmt.BindText(3, r.Property)
		stmt.BindBool(4, r.Required)

		if _, err := stmt.Step(); err != nil {
			return fmt.Errorf("insert record %s/%s/%s: %w", r.Service, r.Operation, r.Property, err)
		}
		_ = stmt.Reset()
	}

	prog.Log("Inserted %d records", len(records))
	return nil
}

func insertMeta(conn *sqlite.Conn, records []kb.PropertyRecord, base *kb.Base) error {
	stmt, err := conn.Prepare(`INSERT INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare meta insert: %w", err)
	}
	defer func() { _ = stmt.Finalize() }()

	meta := [][2]string{
		{"generated_at", time.Now().UTC().Format(time.RFC3339)},
		{"record_count", fmt.Sprint(len(records))},
		{"operation_count", fmt.Sprint(base.Len())},
		{"service_count", fmt.Sprint(len(base.Services()))},
	}
	for _, kv := range meta {
		stmt.BindText(1, kv[0])
		stmt.BindText(2, kv[1])
		if _, err := stmt.Step(); err != nil {
			return fmt.Errorf("insert meta %s: %w", kv[0], err)
		}
		_ = stmt.Reset()
	}
	return nil
}
