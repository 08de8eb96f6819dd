package main

import (
	"database/sql"
	"fmt"
)

// Properties returns the property sets of one (service, operation).
// sql.ErrNoRows when the knowledge base does not track the pair.
func (db *DB) Properties(service, operation string) (*OperationProperties, error) {
	rows, err := db.Query(
		`SELECT property, required FROM records WHERE service = ? AND operation = ? ORDER BY property`,
		service, operation)
	if err != nil {
		return nil, fmt.Errorf("properties query: %w", err)
	}
	defer rows.Close()

	resp := &OperationProperties{
		Service:   service,
		Operation: operation,
		Required:  []string{},
		Optional:  []string{},
	}
	var found bool
	for rows.Next() {
		var prop string
		var required bool
		if err := rows.Scan(&prop, &required); err != nil {
			return nil, err
		}
		found = true
		if required {
			resp.Required = append(resp.Required, prop)
		} else {
			resp.Optional = append(resp.Optional, prop)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, sql.ErrNoRows
	}
	return resp, nil
}

// Services returns per-service operation and property counts.
func (db *DB) Services() ([]ServiceSummary, error) {
	rows, err := db.Query(
		`SELECT service, COUNT(DISTINCT operation), COUNT(*) FROM records GROUP BY service ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("services query: %w", err)
	}
	defer rows.Close()

	var out []ServiceSummary
	for rows.Next() {
		var s ServiceSummary
		if err := rows.Scan(&s.Service, &s.Operations, &s.Properties); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Operations returns every operation with its defining services,
// optionally filtered to names starting with prefix. minServices = 2
// restricts the result to cross-service collisions.
func (db *DB) Operations(prefix string, minServices int) ([]OperationSummary, error) {
	rows, err := db.Query(
		`SELECT operation, service FROM records
		 WHERE operation LIKE ? || '%'
		 GROUP BY operation, service
		 ORDER BY operation, service`,
		prefix)
	if err != nil {
		return nil, fmt.Errorf("operations query: %w", err)
	}
	defer rows.Close()

	var out []OperationSummary
	for rows.Next() {
		var op, service string
		if err := rows.Scan(&op, &service); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].Operation == op {
			out[n-1].Services = append(out[n-1].Services, service)
		} else {
			out = append(out, OperationSummary{Operation: op, Services: []string{service}})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if minServices > 1 {
		filtered := out[:0]
		for _, o := range out {
			if len(o.Services) >= minServices {
				filtered = append(filtered, o)
			}
		}
		out = filtered
	}
	return out, nil
}

// Stats returns live record counts and any merge metadata.
func (db *DB) Stats() (*Stats, error) {
	st := &Stats{Meta: map[string]string{}}
	err := db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT service), COUNT(DISTINCT operation) FROM records`).
		Scan(&st.Records, &st.Services, &st.Operations)
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}

	rows, err := db.Query(`SELECT key, value FROM meta ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("meta query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		st.Meta[k] = v
	}
	return st, rows.Err()
}
