package main

import "database/sql"

// DB wraps *sql.DB and provides knowledge-base query helpers.
type DB struct {
	*sql.DB
}

// NewDB returns a DB wrapper.
func NewDB(db *sql.DB) *DB {
	return &DB{DB: db}
}

// OperationProperties is the /api/required response: the full property set
// of one (service, operation), split by requirement.
type OperationProperties struct {
	Service   string   `json:"service"`
	Operation string   `json:"operation"`
	Required  []string `json:"required"`
	Optional  []string `json:"optional"`
}

// ServiceSummary is one row of the /api/services response.
type ServiceSummary struct {
	Service    string `json:"service"`
	Operations int    `json:"operations"`
	Properties int    `json:"properties"`
}

// OperationSummary is one row of the /api/operations and /api/collisions
// responses. Services lists every service defining the operation.
type OperationSummary struct {
	Operation string   `json:"operation"`
	Services  []string `json:"services"`
}

// Stats is the /api/stats response: live counts plus the merge metadata
// recorded by sdkcheck-kbmerge.
type Stats struct {
	Records    int               `json:"records"`
	Services   int               `json:"services"`
	Operations int               `json:"operations"`
	Meta       map[string]string `json:"meta"`
}
