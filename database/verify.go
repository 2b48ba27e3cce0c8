package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// requiredTables maps each table to the columns it must carry.
var requiredTables = map[string][]string{
	"contact_submissions": {
		"id", "name", "email", "message", "timestamp", "consent_given",
		"ip_address_hash", "user_agent", "created_at", "updated_at", "retention_expiry",
	},
	"audit_logs": {
		"id", "event_type", "timestamp", "user_id", "ip_hash",
		"user_agent", "submission_id", "event_data", "created_at", "retention_expiry",
	},
}

var requiredViews = []string{
	"expired_contact_submissions",
	"expired_audit_logs",
}

var requiredIndexes = []string{
	"idx_contact_submissions_email",
	"idx_contact_submissions_created_at",
	"idx_contact_submissions_retention_expiry",
	"idx_audit_logs_event_type",
	"idx_audit_logs_timestamp",
	"idx_audit_logs_submission_id",
}

// VerifyResult collects everything Verify found missing from the schema.
type VerifyResult struct {
	MissingTables  []string
	MissingColumns map[string][]string
	MissingViews   []string
	MissingIndexes []string
}

// OK reports whether the schema matched in full.
func (r *VerifyResult) OK() bool {
	return len(r.MissingTables) == 0 && len(r.MissingColumns) == 0 &&
		len(r.MissingViews) == 0 && len(r.MissingIndexes) == 0
}

// Verify checks that the database contains every table, column, view and
// index the application relies on. It reports what is missing rather than
// failing on the first gap so operators see the whole picture at once.
func Verify(database *sql.DB) (*VerifyResult, error) {
	result := &VerifyResult{MissingColumns: make(map[string][]string)}

	tables, err := schemaNames(database, "table")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tableNames := make([]string, 0, len(requiredTables))
	for name := range requiredTables {
		tableNames = append(tableNames, name)
	}
	sort.Strings(tableNames)

	for _, table := range tableNames {
		if !tables[table] {
			result.MissingTables = append(result.MissingTables, table)
			continue
		}

		columns, err := tableColumns(database, table)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
		}
		for _, column := range requiredTables[table] {
			if !columns[column] {
				result.MissingColumns[table] = append(result.MissingColumns[table], column)
			}
		}
	}

	views, err := schemaNames(database, "view")
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	for _, view := range requiredViews {
		if !views[view] {
			result.MissingViews = append(result.MissingViews, view)
		}
	}

	indexes, err := schemaNames(database, "index")
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	for _, index := range requiredIndexes {
		if !indexes[index] {
			result.MissingIndexes = append(result.MissingIndexes, index)
		}
	}

	return result, nil
}

// schemaNames returns the names of all schema objects of the given type.
func schemaNames(database *sql.DB, objectType string) (map[string]bool, error) {
	rows, err := database.Query("SELECT name FROM sqlite_master WHERE type = ?", objectType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names[name] = true
	}
	return names, rows.Err()
}

// tableColumns returns the column names of a table via PRAGMA table_info.
func tableColumns(database *sql.DB, table string) (map[string]bool, error) {
	rows, err := database.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			columnType string
			notNull    int
			defaultVal sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &columnType, &notNull, &defaultVal, &primaryKey); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
