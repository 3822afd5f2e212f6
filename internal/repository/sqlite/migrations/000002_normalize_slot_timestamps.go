package migrations

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

func init() {
	RegisterGoMigration(2, Up_000002_normalize_slot_timestamps, Down_000002_normalize_slot_timestamps)
}

// Up_000002_normalize_slot_timestamps rewrites slot updated_at values to RFC3339.
// Rows written through raw SQL carry SQLite's CURRENT_TIMESTAMP layout, and
// older builds stored Go's default time.String() layout.
func Up_000002_normalize_slot_timestamps(tx *sql.Tx) error {
	type row struct {
		key       string
		updatedAt string
	}
	var pending []row

	rows, err := tx.Query("SELECT key, updated_at FROM slots")
	if err != nil {
		return fmt.Errorf("failed to query slots: %w", err)
	}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.key, &r.updatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan slot: %w", err)
		}
		pending = append(pending, r)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating slots: %w", err)
	}
	rows.Close()

	stmt, err := tx.Prepare("UPDATE slots SET updated_at = ? WHERE key = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range pending {
		normalized, err := NormalizeTimestamp(r.updatedAt)
		if err != nil {
			// unparseable timestamps are reset rather than left ambiguous
			normalized = time.Unix(0, 0).UTC().Format(time.RFC3339)
		}
		if normalized == r.updatedAt {
			continue
		}
		if _, err := stmt.Exec(normalized, r.key); err != nil {
			return fmt.Errorf("failed to update slot %q: %w", r.key, err)
		}
	}
	return nil
}

// Down_000002_normalize_slot_timestamps converts RFC3339 back to the
// CURRENT_TIMESTAMP layout.
func Down_000002_normalize_slot_timestamps(tx *sql.Tx) error {
	_, err := tx.Exec(`
		UPDATE slots
		SET updated_at = substr(updated_at, 1, 10) || ' ' || substr(updated_at, 12, 8)
		WHERE updated_at GLOB '????-??-??T??:??:??*'
	`)
	if err != nil {
		return fmt.Errorf("failed to revert updated_at: %w", err)
	}
	return nil
}

// NormalizeTimestamp parses the timestamp layouts found in older databases and
// returns the value as RFC3339 in UTC.
func NormalizeTimestamp(s string) (string, error) {
	if idx := strings.Index(s, " m="); idx != -1 {
		s = s[:idx]
	}

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999 -0700",
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}
	return "", fmt.Errorf("could not parse time format: %s", s)
}
