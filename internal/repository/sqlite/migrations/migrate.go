package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.sql
var migrationsFS embed.FS

// Migration represents a database migration. SQL migrations carry Up/Down
// text; Go migrations carry UpFunc/DownFunc.
type Migration struct {
	Version  int
	Up       string
	Down     string
	UpFunc   func(tx *sql.Tx) error
	DownFunc func(tx *sql.Tx) error
}

var goMigrations = map[int]Migration{}

// RegisterGoMigration registers a migration implemented in Go. Called from init.
func RegisterGoMigration(version int, up, down func(tx *sql.Tx) error) {
	goMigrations[version] = Migration{Version: version, UpFunc: up, DownFunc: down}
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	// Create migrations table if it doesn't exist
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dirty, err := getDirtyMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to check migration state: %w", err)
	}
	if len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state, failed migration(s): %v", dirty)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			markDirty(db, migration.Version)
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func createMigrationsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		dirty BOOLEAN DEFAULT FALSE
	)`
	_, err := db.Exec(query)
	return err
}

func loadMigrations() ([]Migration, error) {
	entries, err := migrationsFS.ReadDir(".")
	if err != nil {
		return nil, err
	}

	byVersion := make(map[int]Migration, len(entries)+len(goMigrations))
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		version := extractVersion(entry.Name())
		if version == 0 {
			continue
		}

		upSQL, err := migrationsFS.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}

		downFile := strings.Replace(entry.Name(), ".up.sql", ".down.sql", 1)
		downSQL, err := migrationsFS.ReadFile(downFile)
		if err != nil {
			return nil, err
		}

		byVersion[version] = Migration{
			Version: version,
			Up:      string(upSQL),
			Down:    string(downSQL),
		}
	}

	for version, m := range goMigrations {
		if _, clash := byVersion[version]; clash {
			return nil, fmt.Errorf("migration %d is defined in both SQL and Go", version)
		}
		byVersion[version] = m
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func getAppliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations WHERE dirty = FALSE")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func getDirtyMigrations(db *sql.DB) ([]int, error) {
	rows, err := db.Query("SELECT version FROM migrations WHERE dirty = TRUE ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dirty []int
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		dirty = append(dirty, version)
	}
	return dirty, rows.Err()
}

func markDirty(db *sql.DB, version int) {
	_, _ = db.Exec("INSERT OR REPLACE INTO migrations (version, dirty) VALUES (?, TRUE)", version)
}

func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if migration.UpFunc != nil {
		err = migration.UpFunc(tx)
	} else {
		_, err = tx.Exec(migration.Up)
	}
	if err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (?)", migration.Version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
