package db

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/budgetplanner/migrations"
	"gorm.io/gorm"
)

// Migration files are named NNN_description.sql; NNN is the version.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)

// migrationFile is one forward-only schema step.
type migrationFile struct {
	Version string
	Order   int
	Name    string
	SQL     string
}

// Migrate applies every embedded migration that is not yet recorded in
// schema_migrations and returns the names of the ones it ran.
func Migrate(database *gorm.DB) ([]string, error) {
	return applyMigrations(database, embeddedMigrationsFS())
}

func embeddedMigrationsFS() fs.FS {
	return embeddedmigrations.Files
}

// applyMigrations runs pending files from files in version order. It stops at
// the first failure and returns the names applied before it.
func applyMigrations(database *gorm.DB, files fs.FS) ([]string, error) {
	const createLedgerTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := database.Exec(createLedgerTable).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := loadMigrations(files)
	if err != nil {
		return nil, err
	}
	done, err := appliedVersions(database)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0)
	for _, migration := range pending {
		if _, ok := done[migration.Version]; ok {
			continue
		}
		if err := runMigration(database, migration); err != nil {
			return applied, err
		}
		applied = append(applied, migration.Name)
	}
	return applied, nil
}

// loadMigrations reads the top-level *.sql files of files. Names that do not
// start with a version are skipped; two files sharing a version are an error.
func loadMigrations(files fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	byVersion := make(map[string]string, len(entries))
	migrations := make([]migrationFile, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name())
		matches := migrationFilePattern.FindStringSubmatch(name)
		if entry.IsDir() || matches == nil {
			continue
		}

		version := matches[1]
		if previous, clash := byVersion[version]; clash {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, name)
		}
		byVersion[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, migrationFile{Version: version, Order: order, Name: name, SQL: string(body)})
	}

	slices.SortFunc(migrations, func(a, b migrationFile) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), strings.Compare(a.Name, b.Name))
	})
	return migrations, nil
}

func appliedVersions(database *gorm.DB) (map[string]struct{}, error) {
	var versions []string
	if err := database.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}

	done := make(map[string]struct{}, len(versions))
	for _, version := range versions {
		done[version] = struct{}{}
	}
	return done, nil
}

// runMigration executes every statement of one file and records its version
// in the same transaction.
func runMigration(database *gorm.DB, migration migrationFile) error {
	statements := splitSQLStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s: %w", migration.Name, errEmptyMigration)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", migration.Name, statement, err)
			}
		}
		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			migration.Version,
			migration.Name,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", migration.Name, err)
		}
		return nil
	})
}

var errEmptyMigration = errors.New("migration has no SQL statements")

// splitSQLStatements breaks a migration file on semicolons. Migration files
// must not contain semicolons inside string literals or triggers.
func splitSQLStatements(sqlText string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
