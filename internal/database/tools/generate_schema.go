package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"classdumper/internal/database"
	"classdumper/internal/database/migrations"
)

// generate_schema writes the file table schema, as left behind by the
// embedded migrations, to the sqlc input directory.
func main() {
	if err := run(filepath.Join("internal", "database", "sqlc", "schema.sql")); err != nil {
		fmt.Fprintln(os.Stderr, "generate_schema:", err)
		os.Exit(1)
	}
}

func run(outPath string) error {
	db, err := database.OpenConnection(database.MemoryPath)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}
	schema, err := extractSchema(db)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(schema), 0644); err != nil {
		return err
	}
	fmt.Println("wrote", outPath)
	return nil
}

// extractSchema returns the CREATE statements of every table and index in
// db, skipping SQLite internals and the migration bookkeeping table.
func extractSchema(db *sql.DB) (string, error) {
	rows, err := db.Query(`
		SELECT sql || ';'
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 1 ELSE 2 END, name
	`)
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	b.WriteString("-- This file is auto-generated from migration files.\n")
	b.WriteString("-- DO NOT EDIT MANUALLY. Run 'go generate ./internal/database' to regenerate.\n")
	b.WriteString("-- Source: internal/database/migrations/files/*.sql\n\n")

	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scan failed: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows error: %w", err)
	}

	return b.String(), nil
}
