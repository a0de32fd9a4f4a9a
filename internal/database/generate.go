package database

// schema.sql is derived from the migrations; the query code from schema.sql
// and query.sql. Both steps run from the module root.

//go:generate sh -c "cd ../.. && go run internal/database/tools/generate_schema.go"
//go:generate sh -c "cd ../.. && sqlc generate -f internal/database/sqlc/sqlc.yaml"
