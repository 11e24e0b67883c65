package migration

import _ "embed"

// Create is the schema of a new database.
//
//go:embed create-tables.sql
var Create string
