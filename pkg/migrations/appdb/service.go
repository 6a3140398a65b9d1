// Package appdb holds all the migrations for the application database
package appdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the application database
var Migrations = migrate.NewMigrations()
