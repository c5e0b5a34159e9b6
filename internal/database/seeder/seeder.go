// Package seeder loads demo data for local development.
package seeder

import (
	"context"

	"skill-swap/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
