package core

import "degcore/internal/infra/persistence/postgres"

// NewPostgresStore constructs a Postgres-backed result store from the
// provided DSN.
func NewPostgresStore(dsn string) (*postgres.Store, error) {
	return postgres.NewStore(dsn)
}
