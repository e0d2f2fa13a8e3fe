package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/tracklit/internal/config"
	"github.com/julianstephens/tracklit/internal/keyring"
	"github.com/julianstephens/tracklit/internal/storage"
	"github.com/julianstephens/tracklit/internal/storage/postgres"
	"github.com/julianstephens/tracklit/internal/storage/sqlite"
)

// postgresAlias selects PostgreSQL with the connection string from the
// environment or the OS keyring.
const postgresAlias = "postgres"

func isPostgresURL(db string) bool {
	return strings.HasPrefix(db, "postgres://") || strings.HasPrefix(db, "postgresql://")
}

// openStore picks a storage backend from the --db value.
func openStore(db string, capacity int) (storage.Provider, error) {
	switch {
	case db == postgresAlias:
		connStr, source, err := keyring.ResolveConnectionString()
		if err != nil {
			return nil, err
		}
		// Secrets resolved from the environment or keyring may carry a password.
		if err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("connection string from %s: %w", source, err)
		}
		return postgres.New(connStr, capacity), nil

	case isPostgresURL(db):
		if err := postgres.ValidateConnString(db); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store the URL with 'tracklit keyring set' and pass --db postgres, or use ~/.pgpass", err)
			}
			return nil, err
		}
		return postgres.New(db, capacity), nil
	}

	path, err := config.ExpandPath(db)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return storage.NewJSONStore(path, capacity), nil
	}
	return sqlite.NewStore(path, capacity), nil
}
