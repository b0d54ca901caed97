package db

import (
	"context"
	"fmt"
)

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// Open returns the store for driver. DriverNone (or "") returns a nil Store
// and no error; callers treat that as persistence being disabled.
func Open(ctx context.Context, driver, url, sqlitePath string) (Store, error) {
	switch driver {
	case DriverPostgres:
		pg, err := Connect(ctx, url)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case DriverSQLite:
		lite, err := OpenSQLite(ctx, sqlitePath)
		if err != nil {
			return nil, err
		}
		return lite, nil
	case DriverNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
