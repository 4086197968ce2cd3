// Package sqlite opens SQLite databases with whichever driver the build
// selected and exports processed works into them.
//
// Build modes:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
//
// Use Open instead of sql.Open so the right driver name is used for the
// active build.
package sqlite

import (
	"database/sql"

	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
)

// DriverName returns the SQL driver name of the active build.
func DriverName() string {
	return driverName
}

// DriverType identifies the underlying implementation, "purego" or "cgo".
func DriverType() string {
	return driverType
}

// DriverPackage names the driver module of the active build.
func DriverPackage() string {
	return driverPackage
}

// IsCGO reports whether the CGO implementation is in use.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database using the build's driver.
func Open(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "open sqlite %s", dataSourceName)
	}
	return db, nil
}

// OpenReadOnly opens a SQLite database in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	return Open(path + "?mode=ro")
}
