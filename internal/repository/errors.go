// Package repository contains the SQL data access layer. Repositories return
// the sentinel errors below so services can tell a missing row or a lost
// race from an infrastructure failure.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a guarded update matched no row because the
// row is no longer in the expected state (e.g. a label sold concurrently).
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when an insert violates a unique key.
var ErrDuplicate = errors.New("duplicate")

// mysqlDupEntry is ER_DUP_ENTRY.
const mysqlDupEntry = 1062

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDupEntry
	}
	// sqlite, used by the test database
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
