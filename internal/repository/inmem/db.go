// Package inmem provides map-backed repositories used when no database is
// configured and in tests.
package inmem

import (
	"sync"
	"time"

	"github.com/campus-grievance/grievance-service/internal/domain"
)

// DB holds the in-memory tables.
type DB struct {
	users  *userTable
	issues *issueTable
	now    func() time.Time
}

type userTable struct {
	mutex sync.RWMutex
	table map[string]*domain.User
}

type issueTable struct {
	mutex sync.RWMutex
	seq   int64
	table map[string]*issueRow
}

type issueRow struct {
	seq   int64
	issue domain.Issue
}

// NewDB returns an empty database.
func NewDB() *DB {
	return &DB{
		users:  &userTable{table: make(map[string]*domain.User)},
		issues: &issueTable{table: make(map[string]*issueRow)},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// DeleteUser removes an account. The API never deletes users; tests use this
// to exercise tokens of vanished accounts.
func (db *DB) DeleteUser(id string) {
	db.users.mutex.Lock()
	defer db.users.mutex.Unlock()
	delete(db.users.table, id)
}
