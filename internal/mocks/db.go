package mocks

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// TxDB is a sqlmock database for services whose stores are fakes but which
// still open transactions with store.RunInTransaction.
type TxDB struct {
	DB   *sql.DB
	Mock sqlmock.Sqlmock
}

// NewTxDB creates a TxDB that is closed, and whose expectations are checked,
// when the test ends.
func NewTxDB(t testing.TB) *TxDB {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet transaction expectations: %v", err)
		}
		_ = db.Close()
	})

	return &TxDB{DB: db, Mock: mock}
}

// ExpectCommit expects one transaction that commits.
func (d *TxDB) ExpectCommit() {
	d.Mock.ExpectBegin()
	d.Mock.ExpectCommit()
}

// ExpectRollback expects one transaction that rolls back.
func (d *TxDB) ExpectRollback() {
	d.Mock.ExpectBegin()
	d.Mock.ExpectRollback()
}
