//go:build integration

// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can run in parallel without cleaning up after
// themselves. The schema is brought up to date with the embedded goose
// migrations once per test binary.
//
// Tests are skipped unless RECIPE_TEST_DATABASE_URL (or DATABASE_URL) points
// at a disposable database:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        recipes := postgres.NewPostgresRecipeStore(tx, logger)
//	        ...
//	    })
//	}
package testdb
