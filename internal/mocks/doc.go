// Package mocks provides centralized test doubles for the store and auth
// interfaces.
//
// The store fakes keep their state in memory and honor the same contracts as
// the Postgres implementations: ownership scoping, kind-specific not-found
// errors, (owner, name) uniqueness and descending ordering. WithTx returns
// the receiver, so services can run their transactions against a sqlmock
// database (see TxDB) while reading and writing the fakes.
//
// Usage:
//
//	mem := mocks.NewMemory()
//	recipes := mocks.NewMockRecipeStore(mem)
//	tags := mocks.NewMockLabelStore(mem, domain.LabelKindTag)
//
// Function fields (CreateFn, GetByNameFn, ...) override individual methods
// when a test needs to inject a failure or simulate a concurrent writer.
package mocks
