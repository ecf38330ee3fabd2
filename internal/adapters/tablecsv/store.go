package tablecsv

import (
	"plannedobs/internal/adapters/archive/mast"
	"plannedobs/internal/core/census"
)

// Store bundles the package functions behind one value for injection
type Store struct{}

// NewStore returns a Store
func NewStore() Store { return Store{} }

// WriteResults calls the package WriteResults
func (Store) WriteResults(path string, rs mast.ResultSet) (string, error) {
	return WriteResults(path, rs)
}

// ReadRows calls the package ReadRows
func (Store) ReadRows(path string) (Rows, error) { return ReadRows(path) }

// ReadReference calls the package ReadReference
func (Store) ReadReference(path string) ([]string, error) { return ReadReference(path) }

// WriteCensus calls the package WriteCensus
func (Store) WriteCensus(dir string, t *census.Table) (string, error) { return WriteCensus(dir, t) }
