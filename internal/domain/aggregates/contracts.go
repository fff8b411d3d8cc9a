package aggregates

import "slices"

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means each write method runs in exactly one transaction
	// that the aggregate opens and commits.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// Contract names the roots an aggregate writes and the read-cache namespaces its
// committed writes may invalidate.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	Roots            []string
	Namespaces       []string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// Invalidates reports whether a committed write may bump namespace.
func (c Contract) Invalidates(namespace string) bool {
	return slices.Contains(c.Namespaces, namespace)
}
