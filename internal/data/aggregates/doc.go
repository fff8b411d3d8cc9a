// Package aggregates implements the directory write engine.
//
// The engine composes the table repos from internal/data/repos with the graph builder,
// owns the transaction for each create/upsert/delete, and bumps read-cache namespaces
// once the transaction has committed.
package aggregates
