// Package aggregates defines domain-facing aggregate contracts, write payloads and the
// typed error model shared by the directory write and read paths.
//
// Contracts avoid persistence/transport details; they mark the semantic write boundaries
// where a root entity and its graph must be persisted atomically.
package aggregates
