// Package directory holds the persistence model of the treatment-facility directory:
// the org → campus → program hierarchy, the shared vocabulary tables, and the
// join, finance and content rows that hang off each root.
package directory
