// Package learning keeps user corrections and matches new drawings to them.
//
// A Store is created once at startup and lives for the process; nothing is
// persisted. Lookup is a linear scan (at most 100 examples of 784 cells), so
// no index is kept.
package learning
