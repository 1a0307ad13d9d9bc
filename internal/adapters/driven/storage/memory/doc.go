// Package memory provides in-memory implementations of driven port
// interfaces. They back tests, and stand in for the file and SQLite
// stores when those cannot be opened.
package memory
