// Package ir provides the intermediate representation for entity schemas.
//
// This package contains type definitions and identifier mangling only.
// The compiler package produces EntitySpec values from CUE sources; the
// store and DDL generator consume them. ir imports nothing internal, so
// it stays the foundational layer with no circular dependencies.
package ir
