// Package schema provides the saved-configuration library schema.
package schema

import _ "embed"

// LibrarySQL contains the library DDL. Every statement is idempotent so it
// can run on each open.
//
//go:embed library.sql
var LibrarySQL string
