// Package graphql holds the schema of the read-only registry view.
package graphql

import (
	_ "embed"
)

//go:embed schema.graphqls
var schemaBase string

// Schema returns the registry view schema.
func Schema() string {
	return schemaBase
}
