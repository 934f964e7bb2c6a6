// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user documents against embedded CUE schemas and decodes
// them into Go structs.
//
// Both buildcomp's CUE/JSON component manifests and its CUE configuration file go
// through the same three steps: compile the schema, unify the user data with the
// root definition, then validate and decode. Data that was already decoded by
// another parser (TOML manifests) is encoded into CUE with DecodeValue and checked
// against the same definition.
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[fileManifest](
//	    schemaBytes, data, "#Manifest",
//	    cueutil.WithFilename("manifest.cue"),
//	)
package cueutil
