// SPDX-License-Identifier: MPL-2.0

// Package manifest loads component manifests from buildout component directories.
//
// A component directory holds one of manifest.cue, manifest.json or manifest.toml
// (probed in that order) and optionally a hooks/ directory with per-option
// resolvers. Every format is validated against the embedded #Manifest schema.
package manifest
