// SPDX-License-Identifier: MPL-2.0

// Package options holds resolved component options keyed by "manifest.option".
//
// A Store keeps a flat, insertion-ordered view and a view grouped by manifest id.
// Both views are updated together on every mutation. Stores serialize to an
// opaque base64 snapshot that is embedded into the rendered configuration and
// read back on the next run.
package options
