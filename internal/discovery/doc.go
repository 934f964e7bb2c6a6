// SPDX-License-Identifier: MPL-2.0

// Package discovery scans a components directory for component manifests.
//
// Every immediate subdirectory whose name derives a valid identifier is loaded
// with manifest.Load. Problems never abort the scan: they are returned as
// Diagnostic values so the CLI decides how to render them.
package discovery
