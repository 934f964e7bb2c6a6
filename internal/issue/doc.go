// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guidance for
// the failures buildcomp reports to users.
package issue
