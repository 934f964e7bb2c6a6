// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the buildcomp command line interface.
//
// Every command is built from an App, which bundles the configuration provider,
// component discovery, the hook resolver factory and the output streams. Tests
// construct an App through Dependencies and drive the root command directly.
package cmd
