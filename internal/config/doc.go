// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from buildcomp.cue in the project root or, when that is
// absent, from $XDG_CONFIG_HOME/buildcomp/config.cue (~/.config/buildcomp/config.cue).
// Files are validated against the embedded CUE schema (config_schema.cue) before
// being merged over the built-in defaults; BUILDCOMP_* environment variables
// override both.
package config
