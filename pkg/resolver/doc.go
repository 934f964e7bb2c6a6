// SPDX-License-Identifier: MPL-2.0

// Package resolver computes option values for component manifests.
//
// A Registry maps (manifest id, option) pairs to Resolvers. LoadHooks fills it
// from a component's hooks directory, where hooks/<option>.<ext> provides the
// value of one option:
//
//	.expr   expr-lang expression
//	.cel    CEL expression
//	.js     JavaScript defining collect(ctx); may write into the fragment
//	.sh     POSIX shell script run in-process; stdout is the value
//
// Hooks see manifest, section, option, fallback (the option's layered default),
// defaults, options (values collected so far), now and uuid().
//
// A resolver that returns nil declines; ErrUnavailable means no handler exists.
// Callers fall back to layered defaults in both cases.
package resolver
