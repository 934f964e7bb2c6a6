// SPDX-License-Identifier: MPL-2.0

// Package collect implements the collection pipeline.
//
// A Collector orders manifests by their dependencies, resolves each manifest's
// options through a resolver.Resolver with layered fallbacks (prior snapshot,
// manifest defaults, command-line overrides) and folds every per-manifest
// fragment into one final buildcfg.Root. A manifest reachable along several
// dependency paths is collected once; a dependency cycle aborts the run.
package collect
