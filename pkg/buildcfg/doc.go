// SPDX-License-Identifier: MPL-2.0

// Package buildcfg models a buildout-style configuration document and renders it.
//
// A Root holds named Sections in first-seen order. Each Section maps keys to
// multi-valued Values and records one Operator per key ("=" or "+="). Merging is
// always accumulative: a key written by two contributors keeps both values.
//
// # Rendering
//
// Render emits the buildout section first, then versions, then every other
// section, then an optional reserved metadata section:
//
//	[buildout]
//	parts = app
//	eggs += django
//	    foo
//
//	[buildout_component]
//	options = eyJ0IjoibWFwIn0=
//	create_time = '2026-01-02 03:04:05.000000'
//
// Parse and ReadMetadata read such a document back.
package buildcfg
