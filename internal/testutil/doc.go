// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover environment variables (MustSetenv), directories (MustChdir,
// MustMkdirAll), component fixtures (MustWriteFile, WriteComponent) and a
// FakeClock for reproducible timestamps.
package testutil
