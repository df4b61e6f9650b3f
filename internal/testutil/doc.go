// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv),
// file operations (MustWriteFile, MustReadFile, MustMkdirAll) and script
// container fixtures (BuildStream, SampleStream, AssertStreamsEqual).
package testutil
