// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the file involved and
// suggestions. The issue catalog holds longer Markdown guidance for each
// failure class, rendered to the terminal with glamour.
package issue
