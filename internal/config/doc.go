// SPDX-License-Identifier: MPL-2.0

// Package config handles rmscripts configuration using Viper with CUE as the
// file format, and resolves it into the concrete project Layout.
package config
