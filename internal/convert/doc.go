// SPDX-License-Identifier: MPL-2.0

// Package convert runs whole conversions for one RPG Maker project: it reads
// or writes the script container, drives the projector over the scripts
// folder, and picks the direction when asked to sync.
package convert
