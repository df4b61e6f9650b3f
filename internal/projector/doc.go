// SPDX-License-Identifier: MPL-2.0

// Package projector maps a flat script record stream onto a folder tree and
// rebuilds the stream from that tree.
//
// The container has no explicit folder records. An empty-name record (a
// sentinel) means "the next record labels a folder", and every script after
// that label belongs to the folder until the next sentinel. Classify turns
// this positional encoding into tagged entries once, and both directions
// work on those entries.
//
// Because a directory listing has no order, export also writes a manifest:
// every record name in stream order, one per line, sentinels as blank lines.
// Import replays the manifest, so the manifest and not the tree decides
// record order.
package projector
