// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for rmscripts.
//
// The root command syncs a project: it exports the script container to a
// folder tree on first run and imports the tree back on later runs. The
// export, import and list subcommands pick a direction explicitly, and the
// config subcommands inspect and create configuration files.
package cmd
