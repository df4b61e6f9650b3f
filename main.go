// SPDX-License-Identifier: MPL-2.0

// Command rmscripts converts RPG Maker script data files to and from a
// folder of plain Ruby files.
package main

import cmd "github.com/leaf2fire/RPG-Maker-Scripts/cmd/rmscripts"

func main() {
	cmd.Execute()
}
