// SPDX-License-Identifier: MPL-2.0

package projector

const (
	// KindSentinel is an empty-name record separating folder sections.
	KindSentinel Kind = iota
	// KindFolder is the record right after a sentinel; its name labels a folder.
	KindFolder
	// KindScript is a record holding script source.
	KindScript
)

const (
	stateNormal state = iota
	stateExpectFolder
)

type (
	// Kind tells what a record means given its position in the stream.
	Kind int

	state int

	// Entry is the structural meaning of one record. Name is empty for
	// sentinels. Folder is the label of the folder a script belongs to,
	// or empty for scripts placed at the tree root.
	Entry struct {
		Kind   Kind
		Name   string
		Folder string
	}
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSentinel:
		return "sentinel"
	case KindFolder:
		return "folder"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// Classify assigns a Kind to every name in stream order:
//
//	NORMAL        + ""        -> sentinel, expect folder
//	EXPECT_FOLDER + ""        -> sentinel, still expect folder (no folder made)
//	EXPECT_FOLDER + name      -> folder label, becomes the target folder
//	NORMAL        + name      -> script in the current target folder
//
// Both export and import go through this function, so a manifest produced
// by export always classifies the same way on import.
func Classify(names []string) []Entry {
	entries := make([]Entry, len(names))
	st := stateNormal
	folder := ""

	for i, name := range names {
		switch {
		case name == "":
			entries[i] = Entry{Kind: KindSentinel}
			st = stateExpectFolder
		case st == stateExpectFolder:
			entries[i] = Entry{Kind: KindFolder, Name: name}
			folder = name
			st = stateNormal
		default:
			entries[i] = Entry{Kind: KindScript, Name: name, Folder: folder}
		}
	}
	return entries
}
