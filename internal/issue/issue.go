// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ContainerNotFoundId Id = iota + 1
	MalformedContainerId
	CorruptBodyId
	ManifestNotFoundId
	ScriptFileNotFoundId
	InvalidScriptNameId
	DuplicateScriptId
	ConfigLoadFailedId
	LaunchFailedId
	PermissionDeniedId
	WatchFailedId

	lastId = WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation about the failure
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using a glamour style
// ("auto", "dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	containerNotFoundIssue = &Issue{
		id: ContainerNotFoundId,
		mdMsg: `
# Script container not found!

There is no scripts data file where the project should have one.

## Things you can try:
- Run the command from the RPG Maker project folder (the one holding ` + "`Game.exe`" + `), or pass it explicitly:
~~~
$ rmscripts --project /path/to/MyGame
~~~

- If your project keeps its scripts elsewhere, set ` + "`data_file`" + ` in ` + "`rmscripts.cue`" + `:
~~~cue
data_file: "Data/Scripts.rxdata"
~~~`,
	}

	malformedContainerIssue = &Issue{
		id: MalformedContainerId,
		mdMsg: `
# The scripts data file could not be read!

The file is not a list of ` + "`[id, name, code]`" + ` entries as written by the RPG Maker editor.

## Common causes:
- The file was saved by a different tool or is not a scripts file at all
- The file was truncated while the editor was writing it
- The editor was open and overwrote the file during a previous import

## Things you can try:
- Open and save the project in the editor, then retry
- Restore ` + "`Scripts.rvdata2.bak`" + ` next to the data file if it exists
- Run with verbose mode for the exact offset:
~~~
$ rmscripts --verbose export
~~~`,
	}

	corruptBodyIssue = &Issue{
		id: CorruptBodyId,
		mdMsg: `
# A script could not be decompressed!

One entry of the scripts data file holds damaged compressed code.

## Things you can try:
- Open the project in the editor and check the script named in the error
- Restore a previous copy of the data file from version control or the ` + "`.bak`" + ` file

Files written before the failure are left in the scripts folder; re-run the export once the data file is fixed.`,
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Manifest not found!

The scripts folder exists but has no manifest. The manifest lists every script in load order and is needed to rebuild the data file.

## Things you can try:
- Restore ` + "`manifest.txt`" + ` from version control
- Move the scripts folder away and export again to regenerate it:
~~~
$ rmscripts export
~~~`,
	}

	scriptFileNotFoundIssue = &Issue{
		id: ScriptFileNotFoundId,
		mdMsg: `
# Script file not found!

The manifest lists a script that has no matching ` + "`.rb`" + ` file.

## Things you can try:
- Restore the file, or create it if the script should be empty
- If the script was removed on purpose, delete its line from the manifest
- If it was renamed, rename its line in the manifest too

Nothing was written to the data file.`,
	}

	invalidScriptNameIssue = &Issue{
		id: InvalidScriptNameId,
		mdMsg: `
# A script name cannot be exported!

Script names become lines of the manifest, so they cannot contain line breaks.

## Things you can try:
- Rename the script in the RPG Maker script editor and save the project
- Run the export again`,
	}

	duplicateScriptIssue = &Issue{
		id: DuplicateScriptId,
		mdMsg: `
# Two scripts would be written to the same file!

Exporting both would lose one of them. Names are compared without case so the folder works on every operating system.

## Things you can try:
- Rename one of the scripts in the RPG Maker script editor
- Check for a folder label that matches a script file name`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the rmscripts configuration file.

## Configuration file locations (first match wins):
1. The file given with ` + "`--config`" + `
2. ` + "`rmscripts.cue`" + ` in the project folder
3. Linux: ~/.config/rmscripts/config.cue
   macOS: ~/Library/Application Support/rmscripts/config.cue
   Windows: %APPDATA%\rmscripts\config.cue

## Things you can try:
- Write a default configuration to compare against:
~~~
$ rmscripts config init
~~~

## Example configuration:
~~~cue
data_file:     "Data/Scripts.rvdata2"
manifest_file: "manifest.txt"
backup:        true

play: {
  enabled: true
  command: "Game.exe test"
}
~~~`,
	}

	launchFailedIssue = &Issue{
		id: LaunchFailedId,
		mdMsg: `
# Could not start the game!

The play command could not be parsed or exited with an error.

## Things you can try:
- Check ` + "`play.command`" + ` in your configuration
- On Linux and macOS, run the game through Wine:
~~~cue
play: command: "wine Game.exe test"
~~~
- Skip launching:
~~~
$ rmscripts --play=false
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

rmscripts could not read or write a file.

## Things you can try:
- Close the RPG Maker editor, which may lock the data file
- Check file and folder permissions of the project and the scripts folder`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Could not watch the scripts folder!

rmscripts stopped watching for script changes.

## Things you can try:
- Export the scripts first so the folder exists:
~~~
$ rmscripts export
~~~
- On Linux, raise the inotify watch limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~`,
		extLinks: []HttpLink{
			"https://github.com/fsnotify/fsnotify#faq",
		},
	}

	issues = map[Id]*Issue{
		containerNotFoundIssue.Id():  containerNotFoundIssue,
		malformedContainerIssue.Id(): malformedContainerIssue,
		corruptBodyIssue.Id():        corruptBodyIssue,
		manifestNotFoundIssue.Id():   manifestNotFoundIssue,
		scriptFileNotFoundIssue.Id(): scriptFileNotFoundIssue,
		invalidScriptNameIssue.Id():  invalidScriptNameIssue,
		duplicateScriptIssue.Id():    duplicateScriptIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		launchFailedIssue.Id():       launchFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		watchFailedIssue.Id():        watchFailedIssue,
	}
)

// Values returns every known issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for id := Id(1); id <= lastId; id++ {
		if i, ok := issues[id]; ok {
			out = append(out, i)
		}
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
