// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog guide.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	VersionNotFoundId
	FetchFailedId
	ManifestParseFailedId
	MetadataSchemaId
	HostNotSupportedId
	JavaNotFoundId
	ProfileInvalidId
)

type (
	// MarkdownMsg is guide text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a documentation URL appended to a guide.
	HttpLink string

	// Issue is a Markdown guide for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the issue's identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw guide text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the guide's documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the guide for a terminal. stylePath is a glamour style name
// ("dark", "light", "notty") or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

duck reads ` + "`config.cue`" + ` from its config directory and checks it against a schema.

## Things you can try:
- Show where duck looks:
~~~
$ duck config path
~~~
- Regenerate a default file and reapply your changes:
~~~
$ duck config init
~~~
- Unset stray ` + "`DUCK_*`" + ` environment variables`,
	}

	versionNotFoundIssue = &Issue{
		id: VersionNotFoundId,
		mdMsg: `
# Version not found

The requested version id is not listed in the version manifest index, even after refreshing it.

## Things you can try:
- List the known versions:
~~~
$ duck versions --all
~~~
- Check the spelling; ids are exact (` + "`1.20.1`" + `, ` + "`23w31a`" + `)`,
	}

	fetchFailedIssue = &Issue{
		id: FetchFailedId,
		mdMsg: `
# Download failed

At least one file in a batch could not be downloaded, so the run stopped before launching.
Files that finished are kept and are not downloaded again.

## Things you can try:
- Check your network connection and retry
- Raise ` + "`network.max_retries`" + ` or ` + "`network.timeout`" + ` in your config
- Lower ` + "`network.max_concurrent_fetches`" + ` if the host rate-limits you`,
	}

	manifestParseFailedIssue = &Issue{
		id: ManifestParseFailedId,
		mdMsg: `
# Failed to parse a manifest

A version manifest, version descriptor or asset index could not be decoded.

## Things you can try:
- Refresh the cached index:
~~~
$ duck versions --refresh
~~~
- Delete the cached descriptor under ` + "`meta/`" + ` in the data directory and sync again`,
	}

	metadataSchemaIssue = &Issue{
		id: MetadataSchemaId,
		mdMsg: `
# Unsupported metadata store

` + "`libraries/libraries_metadata.json`" + ` was written by an incompatible version of duck.

## Things you can try:
- Move the file aside; it is rebuilt on the next sync`,
	}

	hostNotSupportedIssue = &Issue{
		id: HostNotSupportedId,
		mdMsg: `
# Host not supported

duck provisions clients for windows, linux and macos only.

## Things you can try:
- Pass ` + "`--os`" + ` to provision for one of the supported systems`,
	}

	javaNotFoundIssue = &Issue{
		id: JavaNotFoundId,
		mdMsg: `
# Java not found

The game needs a Java runtime to start.

## Things you can try:
- Install a Java runtime and make sure ` + "`java`" + ` is on your PATH
- Point ` + "`launcher.java_path`" + ` in your config at the executable`,
	}

	profileInvalidIssue = &Issue{
		id: ProfileInvalidId,
		mdMsg: `
# Invalid account profile

The player profile could not be read or is missing a field.

## Things you can try:
- Launch with ` + "`--offline <name>`" + ` to use an offline profile
- Rewrite the profile:
~~~
$ duck account set <name>
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		versionNotFoundIssue.Id():     versionNotFoundIssue,
		fetchFailedIssue.Id():         fetchFailedIssue,
		manifestParseFailedIssue.Id(): manifestParseFailedIssue,
		metadataSchemaIssue.Id():      metadataSchemaIssue,
		hostNotSupportedIssue.Id():    hostNotSupportedIssue,
		javaNotFoundIssue.Id():        javaNotFoundIssue,
		profileInvalidIssue.Id():      profileInvalidIssue,
	}
)

// Values returns every catalog guide ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the guide for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
