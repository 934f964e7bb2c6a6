// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NoComponentsId Id = iota + 1
	ComponentsDirNotFoundId
	ManifestInvalidId
	DependencyCycleId
	HookFailedId
	OutputWriteFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation about the issue
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

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
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

	noComponentsIssue = &Issue{
		id: NoComponentsId,
		mdMsg: `
# No components found!

buildcomp looked for component directories but none of them holds a manifest.

## Things you can try:
- Check the components directory:
~~~
$ buildcomp config show
~~~
- Scaffold a new component:
~~~
$ buildcomp create --id myapp port host
~~~`,
	}

	componentsDirNotFoundIssue = &Issue{
		id: ComponentsDirNotFoundId,
		mdMsg: `
# Components directory not found!

The configured components directory does not exist.

## Things you can try:
- Pass it explicitly with ` + "`--components-dir`" + `
- Set ` + "`components_dir`" + ` in ` + "`buildcomp.cue`" + `
- Run buildcomp from the buildout project root, or use ` + "`--project-root`",
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid component manifest!

A manifest could not be decoded or failed schema validation; the component was skipped.

## Things you can try:
- Component ids must match ` + "`^[A-Za-z_][A-Za-z0-9_]*$`" + `
- ` + "`options`" + ` and ` + "`dependencies`" + ` must be lists of strings
- Only one of manifest.cue, manifest.json and manifest.toml is read, in that order`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Components depend on each other in a loop, so no collection order exists.

## Things you can try:
- Inspect the order buildcomp computes:
~~~
$ buildcomp order
~~~
- Remove one of the ` + "`dependencies`" + ` entries named in the cycle`,
	}

	hookFailedIssue = &Issue{
		id: HookFailedId,
		mdMsg: `
# Hook failed!

A file in a component's hooks directory could not be compiled or returned an error.
The option fell back to its default value.

## Things you can try:
- Run with ` + "`--verbose`" + ` to see the hook error
- JavaScript hooks must define ` + "`function collect(ctx)`" + `
- Shell hooks print the value on stdout and must exit with status 0`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write the configuration!

The collected configuration could not be written to the output file.

## Things you can try:
- Check that the output directory exists and is writable
- Choose another file with ` + "`--output-file`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The buildcomp configuration file could not be read or is invalid.

## Things you can try:
- Print the resolved configuration path:
~~~
$ buildcomp config path
~~~
- Print a valid configuration with every default:
~~~
$ buildcomp config dump
~~~`,
	}

	issues = map[Id]*Issue{
		noComponentsIssue.Id():          noComponentsIssue,
		componentsDirNotFoundIssue.Id(): componentsDirNotFoundIssue,
		manifestInvalidIssue.Id():       manifestInvalidIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		hookFailedIssue.Id():            hookFailedIssue,
		outputWriteFailedIssue.Id():     outputWriteFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
