package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/eugenenazirov/example-backend/internal/settings"
	"github.com/eugenenazirov/example-backend/internal/tags"
)

var (
	cyan   = color.New(color.FgHiCyan).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
)

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// printTags renders the tag metadata in documentation order.
// tagMetadata returns the catalog metadata, or bare names when namesOnly is set.
func tagMetadata(registry *tags.Registry, namesOnly bool) []tags.Metadata {
	if namesOnly {
		return tags.Flat(registry.Tags()...)
	}
	return registry.Metadata()
}

func printTags(w io.Writer, metadata []tags.Metadata) error {
	table := newTable(w, []string{"#", "Name", "Description", "External Docs"})
	for i, meta := range metadata {
		docs := ""
		if meta.ExternalDocs != nil {
			docs = meta.ExternalDocs.URL
		}
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			cyan(meta.Name),
			meta.Description,
			docs,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func printVersion(w io.Writer, s settings.AppSettings) {
	source := string(s.VersionSource())
	if s.VersionSource() == settings.SourceDefault {
		source = yellow(source)
	}
	fmt.Fprintf(w, "%s %s (source: %s)\n", green("version"), s.Project.Version, source)
	fmt.Fprintf(w, "%s %s (source: %s)\n", green("environment"), s.Environment, s.EnvironmentSource())
}
