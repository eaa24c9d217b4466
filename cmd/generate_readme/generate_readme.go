package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/spf13/pflag"

	"github.com/keshon/bsplit/internal/command"
	_ "github.com/keshon/bsplit/internal/command/digest"
	_ "github.com/keshon/bsplit/internal/command/help"
	_ "github.com/keshon/bsplit/internal/command/merge"
	_ "github.com/keshon/bsplit/internal/command/session"
	_ "github.com/keshon/bsplit/internal/command/split"
)

const defaultTemplate = `# bsplit

Split files into numbered chunks and merge them back with digest verification.

## Commands

{{.CommandSections}}`

func main() {
	tplText := defaultTemplate
	if b, err := os.ReadFile("README.md.tmpl"); err == nil {
		tplText = string(b)
	}

	tpl, err := template.New("readme").Parse(tplText)
	if err != nil {
		fmt.Printf("Failed to parse template: %v\n", err)
		os.Exit(1)
	}

	commands := command.Default().All()

	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Usage() < commands[j].Usage()
	})

	var sections strings.Builder
	for _, cmd := range commands {
		fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
		cmd.Flags(fs)
		fmt.Fprintf(&sections, "### %s\n```\n%s\n\n%s\n", cmd.Name(), cmd.Usage(), cmd.Help())
		if usages := fs.FlagUsages(); usages != "" {
			fmt.Fprintf(&sections, "\nFlags:\n%s", usages)
		}
		sections.WriteString("```\n\n")
	}

	data := map[string]string{
		"CommandSections": sections.String(),
	}

	outFile, err := os.Create("README.md")
	if err != nil {
		fmt.Printf("Failed to create README.md: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := tpl.Execute(outFile, data); err != nil {
		fmt.Printf("Failed to render template: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("README.md generated successfully")
}
