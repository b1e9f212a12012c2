package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"

	"github.com/xtxerr/oscana/internal/storage"
	"github.com/xtxerr/oscana/internal/transform"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session over one handler",
	Long: `Start an interactive session. The handler is built from the config and
kept for the whole session, so files and transforms accumulate.`,
	RunE: runShell,
}

var shellCommands = []prompt.Suggest{
	{Text: "load", Description: "load <file-key...>"},
	{Text: "paths", Description: "load <path...> without env resolution"},
	{Text: "snapshot", Description: "load a snapshot: snapshot <path>"},
	{Text: "apply", Description: "apply <transform> [key=value...]"},
	{Text: "pipeline", Description: "apply the configured transform pipeline"},
	{Text: "info", Description: "show handler info"},
	{Text: "metadata", Description: "show the ledger and file metadata"},
	{Text: "describe", Description: "column statistics"},
	{Text: "export", Description: "export <snapshot>"},
	{Text: "exit", Description: "leave the shell"},
}

func runShell(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return fmt.Errorf("shell needs an interactive terminal")
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}
	sh := &shell{p: p, ctx: cmd.Context(), cat: transform.NewCatalogue()}

	title(fmt.Sprintf("oscana %s", Version))
	fmt.Println(mutedStyle.Render("  " + p.h.String()))

	prompt.New(sh.execute, sh.complete,
		prompt.OptionPrefix("oscana> "),
		prompt.OptionTitle("oscana"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && strings.TrimSpace(in) == "exit"
		}),
	).Run()
	return nil
}

type shell struct {
	p   *pipeline
	ctx context.Context
	cat *transform.Catalogue
}

func (s *shell) complete(d prompt.Document) []prompt.Suggest {
	words := strings.Fields(d.TextBeforeCursor())
	if len(words) > 1 || (len(words) == 1 && strings.HasSuffix(d.TextBeforeCursor(), " ")) {
		if words[0] == "apply" {
			var sugg []prompt.Suggest
			for _, n := range s.cat.Names() {
				sugg = append(sugg, prompt.Suggest{Text: n})
			}
			return prompt.FilterHasPrefix(sugg, d.GetWordBeforeCursor(), true)
		}
		return nil
	}
	return prompt.FilterHasPrefix(shellCommands, d.GetWordBeforeCursor(), true)
}

func (s *shell) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	if err := s.run(fields[0], fields[1:]); err != nil {
		fmt.Println(errorStyle.Render("✗ ") + err.Error())
	}
}

func (s *shell) run(name string, args []string) error {
	h := s.p.h
	switch name {
	case "exit":
		return nil
	case "load":
		return s.load(storage.SourceSNTP, args, false)
	case "paths":
		return s.load(storage.SourceSNTP, args, true)
	case "snapshot":
		return s.load(storage.SourceSnapshot, args, true)
	case "apply":
		if len(args) == 0 {
			return fmt.Errorf("usage: apply <transform> [key=value...]")
		}
		t, err := s.cat.Build(args[0], parseParams(args[1:]))
		if err != nil {
			return err
		}
		if err := h.ApplyTransforms(t); err != nil {
			return err
		}
		ok("%s: %d rows", transform.String(t), h.RowCount())
	case "pipeline":
		return s.p.applyConfigured()
	case "info":
		return h.PrintHandlerInfo(os.Stdout)
	case "metadata":
		return h.PrintMetadata(os.Stdout)
	case "describe":
		sums, err := h.Describe(s.ctx)
		if err != nil {
			return err
		}
		for _, c := range sums {
			line := fmt.Sprintf("%-20s n=%-8d min=%-10.4g max=%-10.4g mean=%-10.4g", c.Column, c.Count, c.Min, c.Max, c.Mean)
			if c.HasQuantiles() {
				line += fmt.Sprintf(" p50=%.4g p90=%.4g p99=%.4g", *c.P50, *c.P90, *c.P99)
			}
			fmt.Println("  " + line)
		}
	case "export":
		if len(args) != 1 {
			return fmt.Errorf("usage: export <snapshot>")
		}
		path, err := snapshotPath(args[0])
		if err != nil {
			return err
		}
		if err := h.Export(s.ctx, path); err != nil {
			return err
		}
		ok("snapshot written to %s", path)
	default:
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}

func (s *shell) load(kind storage.SourceKind, files []string, asPaths bool) error {
	if err := s.p.load(s.ctx, kind, files, asPaths); err != nil {
		return err
	}
	ok("%d rows from %d file(s)", s.p.h.RowCount(), len(s.p.h.Files()))
	return nil
}

// parseParams turns key=value words into transform parameters. Numbers
// are parsed as float64.
func parseParams(words []string) map[string]any {
	params := make(map[string]any, len(words))
	for _, w := range words {
		k, v, found := strings.Cut(w, "=")
		if !found {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params[k] = f
			continue
		}
		params[k] = v
	}
	return params
}
