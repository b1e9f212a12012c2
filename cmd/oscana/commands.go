package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xtxerr/oscana/internal/source"
	"github.com/xtxerr/oscana/internal/storage"
	"github.com/xtxerr/oscana/internal/storage/plugins"
	"github.com/xtxerr/oscana/internal/storage/query"
)

var (
	loadKind    string
	loadPaths   bool
	exportPath  string
	genRuns     string
	genRows     int
	genMaxPlane int
)

var loadCmd = &cobra.Command{
	Use:   "load [file-key...]",
	Short: "Load files into a handler and print a summary",
	Long: `Load files into a fresh handler. Arguments are environment keys resolved
through the env file; with --paths they are file paths. Without arguments the
'files' list of the config is used.

Examples:
  oscana load SNTP_1001 SNTP_1002
  oscana load --paths data/*.parquet
  oscana load --kind snapshot --paths out/run1001.parquet`,
	RunE: runLoad,
}

var applyCmd = &cobra.Command{
	Use:   "apply [file-key...]",
	Short: "Load files and apply the configured transform pipeline",
	Long: `Load files, then apply the 'transforms' list of the config in order.
Failing transforms are reported and skipped; the command fails after the
whole pipeline has run if any transform failed.`,
	RunE: runApply,
}

var exportCmd = &cobra.Command{
	Use:   "export <snapshot> [file-key...]",
	Short: "Load, transform and export a Parquet snapshot",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the storage strategy and the available plugins",
	RunE:  runInfo,
}

var queryCmd = &cobra.Command{
	Use:   "query <snapshot> [column...]",
	Short: "Column statistics of a snapshot via DuckDB",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

var generateCmd = &cobra.Command{
	Use:   "generate <dir>",
	Short: "Write synthetic Daikon ntuples for testing",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	for _, c := range []*cobra.Command{loadCmd, applyCmd, exportCmd} {
		c.Flags().StringVarP(&loadKind, "kind", "k", "sntp", "source kind: sntp, udst, snapshot")
		c.Flags().BoolVar(&loadPaths, "paths", false, "treat arguments as file paths instead of env keys")
	}
	loadCmd.Flags().StringVarP(&exportPath, "export", "o", "", "export a snapshot after loading")
	applyCmd.Flags().StringVarP(&exportPath, "export", "o", "", "export a snapshot after applying")

	generateCmd.Flags().StringVar(&genRuns, "runs", "1001", "comma separated run numbers")
	generateCmd.Flags().IntVar(&genRows, "rows", 1000, "records per file")
	generateCmd.Flags().IntVar(&genMaxPlane, "max-plane", 0, "largest generated plane number (0 = detector maximum)")

	rootCmd.AddCommand(loadCmd, applyCmd, exportCmd, infoCmd, queryCmd, generateCmd, shellCmd)
}

func loaded(cmd *cobra.Command, files []string) (*pipeline, error) {
	kind, err := storage.ParseSourceKind(loadKind)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		files = cfg.Files
	}

	p, err := newPipeline()
	if err != nil {
		return nil, err
	}
	if err := p.load(cmd.Context(), kind, files, loadPaths); err != nil {
		return nil, err
	}
	ok("loaded %d file(s), %d rows", len(p.h.Files()), p.h.RowCount())
	return p, nil
}

func (p *pipeline) applyConfigured() error {
	ts, err := transforms()
	if err != nil {
		return err
	}
	out := p.h.Apply(ts...)
	for _, d := range out.Diagnostics {
		fmt.Printf("%s %s: %v\n", errorStyle.Render("✗"), d.Item, d.Err)
	}
	if err := out.Err(); err != nil {
		return err
	}
	ok("applied %d transform(s), %d rows remain", out.Applied, p.h.RowCount())
	return nil
}

func (p *pipeline) export(cmd *cobra.Command, name string) error {
	path, err := snapshotPath(name)
	if err != nil {
		return err
	}
	if err := p.h.Export(cmd.Context(), path); err != nil {
		return err
	}
	ok("snapshot written to %s", path)
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	p, err := loaded(cmd, args)
	if err != nil {
		return err
	}
	p.summary()
	if exportPath != "" {
		return p.export(cmd, exportPath)
	}
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	p, err := loaded(cmd, args)
	if err != nil {
		return err
	}
	applyErr := p.applyConfigured()
	p.summary()
	if applyErr != nil {
		return applyErr
	}
	if exportPath != "" {
		return p.export(cmd, exportPath)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	p, err := loaded(cmd, args[1:])
	if err != nil {
		return err
	}
	if err := p.applyConfigured(); err != nil {
		return err
	}
	return p.export(cmd, args[0])
}

func runInfo(cmd *cobra.Command, args []string) error {
	reg := plugins.NewRegistry(nil)

	title("Available Data IO Plugins")
	fmt.Println(mutedStyle.Render("-------------------------"))
	for _, name := range reg.Names() {
		origin, _ := reg.Origin(name)
		fmt.Printf("\t- '%s' %s\n", name, mutedStyle.Render("("+origin+")"))
	}
	fmt.Println()

	p, err := newPipeline()
	if err != nil {
		return err
	}
	return p.h.PrintHandlerInfo(os.Stdout)
}

func runQuery(cmd *cobra.Command, args []string) error {
	svc, err := query.New(&cfg.Query)
	if err != nil {
		return err
	}
	defer svc.Close()

	path, columns := args[0], args[1:]
	if len(columns) == 0 {
		if columns, err = svc.Columns(cmd.Context(), path); err != nil {
			return err
		}
	}

	title(filepath.Base(path))
	fmt.Println(mutedStyle.Render(fmt.Sprintf("  %-20s %10s %12s %12s %12s", "column", "count", "min", "max", "mean")))
	for _, c := range columns {
		st, err := svc.ColumnStats(cmd.Context(), path, c)
		if err != nil {
			return err
		}
		fmt.Printf("  %-20s %10d %12.4g %12.4g %12.4g\n", st.Column, st.Count, st.Min, st.Max, st.Mean)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	runs, err := parseRuns(genRuns)
	if err != nil {
		return err
	}
	for _, run := range runs {
		f, err := source.Synthesize(source.SynthOptions{
			Rows:     genRows,
			Run:      run,
			StartUTC: 1262304000 + run*3600,
			Seed:     uint64(run),
			MaxPlane: genMaxPlane,
		})
		if err != nil {
			return err
		}
		path := filepath.Join(args[0], source.DaikonName(run, "parquet"))
		if err := source.WriteNtuple(path, f); err != nil {
			return err
		}
		ok("wrote %s (%d records)", path, genRows)
	}
	return nil
}

func parseRuns(s string) ([]int64, error) {
	var runs []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		run, err := strconv.ParseInt(part, 10, 64)
		if err != nil || run <= 0 {
			return nil, fmt.Errorf("invalid run number %q", part)
		}
		runs = append(runs, run)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no run numbers given")
	}
	return runs, nil
}
