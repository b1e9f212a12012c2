package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/xtxerr/oscana/internal/storage"
)

// Colors
var (
	accent  = lipgloss.Color("#3399FF")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	danger  = lipgloss.Color("#FF3333")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
)

func title(s string) {
	fmt.Println(titleStyle.Render(s))
}

func ok(format string, args ...any) {
	fmt.Printf("%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

func kv(key string, value any) {
	fmt.Printf("  %s %v\n", mutedStyle.Render(fmt.Sprintf("%-12s", key+":")), value)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// progress is a per-file ingestion observer drawing a progress bar.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress() *progress {
	return &progress{}
}

// start begins a bar for n files. Nothing is drawn unless stdout is a
// terminal and there is more than one file.
func (p *progress) start(n int, description string) {
	if n < 2 || !isTerminal(os.Stdout) {
		p.bar = nil
		return
	}
	p.bar = progressbar.NewOptions(n,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

func (p *progress) step() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *progress) FileIngested(string, string, int) { p.step() }
func (p *progress) FileSkipped(string, string)       { p.step() }
func (p *progress) FileFailed(string, string, error) { p.step() }

var _ storage.Observer = (*progress)(nil)
