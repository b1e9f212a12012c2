package handler

import (
	"fmt"
	"io"
	"strings"

	"github.com/xtxerr/oscana/internal/metadata"
)

// PrintHandlerInfo writes the storage strategy and settings report.
func (h *Handler) PrintHandlerInfo(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Data IO\n-------\n")
	b.WriteString(h.strategy.Info().String())
	b.WriteString("\nSettings\n--------\n")
	fmt.Fprintf(&b, "\t- Handler ID : %s\n", h.id)
	fmt.Fprintf(&b, "\t- Cuts Table : %s\n", enabled(h.makeCuts))
	_, err := io.WriteString(w, b.String())
	return err
}

// PrintMetadata writes the transform ledger followed by every file report.
func (h *Handler) PrintMetadata(w io.Writer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var b strings.Builder
	b.WriteString(h.state.Ledger.String())
	b.WriteString("\n")
	for _, f := range h.state.Files {
		b.WriteString(f.String())
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String summarises the handler's variable, transform, cut and file counts.
func (h *Handler) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var cuts, transforms int
	for _, e := range h.state.Ledger.Entries() {
		if e.Kind == metadata.KindCut {
			cuts++
		} else {
			transforms++
		}
	}
	return fmt.Sprintf("Oscana.DataHandler(n_variables=%d, n_transforms=%d, n_cuts=%d, n_files=%d)",
		len(h.state.Variables), transforms, cuts, len(h.state.Files))
}

func enabled(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}
