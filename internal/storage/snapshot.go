package storage

import (
	"context"
	"fmt"

	"github.com/xtxerr/oscana/internal/storage/parquet"
)

// ExportSnapshot writes st to path with the parquet snapshot writer.
func ExportSnapshot(ctx context.Context, strategy string, st State, path string, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = opts.Normalize()

	frame, err := st.Frame()
	if err != nil {
		return fmt.Errorf("materialise table: %w", err)
	}

	popts := parquet.DefaultOptions()
	if opts.SnapshotCompression != "" {
		popts.Compression = parquet.ParseCompressionType(opts.SnapshotCompression)
	}

	cells, err := parquet.Write(path, parquet.Snapshot{
		Strategy: strategy,
		Data:     frame,
		Cuts:     st.Cuts,
		Files:    st.Files,
		Ledger:   st.Ledger,
	}, popts)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}

	opts.Logger.Info("snapshot exported",
		"strategy", strategy,
		"path", path,
		"rows", frame.Len(),
		"cells", cells,
		"compression", popts.Compression.String())
	return nil
}

// WriterInfo describes the snapshot writer for Info listings.
func WriterInfo(opts Options) string {
	codec := parquet.DefaultOptions().Compression
	if opts.SnapshotCompression != "" {
		codec = parquet.ParseCompressionType(opts.SnapshotCompression)
	}
	return fmt.Sprintf("parquet-go snapshot writer (%s)", codec)
}
