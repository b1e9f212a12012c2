package source

import (
	"fmt"
	"math/rand/v2"

	"github.com/xtxerr/oscana/internal/table"
)

// Standard variables present in synthesized ntuples.
const (
	PlaneVariable  = "NtpSt/stp.plane"
	StripVariable  = "NtpSt/stp.strip"
	ChargeVariable = "NtpSt/evt.ph.sigcor"
	NStripVariable = "NtpSt/evt.nstrip"
	EnergyVariable = "NtpBDLite/evt.energy"
)

// SynthOptions configures a synthetic ntuple.
type SynthOptions struct {
	Rows int
	// Run fills the run summary column.
	Run int64
	// StartUTC is the first event time in Unix seconds.
	StartUTC int64
	Seed     uint64
	// MaxPlane bounds generated plane numbers; values above 485 produce
	// rows that fail the valid plane cut.
	MaxPlane int
}

// Synthesize builds a frame keyed by full variable paths, suitable for
// WriteNtuple or MemorySource.
func Synthesize(opts SynthOptions) (*table.Frame, error) {
	if opts.Rows < 0 {
		return nil, fmt.Errorf("rows must not be negative")
	}
	if opts.MaxPlane <= 0 {
		opts.MaxPlane = 485
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	planes := make([][]float64, opts.Rows)
	strips := make([][]float64, opts.Rows)
	charge := make([]float64, opts.Rows)
	nstrip := make([]float64, opts.Rows)
	energy := make([]float64, opts.Rows)
	runs := make([]float64, opts.Rows)
	utc := make([]float64, opts.Rows)

	for i := 0; i < opts.Rows; i++ {
		n := 1 + rng.IntN(8)
		planes[i] = make([]float64, n)
		strips[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			planes[i][j] = float64(rng.IntN(opts.MaxPlane + 1))
			strips[i][j] = float64(rng.IntN(192))
		}
		charge[i] = 100 + rng.Float64()*4900
		nstrip[i] = float64(n)
		energy[i] = rng.ExpFloat64() * 3
		runs[i] = float64(opts.Run)
		utc[i] = float64(opts.StartUTC + int64(i))
	}

	return table.NewFrame(
		table.Jagged(PlaneVariable, planes...),
		table.Jagged(StripVariable, strips...),
		table.Scalar(ChargeVariable, charge...),
		table.Scalar(NStripVariable, nstrip...),
		table.Scalar(EnergyVariable, energy...),
		table.Scalar(RunVariable, runs...),
		table.Scalar(UTCVariable, utc...),
	)
}

// DaikonName returns a Daikon spill file name for the given run.
func DaikonName(run int64, ext string) string {
	return fmt.Sprintf("n13011001_0000_L010185N_D04_r%d.sntp.dogwood1.0.%s", run, ext)
}
