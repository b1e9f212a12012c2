// Package metadata describes the provenance of ingested files and of the
// transforms applied to a dataset.
package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MCVersion is a simulation release: family plus version number.
type MCVersion struct {
	Family MCFamily
	Number int
}

func (v MCVersion) String() string { return fmt.Sprintf("%s %d", v.Family, v.Number) }

// RecoVersion is a reconstruction release: family plus version number.
type RecoVersion struct {
	Family RecoFamily
	Number float64
}

func (v RecoVersion) String() string {
	return v.Family.String() + " " + strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// File is the immutable provenance record of one ingested source file.
// Values are built once by Build and never modified; copies are safe to
// share.
type File struct {
	name         string
	path         string
	format       FileFormat
	fileType     FileType
	experiment   Experiment
	detector     Detector
	region       InteractionRegion
	flavour      Flavour
	field        MagField
	horn         HornPosition
	targetShift  int
	currentSign  HornCurrent
	current      int
	run          int64
	runAmbiguous bool
	mcRun        int
	subRun       int
	mc           MCVersion
	reco         RecoVersion
	start        time.Time
	end          time.Time
	entries      int
	created      time.Time
}

func (f File) Name() string               { return f.name }
func (f File) Path() string               { return f.path }
func (f File) Format() FileFormat         { return f.format }
func (f File) Type() FileType             { return f.fileType }
func (f File) Experiment() Experiment     { return f.experiment }
func (f File) Detector() Detector         { return f.detector }
func (f File) Region() InteractionRegion  { return f.region }
func (f File) Flavour() Flavour           { return f.flavour }
func (f File) MagField() MagField         { return f.field }
func (f File) HornPosition() HornPosition { return f.horn }
func (f File) TargetShift() int           { return f.targetShift }
func (f File) CurrentSign() HornCurrent   { return f.currentSign }
func (f File) Current() int               { return f.current }
func (f File) RunNumber() int64           { return f.run }
func (f File) MCRun() int                 { return f.mcRun }
func (f File) SubRun() int                { return f.subRun }
func (f File) MCVersion() MCVersion       { return f.mc }
func (f File) RecoVersion() RecoVersion   { return f.reco }
func (f File) Start() time.Time           { return f.start }
func (f File) End() time.Time             { return f.end }
func (f File) Entries() int               { return f.entries }
func (f File) CreatedAt() time.Time       { return f.created }

// RunAmbiguous reports whether the run column held more than one value and
// the run number was settled by majority vote.
func (f File) RunAmbiguous() bool { return f.runAmbiguous }

// Compatible reports whether f and o can be merged into one dataset.
// Every provenance field must match except the interaction region.
func (f File) Compatible(o File) bool {
	return len(f.Diff(o)) == 0
}

// Compatible is the symmetric form of File.Compatible.
func Compatible(a, b File) bool { return a.Compatible(b) }

// Diff names the provenance fields that differ between f and o, ignoring
// the interaction region.
func (f File) Diff(o File) []string {
	var d []string
	check := func(name string, eq bool) {
		if !eq {
			d = append(d, name)
		}
	}
	check("file_format", f.format == o.format)
	check("file_type", f.fileType == o.fileType)
	check("experiment", f.experiment == o.experiment)
	check("detector", f.detector == o.detector)
	check("flavour", f.flavour == o.flavour)
	check("mag_field", f.field == o.field)
	check("horn_pos", f.horn == o.horn)
	check("tgt_z_shift", f.targetShift == o.targetShift)
	check("current_sign", f.currentSign == o.currentSign)
	check("current", f.current == o.current)
	check("run_number", f.run == o.run)
	check("mc_version", f.mc == o.mc)
	check("reco_version", f.reco == o.reco)
	return d
}

// String renders the multi-line file report.
func (f File) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", f.name, strings.Repeat("-", len(f.name)))
	row := func(label string, value any) {
		fmt.Fprintf(&b, "%-16s: %v\n", label, value)
	}
	row("File Format", f.format)
	row("File Type", f.fileType)
	row("Experiment", f.experiment)
	row("Detector", f.detector)
	row("Int. Region", f.region)
	row("Flavour", f.flavour)
	row("Mag. Field", f.field)
	row("Horn Position", f.horn)
	row("Target Z Shift", fmt.Sprintf("%d cm", f.targetShift))
	row("Curr. Direction", f.currentSign)
	row("Current", fmt.Sprintf("%d kAmps", f.current))
	run := groupDigits(f.run)
	if f.runAmbiguous {
		run += " (ambiguous)"
	}
	row("Run Number", run)
	row("MC Version", f.mc)
	row("Reco. Version", f.reco)
	b.WriteString("Date and Time\n")
	fmt.Fprintf(&b, "    %-12s: %s\n", "Start", formatTime(f.start))
	fmt.Fprintf(&b, "    %-12s: %s\n", "End", formatTime(f.end))
	row("Total Entries", groupDigits(int64(f.entries)))
	row("First Loaded On", formatTime(f.created))
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
