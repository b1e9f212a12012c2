package metadata

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/logging"
)

// daikonPattern is the naming grammar of Daikon spill files, for example
// n13011001_0000_L010185N_D04_r1.sntp.dogwood1.0.root.
var daikonPattern = regexp.MustCompile(`^` +
	`(?P<det>n1|f2|F2)` +
	`(?P<int>[012345])` +
	`(?P<flr>[012349])` +
	`(?P<fld>[01234])` +
	`(?P<run>[1-9]\d{3})_` +
	`(?P<sun>\d{4})_` +
	`(?P<pos>[LMH])` +
	`(?P<zst>000|010|100|150|250)` +
	`(?P<cur>000|170|185|200)` +
	`(?P<sgn>[NR])_` +
	`(?P<veg>[ABCD])` +
	`(?P<ver>0[1-9]|1[0-9])_` +
	`r(?P<bfr>\d+)\.` +
	`(?P<flt>sntp|cand|mrnt)\.` +
	`(?P<wod>ash|birch|dogwood)` +
	`(?P<wer>\d+\.\d+)`)

var daikonDetectors = map[string]struct {
	detector Detector
	fileType FileType
}{
	"n1": {DetectorNear, TypeMonteCarlo},
	"f2": {DetectorFar, TypeMonteCarlo},
	"F2": {DetectorFar, TypeUnknown},
}

// ParseName parses a file name against the known naming grammars. The
// returned File carries only what the name encodes; Build completes it.
func ParseName(name string) (File, error) {
	base := filepath.Base(name)

	m := daikonPattern.FindStringSubmatch(base)
	if m == nil {
		return File{}, fmt.Errorf("'%s': %w", base, errors.ErrUnknownFileName)
	}

	format := ParseFileFormat(filepath.Ext(base))
	if format == FormatUnknown {
		return File{}, fmt.Errorf("'%s': %w", base, errors.ErrUnknownFileFormat)
	}

	g := func(group string) string {
		return m[daikonPattern.SubexpIndex(group)]
	}
	atoi := func(group string) int {
		// Groups are digit-only by construction.
		v, _ := strconv.Atoi(g(group))
		return v
	}

	det := daikonDetectors[g("det")]
	bfr, err := strconv.ParseInt(g("bfr"), 10, 64)
	if err != nil {
		return File{}, fmt.Errorf("'%s': run number: %w", base, errors.ErrUnknownFileName)
	}
	wer, err := strconv.ParseFloat(g("wer"), 64)
	if err != nil {
		return File{}, fmt.Errorf("'%s': release version: %w", base, errors.ErrUnknownFileName)
	}

	return File{
		name:        base,
		format:      format,
		fileType:    det.fileType,
		experiment:  ExperimentMINOS,
		detector:    det.detector,
		region:      RegionFromCode(atoi("int")),
		flavour:     FlavourFromCode(atoi("flr")),
		field:       MagFieldFromCode(atoi("fld")),
		horn:        ParseHornPosition(g("pos")),
		targetShift: atoi("zst"),
		currentSign: ParseHornCurrent(g("sgn")),
		current:     atoi("cur"),
		run:         bfr,
		mcRun:       atoi("run"),
		subRun:      atoi("sun"),
		mc:          MCVersion{Family: ParseMCFamily(g("veg")), Number: atoi("ver")},
		reco:        RecoVersion{Family: ParseRecoFamily(g("wod")), Number: wer},
	}, nil
}

// Summary holds the summary fields a record source reads from a file.
type Summary struct {
	// Runs is the run-number column, one value per record.
	Runs []int64
	// Times is the event UTC column in Unix seconds.
	Times []int64
	// Entries is the number of records.
	Entries int
}

// Build constructs the File for name/path from its parsed name and the
// summary read from the record source. now is the creation timestamp.
//
// A run column overrides the run encoded in the name; disagreement is
// logged. Inconsistent run columns resolve by majority vote.
func Build(name, path string, s Summary, now time.Time) (File, error) {
	f, err := ParseName(name)
	if err != nil {
		return File{}, err
	}
	log := logging.Component("metadata")

	f.path = path
	f.entries = s.Entries
	f.created = now

	if len(s.Runs) > 0 {
		run, unanimous := MajorityRun(s.Runs)
		if !unanimous {
			log.Warn("multiple run numbers found in file", "file", f.name, "selected", run)
			f.runAmbiguous = true
		}
		if run != f.run {
			log.Warn("run column disagrees with file name", "file", f.name, "name_run", f.run, "column_run", run)
		}
		f.run = run
	}

	if start, end, ok := TimeRange(s.Times); ok {
		f.start = start
		f.end = end
	}
	return f, nil
}

// MajorityRun returns the most frequent run number, breaking ties towards
// the smaller value, and whether all values agreed.
func MajorityRun(runs []int64) (int64, bool) {
	if len(runs) == 0 {
		return 0, true
	}
	counts := make(map[int64]int, 1)
	for _, r := range runs {
		counts[r]++
	}
	keys := make([]int64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, len(counts) == 1
}

// TimeRange returns the min and max of Unix-second timestamps.
func TimeRange(ts []int64) (time.Time, time.Time, bool) {
	if len(ts) == 0 {
		return time.Time{}, time.Time{}, false
	}
	lo, hi := ts[0], ts[0]
	for _, t := range ts[1:] {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return time.Unix(lo, 0).UTC(), time.Unix(hi, 0).UTC(), true
}
