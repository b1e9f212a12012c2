package metadata

import "strings"

// FileFormat is the on-disk format of a source file.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatROOT
	FormatHDF5
	FormatParquet
)

func (f FileFormat) String() string {
	switch f {
	case FormatROOT:
		return "root"
	case FormatHDF5:
		return "h5"
	case FormatParquet:
		return "parquet"
	default:
		return "????"
	}
}

// ParseFileFormat maps a file extension (with or without the dot).
func ParseFileFormat(ext string) FileFormat {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "root":
		return FormatROOT
	case "h5", "hdf5":
		return FormatHDF5
	case "parquet":
		return FormatParquet
	default:
		return FormatUnknown
	}
}

// FileType distinguishes detector data from simulation.
type FileType int

const (
	TypeUnknown FileType = iota
	TypeData
	TypeMonteCarlo
)

func (t FileType) String() string {
	switch t {
	case TypeData:
		return "DATA"
	case TypeMonteCarlo:
		return "MONTE_CARLO"
	default:
		return "UNKNOWN"
	}
}

// Experiment identifies the experiment a file belongs to.
type Experiment int

const (
	ExperimentUnknown Experiment = iota
	ExperimentMINOS
	ExperimentMINOSPlus
	ExperimentNOvA
)

func (e Experiment) String() string {
	switch e {
	case ExperimentMINOS:
		return "MINOS"
	case ExperimentMINOSPlus:
		return "MINOS_PLUS"
	case ExperimentNOvA:
		return "NOVA"
	default:
		return "UNKNOWN"
	}
}

// Detector codes follow the validity-context detector flag.
type Detector int

const (
	DetectorUnknown     Detector = -1
	DetectorCalibration Detector = 0
	DetectorNear        Detector = 1
	DetectorFar         Detector = 2
)

func (d Detector) String() string {
	switch d {
	case DetectorCalibration:
		return "CALIBRATION"
	case DetectorNear:
		return "NEAR"
	case DetectorFar:
		return "FAR"
	default:
		return "UNKNOWN"
	}
}

// DetectorFromFlag maps a raw detector flag read from a record.
func DetectorFromFlag(v int64) Detector {
	switch v {
	case 0, 1, 2:
		return Detector(v)
	default:
		return DetectorUnknown
	}
}

// MCFamily is the simulation release family (the "vegetable").
type MCFamily int

const (
	MCUnknown MCFamily = iota
	MCAvocado
	MCBeet
	MCCarrot
	MCDaikon
)

func (m MCFamily) String() string {
	switch m {
	case MCAvocado:
		return "Avocado"
	case MCBeet:
		return "Beet"
	case MCCarrot:
		return "Carrot"
	case MCDaikon:
		return "Daikon"
	default:
		return "?"
	}
}

// ParseMCFamily maps the single-letter family code.
func ParseMCFamily(s string) MCFamily {
	switch s {
	case "A":
		return MCAvocado
	case "B":
		return MCBeet
	case "C":
		return MCCarrot
	case "D":
		return MCDaikon
	default:
		return MCUnknown
	}
}

// RecoFamily is the reconstruction release family (the "wood").
type RecoFamily int

const (
	RecoUnknown RecoFamily = iota
	RecoAsh
	RecoBirch
	RecoCedar
	RecoDogwood
)

func (r RecoFamily) String() string {
	switch r {
	case RecoAsh:
		return "ash"
	case RecoBirch:
		return "birch"
	case RecoCedar:
		return "cedar"
	case RecoDogwood:
		return "dogwood"
	default:
		return "unknown"
	}
}

// ParseRecoFamily maps a release name.
func ParseRecoFamily(s string) RecoFamily {
	switch s {
	case "ash":
		return RecoAsh
	case "birch":
		return RecoBirch
	case "cedar":
		return RecoCedar
	case "dogwood":
		return RecoDogwood
	default:
		return RecoUnknown
	}
}

// HornPosition is the beam configuration.
type HornPosition int

const (
	HornUnknown HornPosition = iota
	HornLowEnergy
	HornMediumEnergy
	HornHighEnergy
)

func (h HornPosition) String() string {
	switch h {
	case HornLowEnergy:
		return "L"
	case HornMediumEnergy:
		return "M"
	case HornHighEnergy:
		return "H"
	default:
		return "?"
	}
}

// ParseHornPosition maps the L/M/H code.
func ParseHornPosition(s string) HornPosition {
	switch s {
	case "L":
		return HornLowEnergy
	case "M":
		return HornMediumEnergy
	case "H":
		return HornHighEnergy
	default:
		return HornUnknown
	}
}

// HornCurrent is the sign of the horn current.
type HornCurrent int

const (
	CurrentUnknown HornCurrent = iota
	CurrentForward
	CurrentReverse
)

func (c HornCurrent) String() string {
	switch c {
	case CurrentForward:
		return "N"
	case CurrentReverse:
		return "R"
	default:
		return "?"
	}
}

// ParseHornCurrent maps the N/R code.
func ParseHornCurrent(s string) HornCurrent {
	switch s {
	case "N":
		return CurrentForward
	case "R":
		return CurrentReverse
	default:
		return CurrentUnknown
	}
}

// InteractionRegion is where simulated interactions were generated.
type InteractionRegion int

const (
	RegionUnknown          InteractionRegion = -1
	RegionAtmosphere       InteractionRegion = 0
	RegionDetector         InteractionRegion = 1
	RegionRock             InteractionRegion = 2
	RegionDetectorRock     InteractionRegion = 3
	RegionDetectorFiducial InteractionRegion = 4
	RegionSmallFiducial    InteractionRegion = 5
)

func (r InteractionRegion) String() string {
	switch r {
	case RegionAtmosphere:
		return "ATMOSPHERE"
	case RegionDetector:
		return "DETECTOR"
	case RegionRock:
		return "ROCK"
	case RegionDetectorRock:
		return "DETECTOR_ROCK"
	case RegionDetectorFiducial:
		return "DETECTOR_FIDUCIAL"
	case RegionSmallFiducial:
		return "SMALL_FIDUCIAL"
	default:
		return "UNKNOWN"
	}
}

// RegionFromCode maps the numeric code used in file names.
func RegionFromCode(v int) InteractionRegion {
	if v >= 0 && v <= 5 {
		return InteractionRegion(v)
	}
	return RegionUnknown
}

// Flavour is the simulated beam flavour.
type Flavour int

const (
	FlavourUnknown           Flavour = -1
	FlavourUnoscillated      Flavour = 0
	FlavourNuE               Flavour = 1
	FlavourNuTau             Flavour = 3
	FlavourInvertedBeam      Flavour = 4
	FlavourFarOscillatedMock Flavour = 9
)

func (f Flavour) String() string {
	switch f {
	case FlavourUnoscillated:
		return "UNOSCILLATED"
	case FlavourNuE:
		return "NU_E"
	case FlavourNuTau:
		return "NU_TAU"
	case FlavourInvertedBeam:
		return "INVERTED_BEAM"
	case FlavourFarOscillatedMock:
		return "FAR_OSCILLATED_MOCK"
	default:
		return "UNKNOWN"
	}
}

// FlavourFromCode maps the numeric code used in file names.
func FlavourFromCode(v int) Flavour {
	switch v {
	case 0, 1, 3, 4, 9:
		return Flavour(v)
	default:
		return FlavourUnknown
	}
}

// MagField is the detector magnetic-field configuration.
type MagField int

const (
	FieldUnknown     MagField = -1
	FieldOff         MagField = 0
	FieldNormal      MagField = 1
	FieldReversed    MagField = 2
	FieldNewNormal   MagField = 3
	FieldNewReversed MagField = 4
)

func (m MagField) String() string {
	switch m {
	case FieldOff:
		return "OFF"
	case FieldNormal:
		return "NORMAL"
	case FieldReversed:
		return "REVERSED"
	case FieldNewNormal:
		return "NEW_NORMAL"
	case FieldNewReversed:
		return "NEW_REVERSED"
	default:
		return "UNKNOWN"
	}
}

// MagFieldFromCode maps the numeric code used in file names.
func MagFieldFromCode(v int) MagField {
	if v >= 0 && v <= 4 {
		return MagField(v)
	}
	return FieldUnknown
}
