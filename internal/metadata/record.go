package metadata

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xtxerr/oscana/internal/errors"
)

// Record is the serialised form of a File, used in snapshot metadata.
type Record struct {
	Name         string    `yaml:"name"`
	Path         string    `yaml:"path,omitempty"`
	Format       int       `yaml:"format"`
	Type         int       `yaml:"type"`
	Experiment   int       `yaml:"experiment"`
	Detector     int       `yaml:"detector"`
	Region       int       `yaml:"region"`
	Flavour      int       `yaml:"flavour"`
	MagField     int       `yaml:"mag_field"`
	Horn         int       `yaml:"horn_pos"`
	TargetShift  int       `yaml:"tgt_z_shift"`
	CurrentSign  int       `yaml:"current_sign"`
	Current      int       `yaml:"current"`
	Run          int64     `yaml:"run_number"`
	RunAmbiguous bool      `yaml:"run_ambiguous,omitempty"`
	MCRun        int       `yaml:"mc_run"`
	SubRun       int       `yaml:"sub_run"`
	MCFamily     int       `yaml:"mc_family"`
	MCNumber     int       `yaml:"mc_number"`
	RecoFamily   int       `yaml:"reco_family"`
	RecoNumber   float64   `yaml:"reco_number"`
	Start        time.Time `yaml:"start"`
	End          time.Time `yaml:"end"`
	Entries      int       `yaml:"entries"`
	Created      time.Time `yaml:"created"`
}

// Record returns the serialisable form of f.
func (f File) Record() Record {
	return Record{
		Name:         f.name,
		Path:         f.path,
		Format:       int(f.format),
		Type:         int(f.fileType),
		Experiment:   int(f.experiment),
		Detector:     int(f.detector),
		Region:       int(f.region),
		Flavour:      int(f.flavour),
		MagField:     int(f.field),
		Horn:         int(f.horn),
		TargetShift:  f.targetShift,
		CurrentSign:  int(f.currentSign),
		Current:      f.current,
		Run:          f.run,
		RunAmbiguous: f.runAmbiguous,
		MCRun:        f.mcRun,
		SubRun:       f.subRun,
		MCFamily:     int(f.mc.Family),
		MCNumber:     f.mc.Number,
		RecoFamily:   int(f.reco.Family),
		RecoNumber:   f.reco.Number,
		Start:        f.start,
		End:          f.end,
		Entries:      f.entries,
		Created:      f.created,
	}
}

// File rebuilds the File a Record was taken from.
func (r Record) File() File {
	return File{
		name:         r.Name,
		path:         r.Path,
		format:       FileFormat(r.Format),
		fileType:     FileType(r.Type),
		experiment:   Experiment(r.Experiment),
		detector:     Detector(r.Detector),
		region:       InteractionRegion(r.Region),
		flavour:      Flavour(r.Flavour),
		field:        MagField(r.MagField),
		horn:         HornPosition(r.Horn),
		targetShift:  r.TargetShift,
		currentSign:  HornCurrent(r.CurrentSign),
		current:      r.Current,
		run:          r.Run,
		runAmbiguous: r.RunAmbiguous,
		mcRun:        r.MCRun,
		subRun:       r.SubRun,
		mc:           MCVersion{Family: MCFamily(r.MCFamily), Number: r.MCNumber},
		reco:         RecoVersion{Family: RecoFamily(r.RecoFamily), Number: r.RecoNumber},
		start:        r.Start,
		end:          r.End,
		entries:      r.Entries,
		created:      r.Created,
	}
}

type fileList struct {
	Files []Record `yaml:"files"`
}

// EncodeFiles serialises a file list to YAML.
func EncodeFiles(files []File) ([]byte, error) {
	l := fileList{Files: make([]Record, len(files))}
	for i, f := range files {
		l.Files[i] = f.Record()
	}
	return yaml.Marshal(l)
}

// DecodeFiles parses a file list written by EncodeFiles.
func DecodeFiles(data []byte) ([]File, error) {
	var l fileList
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode file metadata: %w", err)
	}
	files := make([]File, len(l.Files))
	for i, r := range l.Files {
		if r.Name == "" {
			return nil, fmt.Errorf("files[%d]: %w", i, errors.NewMissingField("name"))
		}
		files[i] = r.File()
	}
	return files, nil
}
