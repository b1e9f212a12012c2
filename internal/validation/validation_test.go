package validation

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	rules := DefaultNameRules()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "FrameIO", false},
		{"with hyphen", "naive-v1", false},
		{"with underscore", "valid_plane", false},
		{"numbers", "123", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"hidden", ".hidden", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"control char", "a\x00b", true},
		{"with dot", "range.cut", true},
		{"angles", "A<B>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input, rules)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseVariablePath(t *testing.T) {
	tests := []struct {
		input   string
		branch  string
		key     string
		wantErr bool
	}{
		{"NtpSt/stp.plane", "NtpSt", "stp.plane", false},
		{"NtpSt/evt.ph.sigcor", "NtpSt", "evt.ph.sigcor", false},
		{"NtpStRecord/evthdr/evthdr.date.utc", "NtpStRecord", "evthdr.date.utc", false},
		{"NtpStRecord/RecRecordImp<RecCandHeader>/fHeader.fRun", "NtpStRecord", "fHeader.fRun", false},
		{"", "", "", true},
		{"stp.plane", "", "", true},
		{"/stp.plane", "", "", true},
		{"NtpSt/", "", "", true},
		{"Ntp.St/x", "", "", true},
		{"NtpSt//x", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseVariablePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVariablePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if ref.Branch != tt.branch || ref.Key != tt.key {
				t.Errorf("got branch=%q key=%q, want %q/%q", ref.Branch, ref.Key, tt.branch, tt.key)
			}
			if ref.String() != tt.input {
				t.Errorf("String() = %q", ref.String())
			}
		})
	}
}
