package main

import "testing"

func TestParseRuns(t *testing.T) {
	runs, err := parseRuns("1001, 1002,,1003")
	if err != nil {
		t.Fatalf("parseRuns: %v", err)
	}
	if len(runs) != 3 || runs[0] != 1001 || runs[2] != 1003 {
		t.Errorf("runs = %v", runs)
	}

	for _, bad := range []string{"", "abc", "-4", "1001,x"} {
		if _, err := parseRuns(bad); err == nil {
			t.Errorf("parseRuns(%q) should fail", bad)
		}
	}
}

func TestParseParams(t *testing.T) {
	p := parseParams([]string{"column=evt.energy", "min=0.5", "max=10", "junk"})
	if p["column"] != "evt.energy" || p["min"] != 0.5 || p["max"] != 10.0 {
		t.Errorf("params = %v", p)
	}
	if _, ok := p["junk"]; ok {
		t.Error("words without '=' are ignored")
	}
}
