package options

import "testing"

func TestDefaultsMatchTable(t *testing.T) {
	d := Defaults()
	if d.Decay != 50 {
		t.Errorf("Decay default = %d, want 50", d.Decay)
	}
	if d.Tier1 != 2 || d.Tier2 != 6 {
		t.Errorf("tier defaults = %d,%d, want 2,6", d.Tier1, d.Tier2)
	}
}

func TestDecodeDefaultPreset(t *testing.T) {
	o, err := Decode("default", nil)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if o != Defaults() {
		t.Fatalf("Decode(default, nil) should equal Defaults()")
	}
}

func TestDecodeAppliesPreset(t *testing.T) {
	o, err := Decode("sat", nil)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if o.RestartMargin != 13 {
		t.Errorf("RestartMargin = %d, want 13 from the sat preset", o.RestartMargin)
	}
	if o.WalkNoise != 200 {
		t.Errorf("WalkNoise = %d, want 200 from the sat preset", o.WalkNoise)
	}
}

func TestDecodeAppliesOverrideAfterPreset(t *testing.T) {
	o, err := Decode("sat", map[string]int64{"restartmargin": 20})
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if o.RestartMargin != 20 {
		t.Errorf("explicit override should win over preset, got %d", o.RestartMargin)
	}
}

func TestDecodeUnknownPreset(t *testing.T) {
	if _, err := Decode("bogus", nil); err == nil {
		t.Fatal("Decode with an unknown preset should fail")
	}
}

func TestDecodeUnknownOption(t *testing.T) {
	if _, err := Decode("default", map[string]int64{"nosuchoption": 1}); err == nil {
		t.Fatal("Decode with an unknown option name should fail")
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	o, err := Decode("default", map[string]int64{"decay": 1000})
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if o.Decay != 200 {
		t.Fatalf("Decay = %d, want 200 (an out-of-range value is clamped to High)", o.Decay)
	}
}
