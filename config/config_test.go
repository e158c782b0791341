package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const rigYAML = `
serial:
  device: /dev/ttyACM0
  baud: 115200
pins:
  step: 21
  dir: 20
axis:
  fullsteps_per_rev: 200
  microsteps: 128
  gear_ratio: 2.4
jog:
  speed: 30
  accel: 50
  decel: 500
oc_threshold_ma: 1500
decay: fast
`

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(rigYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Serial.Device != "/dev/ttyACM0" || cfg.Serial.Baud != 115200 {
		t.Errorf("serial = %+v", cfg.Serial)
	}
	if cfg.Pins.Step != 21 || cfg.Pins.Dir != 20 || cfg.Pins.InvertDir {
		t.Errorf("pins = %+v", cfg.Pins)
	}
	ax := cfg.AxisConfig()
	if ax.FullstepsPerRev != 200 || ax.Microsteps != 128 || ax.GearRatio != 2.4 {
		t.Errorf("axis = %+v", ax)
	}
	if jog := cfg.JogParams(); jog.Speed != 30 || jog.Accel != 50 || jog.Decel != 500 {
		t.Errorf("jog = %+v", jog)
	}
	if cfg.OCThresholdMA != 1500 {
		t.Errorf("oc threshold = %d", cfg.OCThresholdMA)
	}
	decay, err := cfg.DecayMode()
	if err != nil {
		t.Fatalf("DecayMode: %v", err)
	}
	if decay.String() != "fast" {
		t.Errorf("decay = %v", decay)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("serial:\n  device: /dev/ttyUSB0\npins:\n  step: 5\n  dir: 6\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Serial.Baud != 9600 {
		t.Errorf("baud default = %d, want 9600", cfg.Serial.Baud)
	}
	ax := cfg.AxisConfig()
	if ax.FullstepsPerRev != 200 || ax.Microsteps != 16 || ax.GearRatio != 1.0 {
		t.Errorf("axis defaults = %+v", ax)
	}
	if jog := cfg.JogParams(); jog.Speed != 60 || jog.Accel != 100 || jog.Decel != 1000 {
		t.Errorf("jog defaults = %+v", jog)
	}
	if max := cfg.MaxParams(); max.Speed != 1000 || max.Accel != 30000 || max.Decel != 30000 {
		t.Errorf("max defaults = %+v", max)
	}
	if cfg.OCThresholdMA != 3000 {
		t.Errorf("oc threshold default = %d", cfg.OCThresholdMA)
	}
	if cfg.Decay != "mixed" {
		t.Errorf("decay default = %q", cfg.Decay)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing device", "pins:\n  step: 5\n  dir: 6\n", "serial.device"},
		{"missing pins", "serial:\n  device: /dev/ttyUSB0\n", "pins.step"},
		{"same pin", "serial:\n  device: /dev/ttyUSB0\npins:\n  step: 5\n  dir: 5\n", "must differ"},
		{"bad microsteps", "serial:\n  device: /dev/ttyUSB0\npins:\n  step: 5\n  dir: 6\naxis:\n  microsteps: 3\n", "microstep"},
		{"bad gear ratio", "serial:\n  device: /dev/ttyUSB0\npins:\n  step: 5\n  dir: 6\naxis:\n  gear_ratio: -2\n", "gear ratio"},
		{"bad decay", "serial:\n  device: /dev/ttyUSB0\npins:\n  step: 5\n  dir: 6\ndecay: medium\n", "decay"},
		{"not yaml", "{{{", "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := os.WriteFile(path, []byte(rigYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pins.Step != 21 {
		t.Errorf("step pin = %d", cfg.Pins.Step)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
