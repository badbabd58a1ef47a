package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const overlappingFamily = `name: Broken
variants:
  - name: BrokenChip
    memory_map:
      - Ram:
          name: a
          range: {start: 0x20000000, end: 0x20010000}
      - Ram:
          name: b
          range: {start: 0x20008000, end: 0x20018000}
    flash_algorithms: [missing]
`

const replacementNRF52 = `name: nRF52
variants:
  - name: nRF52832_custom
    part: 0x52832
    memory_map:
      - Ram:
          range: {start: 0x20000000, end: 0x20010000}
`

const extraFamily = `family "Acme" {
	chip "ACME-1" part 0x5150 {
		ram 0x20000000 .. 0x20001000
	}
}
`

const otherAcme = `family "Acme" {
	chip "ACME-2" part 0x5151 {
		ram 0x20000000 .. 0x20002000
	}
}
`

const repeatedFamily = `name: Twice
variants: [{name: one}]
---
name: Twice
variants: [{name: two}]
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// resetFlags clears values and Changed markers left by a previous Execute.
func resetFlags() {
	verbose = false
	targetDirs = nil
	allowOverride = false
	noBuiltin = false
	configPath = ""
	listChips = false
	listJSON = false
	infoJSON = false
	identifyPart = ""
	identifyIDCode = ""
	identifyJSON = false

	unset := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(unset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(unset)
	}
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	resetFlags()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	<-done
	return buf.String(), err
}

func TestCommandsE2E(t *testing.T) {
	t.Setenv("TARGETDB_CONFIG", filepath.Join(t.TempDir(), "config.json"))

	dir := t.TempDir()
	broken := writeFixture(t, dir, "broken.yaml", overlappingFamily)
	replacement := writeFixture(t, dir, "nrf52.yaml", replacementNRF52)
	extra := writeFixture(t, dir, "acme.tdl", extraFamily)
	otherExtra := writeFixture(t, dir, "acme2.tdl", otherAcme)
	repeated := writeFixture(t, dir, "twice.yaml", repeatedFamily)

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "list families",
			args:        []string{"list"},
			wantContain: []string{"nRF52", "RP2040", "STM32F4", "Nordic VLSI ASA", "3 families"},
		},
		{
			name:        "list chips",
			args:        []string{"list", "--chips"},
			wantContain: []string{"nRF52840_xxAA", "0x52840", "STM32F407VGTx", "0x413", "nRF52832_xxBB"},
		},
		{
			name:        "list chips as JSON",
			args:        []string{"list", "--chips", "--json"},
			wantContain: []string{`"name": "RP2040"`, `"family": "STM32F4"`},
		},
		{
			name:        "list without builtin",
			args:        []string{"list", "--no-builtin"},
			wantContain: []string{"0 families"},
		},
		{
			name: "info exact name",
			args: []string{"info", "nrf52840_xxaa"},
			wantContain: []string{
				"Chip: nRF52840_xxAA",
				"Family: nRF52",
				"Part: 0x52840",
				"Memory map:",
				"nrf52_flash [default]",
				"nrf52_uicr",
			},
		},
		{
			name:        "info unique partial name",
			args:        []string{"info", "F429"},
			wantContain: []string{"Chip: STM32F429ZITx", "ccmram", "stm32f4xx_2048"},
		},
		{
			name:        "info region cores",
			args:        []string{"info", "RP2040"},
			wantContain: []string{"cores=core0,core1", "boot"},
		},
		{
			name:        "info ambiguous name",
			args:        []string{"info", "nRF52832"},
			wantErr:     true,
			wantContain: []string{"Candidates:", "nRF52/nRF52832_xxAA", "nRF52/nRF52832_xxBB"},
		},
		{
			name:    "info unknown chip",
			args:    []string{"info", "Z80"},
			wantErr: true,
		},
		{
			name:        "info as JSON",
			args:        []string{"info", "--json", "STM32F401CCUx"},
			wantContain: []string{`"part": "0x423"`, `"kind": "nvm"`, `"boot": true`},
		},
		{
			name:        "identify by part",
			args:        []string{"identify", "--part", "0x52840"},
			wantContain: []string{"Chip: nRF52840_xxAA"},
		},
		{
			name:        "identify by IDCODE",
			args:        []string{"identify", "--idcode", "0x00413041"},
			wantContain: []string{"IDCODE: 0x00413041", "Chip: STM32F407VGTx"},
		},
		{
			name:    "identify bypass IDCODE",
			args:    []string{"identify", "--idcode", "0x00413040"},
			wantErr: true,
		},
		{
			name:    "identify needs a flag",
			args:    []string{"identify"},
			wantErr: true,
		},
		{
			name:    "identify unknown part",
			args:    []string{"identify", "--part", "0xDEAD"},
			wantErr: true,
		},
		{
			name:        "validate good file",
			args:        []string{"validate", extra},
			wantContain: []string{"OK", "1 families, 1 chips"},
		},
		{
			name:    "validate reports every violation",
			args:    []string{"validate", broken},
			wantErr: true,
			wantContain: []string{
				"FAIL",
				"overlapping memory regions",
				"unknown flash algorithm reference",
			},
		},
		{
			name:        "validate family defined in two files",
			args:        []string{"validate", extra, otherExtra},
			wantErr:     true,
			wantContain: []string{"OK   " + extra, "FAIL " + otherExtra, "duplicate family name", "already defined by " + extra},
		},
		{
			name:        "validate same file twice",
			args:        []string{"validate", extra, extra},
			wantContain: []string{"OK   " + extra},
		},
		{
			name:        "validate family repeated in one file",
			args:        []string{"validate", repeated},
			wantErr:     true,
			wantContain: []string{"FAIL " + repeated, "duplicate family name"},
		},
		{
			name:        "external targets",
			args:        []string{"--targets", extra, "info", "ACME-1"},
			wantContain: []string{"Family: Acme", "Source: " + extra},
		},
		{
			name:    "external family clashes with builtin",
			args:    []string{"--targets", replacement, "list"},
			wantErr: true,
		},
		{
			name:        "external family overrides builtin",
			args:        []string{"--override", "--targets", replacement, "list", "--chips"},
			wantContain: []string{"nRF52832_custom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)

			if tt.wantErr && err == nil {
				t.Fatalf("Expected error but got none\nOutput: %s", output)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}

			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestConfigAddDirE2E(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("TARGETDB_CONFIG", cfgPath)

	dir := t.TempDir()
	writeFixture(t, dir, "acme.tdl", extraFamily)

	if _, err := run(t, "config", "add-dir", dir); err != nil {
		t.Fatalf("add-dir failed: %v", err)
	}
	out, err := run(t, "config", "add-dir", dir)
	if err != nil || !strings.Contains(out, "already configured") {
		t.Fatalf("second add-dir: %v\n%s", err, out)
	}

	out, err = run(t, "identify", "--part", "0x5150")
	if err != nil {
		t.Fatalf("identify failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Chip: ACME-1") {
		t.Errorf("configured directory not loaded:\n%s", out)
	}
}
