package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	if cmd.Use != "finharvest" {
		t.Errorf("Use = %q, want finharvest", cmd.Use)
	}

	want := map[string]bool{"harvest": false, "sources": false, "stats": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "finharvest version") {
		t.Errorf("version output = %q, want it to mention finharvest version", buf.String())
	}
}

func TestSourcesCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"sources"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v, want nil", err)
	}
	out := buf.String()
	for _, name := range []string{"sebi", "nse", "amfi", "rbi_sgb", "income_tax"} {
		if !strings.Contains(out, name) {
			t.Errorf("sources output missing %q:\n%s", name, out)
		}
	}
}

func TestStatsCmdEmptyCatalog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"stats", "--out", t.TempDir()})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "Total documents in catalog: 0") {
		t.Errorf("stats output = %q, want zero total", buf.String())
	}
}
