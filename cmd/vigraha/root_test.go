package main

import (
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd("1.2.3", nil)

	if cmd.Use != "vigraha" {
		t.Errorf("Use = %q, want %q", cmd.Use, "vigraha")
	}
	if cmd.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", cmd.Version, "1.2.3")
	}
	if !cmd.SilenceErrors || !cmd.SilenceUsage {
		t.Error("root command should silence cobra's own error and usage output")
	}
	if cmd.PersistentFlags().Lookup("json") == nil {
		t.Error("missing persistent --json flag")
	}
}

func TestNewRootCmdSubcommands(t *testing.T) {
	cmd := NewRootCmd("dev", &app{})

	want := map[string]bool{
		"init":    false,
		"analyze": false,
		"listen":  false,
		"shell":   false,
		"index":   false,
		"watch":   false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestNewRootCmdNilApp(t *testing.T) {
	// Startup failures still produce a usable command for help output.
	cmd := NewRootCmd("dev", nil)
	for _, sub := range cmd.Commands() {
		switch sub.Name() {
		case "analyze", "shell":
			t.Errorf("nil app should not register %q", sub.Name())
		}
	}
}
