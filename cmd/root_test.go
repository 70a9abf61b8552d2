package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// testHome points config discovery at a throwaway directory so tests never
// touch (or create) the real user config.
func testHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	viper.Reset()
	return tmpDir
}

func TestRootCmd_Properties(t *testing.T) {
	if rootCmd.Use != "fibertester" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "fibertester")
	}
	if rootCmd.Short == "" {
		t.Error("rootCmd.Short is empty")
	}
	if rootCmd.Long == "" {
		t.Error("rootCmd.Long is empty")
	}
}

func TestRootCmd_HasExpectedFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"config", ""},
		{"profile", "p"},
		{"db", ""},
		{"debug", "D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := flags.Lookup(tt.name)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("flag %q shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
			}
			if flag.Usage == "" {
				t.Errorf("flag %q has no description", tt.name)
			}
		})
	}
}

func TestRootCmd_FlagDefaults(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	tests := []struct {
		name         string
		defaultValue string
	}{
		{"profile", "standard"},
		{"db", ""},
		{"debug", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := flags.Lookup(tt.name)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.name)
			}
			if flag.DefValue != tt.defaultValue {
				t.Errorf("flag %q default = %q, want %q", tt.name, flag.DefValue, tt.defaultValue)
			}
		})
	}
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	want := []string{"send", "replay", "serve", "tui", "history", "profiles"}

	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			for _, sub := range rootCmd.Commands() {
				if sub.Name() == name {
					return
				}
			}
			t.Errorf("subcommand %q not registered", name)
		})
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	testHome(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() with --help error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"fibertester", "send", "replay", "--profile"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestProfilesCmd_ListsConfiguredProfiles(t *testing.T) {
	testHome(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"profiles"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"standard", "fast", "training"} {
		if !strings.Contains(output, want) {
			t.Errorf("profiles output should contain %q, got:\n%s", want, output)
		}
	}
	// The active profile carries the marker
	if !strings.Contains(output, "* standard") {
		t.Errorf("active profile should be marked, got:\n%s", output)
	}
}

func TestSendCmd_RejectsInvalidColor(t *testing.T) {
	testHome(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"send", "Purple", "5"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid color, got nil")
	}
	if !strings.Contains(err.Error(), "Invalid color") {
		t.Errorf("error = %v, want invalid color", err)
	}
}

func TestSendCmd_RejectsInvalidNumber(t *testing.T) {
	testHome(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"send", "Red", "101"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for out-of-range number, got nil")
	}
	if !strings.Contains(err.Error(), "Invalid number") {
		t.Errorf("error = %v, want invalid number", err)
	}
}

func TestSendCmd_RequiresTwoArgs(t *testing.T) {
	testHome(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"send", "Red"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected arg-count error, got nil")
	}
}

func TestReplayCmd_MissingFile(t *testing.T) {
	testHome(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"replay", "does-not-exist.yaml"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for missing recording, got nil")
	}
}

func TestHistoryCmd_EmptyJournal(t *testing.T) {
	testHome(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"history"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No transmissions journaled") {
		t.Errorf("expected empty-journal message, got:\n%s", buf.String())
	}
}

func TestHistoryCmd_RejectsBadLimit(t *testing.T) {
	testHome(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"history", "--limit", "0"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for non-positive limit, got nil")
	}
}
