package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := appVersion, appCommit, appDate
	defer func() { appVersion, appCommit, appDate = origVersion, origCommit, origDate }()

	SetVersionInfo("1.2.3", "abc1234", "2026-02-13")

	if appVersion != "1.2.3" || appCommit != "abc1234" || appDate != "2026-02-13" {
		t.Errorf("version info = %q %q %q", appVersion, appCommit, appDate)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"nonexistent-command"})
	defer rootCmd.SetArgs(nil)

	err := Execute()
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecute_VersionSubcommand(t *testing.T) {
	origVersion, origCommit, origDate := appVersion, appCommit, appDate
	defer func() { appVersion, appCommit, appDate = origVersion, origCommit, origDate }()
	SetVersionInfo("test-ver", "test-commit", "test-date")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"netnext test-ver", "commit: test-commit", "built:  test-date"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveToday(t *testing.T) {
	origNow := now
	defer func() { now = origNow }()
	now = func() time.Time { return time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		flag    string
		want    time.Time
		wantErr bool
	}{
		{"defaults to current UTC day", "", day(2024, 6, 1), false},
		{"explicit date", "2023-01-15", day(2023, 1, 15), false},
		{"malformed date", "15/01/2023", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setToday(t, tt.flag)
			got, err := resolveToday()
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "--today") {
					t.Fatalf("expected --today parse error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("resolveToday() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	want := []string{"record", "forecast", "history", "backfill", "metrics", "alerts", "dashboard", "mcp", "completion", "version"}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
