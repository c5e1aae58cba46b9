package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testManager(t *testing.T) (*Manager, *[]string) {
	t.Helper()
	home := t.TempDir()
	var calls []string
	m := &Manager{
		Home:    home,
		BinPath: filepath.Join(home, "bin", "journal"),
		Out:     &bytes.Buffer{},
		launchctl: func(args ...string) error {
			calls = append(calls, strings.Join(args, " "))
			return nil
		},
	}
	return m, &calls
}

func TestRenderPlist(t *testing.T) {
	m, _ := testManager(t)
	got, err := m.renderPlist("/work")
	if err != nil {
		t.Fatalf("renderPlist: %v", err)
	}
	for _, want := range []string{
		"<string>com.journal.bot</string>",
		"<string>" + m.BinPath + "</string>",
		"<string>run</string>",
		"<string>/work</string>",
		"journal-stdout.log",
		"journal-stderr.log",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("plist missing %q", want)
		}
	}
}

func TestSeedConfig(t *testing.T) {
	m, _ := testManager(t)
	env := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(env, []byte("DISCORD_BOT_TOKEN=abc\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := m.seedConfig(env); err != nil {
		t.Fatalf("seedConfig: %v", err)
	}
	dst := filepath.Join(m.Home, ".journal", "config")
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "DISCORD_BOT_TOKEN=abc\n" {
		t.Fatalf("seeded config = %q, %v", data, err)
	}

	// existing config is left alone
	if err := os.WriteFile(env, []byte("DISCORD_BOT_TOKEN=changed\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := m.seedConfig(env); err != nil {
		t.Fatalf("seedConfig: %v", err)
	}
	data, _ = os.ReadFile(dst)
	if string(data) != "DISCORD_BOT_TOKEN=abc\n" {
		t.Errorf("config overwritten: %q", data)
	}
}

func TestSeedConfig_NoEnvFile(t *testing.T) {
	m, _ := testManager(t)
	if err := m.seedConfig(filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Fatalf("seedConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(m.Home, ".journal", "config")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no config, stat err = %v", err)
	}
}

func TestUninstall(t *testing.T) {
	m, calls := testManager(t)
	if err := os.MkdirAll(m.plistDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.plistPath(), []byte("plist"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := copyFile("service.go", m.BinPath, 0755); err != nil {
		t.Fatal(err)
	}

	if err := m.Uninstall(); err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if _, err := os.Stat(m.plistPath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("plist still present")
	}
	if _, err := os.Stat(m.BinPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("binary still present")
	}
	if len(*calls) != 1 || !strings.HasPrefix((*calls)[0], "unload ") {
		t.Errorf("launchctl calls = %v", *calls)
	}
}

func TestRestart(t *testing.T) {
	m, calls := testManager(t)
	if err := m.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	want := []string{"stop " + Label, "start " + Label}
	if strings.Join(*calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", *calls, want)
	}
}
