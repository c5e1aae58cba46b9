// Package service installs the bot as a per-user launchd agent on macOS.
package service

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/chris/journal/config"
	"github.com/joho/godotenv"
)

const (
	Label     = "com.journal.bot"
	binDest   = "/usr/local/bin/journal"
	plistName = Label + ".plist"
)

// Manager wraps launchctl. Paths hang off Home so tests can point it at a
// temporary directory.
type Manager struct {
	Home    string
	BinPath string
	Out     io.Writer

	// launchctl runs a launchctl subcommand; replaced in tests.
	launchctl func(args ...string) error
}

func New(out io.Writer) *Manager {
	home, _ := os.UserHomeDir()
	return &Manager{Home: home, BinPath: binDest, Out: out, launchctl: launchctl}
}

func (m *Manager) plistDir() string  { return filepath.Join(m.Home, "Library", "LaunchAgents") }
func (m *Manager) plistPath() string { return filepath.Join(m.plistDir(), plistName) }
func (m *Manager) logDir() string    { return filepath.Join(m.Home, "Library", "Logs") }

func (m *Manager) stdoutLogPath() string { return filepath.Join(m.logDir(), "journal-stdout.log") }
func (m *Manager) stderrLogPath() string { return filepath.Join(m.logDir(), "journal-stderr.log") }

func (m *Manager) printf(format string, args ...any) {
	fmt.Fprintf(m.Out, format+"\n", args...)
}

// Install copies the running binary to BinPath, seeds ~/.journal/config from
// .env if needed, writes the launchd plist, and loads it.
func (m *Manager) Install() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("resolving symlinks: %w", err)
	}
	if err := copyFile(exe, m.BinPath, 0755); err != nil {
		return err
	}
	m.printf("installed binary to %s", m.BinPath)

	if err := m.seedConfig(".env"); err != nil {
		return err
	}

	plist, err := m.renderPlist(resolveWorkDir())
	if err != nil {
		return fmt.Errorf("generating plist: %w", err)
	}

	if _, err := os.Stat(m.plistPath()); err == nil {
		_ = m.launchctl("unload", m.plistPath())
	}
	if err := os.MkdirAll(m.plistDir(), 0755); err != nil {
		return fmt.Errorf("creating LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(m.plistPath(), []byte(plist), 0644); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}
	m.printf("wrote plist to %s", m.plistPath())

	if err := m.launchctl("load", m.plistPath()); err != nil {
		return fmt.Errorf("loading plist: %w", err)
	}
	m.printf("service loaded; prompts will go out while you are logged in")
	return nil
}

// seedConfig copies envFile to the config location unless one already exists.
func (m *Manager) seedConfig(envFile string) error {
	dir := filepath.Join(m.Home, ".journal")
	dst := filepath.Join(dir, "config")
	if _, err := os.Stat(dst); err == nil {
		m.printf("config already exists at %s", dst)
		return nil
	}
	data, err := os.ReadFile(envFile)
	if err != nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	m.printf("seeded config from %s -> %s", envFile, dst)
	return nil
}

// resolveWorkDir keeps the current directory when the configured database path
// is relative, so the service opens the same file the user tested with.
func resolveWorkDir() string {
	envVars, _ := godotenv.Read(config.ConfigFile())
	if dbPath, ok := envVars["DATABASE_PATH"]; ok && !filepath.IsAbs(dbPath) {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return config.ConfigDir()
}

// Uninstall unloads and removes the plist and the installed binary.
func (m *Manager) Uninstall() error {
	if _, err := os.Stat(m.plistPath()); err == nil {
		if err := m.launchctl("unload", m.plistPath()); err != nil {
			m.printf("warning: unload failed: %v", err)
		}
		if err := os.Remove(m.plistPath()); err != nil {
			return fmt.Errorf("removing plist: %w", err)
		}
		m.printf("removed %s", m.plistPath())
	} else {
		m.printf("plist not found, skipping")
	}

	if _, err := os.Stat(m.BinPath); err == nil {
		if err := os.Remove(m.BinPath); err != nil {
			return fmt.Errorf("removing binary: %w", err)
		}
		m.printf("removed %s", m.BinPath)
	} else {
		m.printf("binary not found at %s, skipping", m.BinPath)
	}

	m.printf("uninstalled")
	return nil
}

func (m *Manager) Start() error { return m.launchctl("start", Label) }

func (m *Manager) Stop() error { return m.launchctl("stop", Label) }

func (m *Manager) Restart() error {
	_ = m.Stop()
	return m.Start()
}

func (m *Manager) Status() error {
	cmd := exec.Command("launchctl", "list", Label)
	cmd.Stdout = m.Out
	cmd.Stderr = m.Out
	if err := cmd.Run(); err != nil {
		m.printf("service is not loaded")
	}
	return nil
}

// Logs tails both log files until interrupted.
func (m *Manager) Logs() error {
	cmd := exec.Command("tail", "-f", m.stdoutLogPath(), m.stderrLogPath())
	cmd.Stdout = m.Out
	cmd.Stderr = m.Out
	return cmd.Run()
}

func launchctl(args ...string) error {
	cmd := exec.Command("launchctl", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launchctl %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading binary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, data, mode); err != nil {
		return fmt.Errorf("copying binary to %s: %w", dst, err)
	}
	return nil
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.BinPath}}</string>
		<string>run</string>
	</array>
	<key>WorkingDirectory</key>
	<string>{{.WorkDir}}</string>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>{{.StdoutLog}}</string>
	<key>StandardErrorPath</key>
	<string>{{.StderrLog}}</string>
</dict>
</plist>
`))

type plistData struct {
	Label     string
	BinPath   string
	WorkDir   string
	StdoutLog string
	StderrLog string
}

func (m *Manager) renderPlist(workDir string) (string, error) {
	var buf bytes.Buffer
	err := plistTemplate.Execute(&buf, plistData{
		Label:     Label,
		BinPath:   m.BinPath,
		WorkDir:   workDir,
		StdoutLog: m.stdoutLogPath(),
		StderrLog: m.stderrLogPath(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
