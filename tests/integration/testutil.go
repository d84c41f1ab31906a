// Package integration runs the built scatter binary end to end.
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// scatterBin is the path to the built scatter binary.
	scatterBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv provides an isolated test environment with its own config and data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment. config.yaml points at
// the environment's data directory.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build scatter: %v", buildErr)
	}
	if scatterBin == "" {
		t.Fatal("scatter binary not built")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a scatter command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the scatter CLI with the given arguments. The data directory
// comes from config.yaml.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config}, args...)
	cmd := exec.Command(scatterBin, allArgs...)
	cmd.Dir = e.TempDir
	cmd.Env = append(os.Environ(), "SCATTER_DATA_DIR=", "SCATTER_CONFIG_DIR=")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			e.t.Fatalf("failed to run scatter: %v", err)
		}
		exitCode = exitErr.ExitCode()
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes the scatter CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("scatter %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// ReadJSONLFile reads a JSONL file (one JSON object per line) and returns a slice.
func ReadJSONLFile[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open JSONL file %s: %v", path, err)
	}
	defer f.Close()

	var results []T
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("failed to parse JSONL line in %s: %v", path, err)
		}
		results = append(results, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to scan JSONL file %s: %v", path, err)
	}
	return results
}

// Interval is one intervals.jsonl record.
type Interval struct {
	SessionID     string `json:"session_id"`
	BehaviorID    string `json:"behavior_id"`
	IntervalIndex int    `json:"interval_index"`
	Value         string `json:"value"`
}

// Report is the subset of "scatter show --json" the tests inspect.
type Report struct {
	SessionID string `json:"session_id"`
	Rows      []struct {
		Interval int      `json:"interval"`
		Status   string   `json:"status"`
		Cells    []string `json:"cells"`
	} `json:"rows"`
	Filled int `json:"filled"`
	Size   int `json:"size"`
}
