package e2e_test

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	// Create shared temp directory for the binary
	var err error
	sharedTempDir, err = os.MkdirTemp("", "settlersdb-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup shared temp directory
	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// buildBinary compiles the settlersdb binary once per test run.
// Returns the path to the compiled binary.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "settlersdb")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/settlersdb")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
			return
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

// getProjectRoot returns the root directory of the settlersdb project.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	// Find the go.mod file to determine project root
	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// shippedScript returns the path of a setup script under sql/.
func shippedScript(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(getProjectRoot(t), "sql", name)
}

// writeFile writes content to a new file in a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// cliResult holds the outcome of one CLI run.
type cliResult struct {
	Stdout string
	Stderr string
	Err    error
}

// runCLI runs the binary with args from an empty directory, so no stray
// config.yaml is picked up.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()

	binary := buildBinary(t)

	cmd := exec.Command(binary, append(args, "--log-level", "error")...)
	cmd.Dir = t.TempDir()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// requireCLI runs the binary and fails the test if it exits non-zero.
func requireCLI(t *testing.T, args ...string) string {
	t.Helper()

	res := runCLI(t, args...)
	require.NoError(t, res.Err, "settlersdb %v\nstdout: %s\nstderr: %s", args, res.Stdout, res.Stderr)
	return res.Stdout
}

// createConfigFile creates a temporary config file for the status server.
// Returns the path to the config file.
func createConfigFile(t *testing.T, dbURL string, port int) string {
	t.Helper()

	content := fmt.Sprintf(`server:
  enabled: true
  port: %d

database:
  url: "%s"

log:
  level: error
`, port, dbURL)

	return writeFile(t, "config.yaml", content)
}

// startServer starts serve with the status API enabled.
// Returns the base URL and a cleanup function that must be called to stop the server.
func startServer(t *testing.T, dbURL string) (string, func()) {
	t.Helper()

	binary := buildBinary(t)
	port := getOpenPort(t)
	configPath := createConfigFile(t, dbURL, port)

	cmd := exec.Command(binary, "serve", "--config", configPath)
	cmd.Dir = t.TempDir()

	// Capture output for debugging
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Start()
	require.NoError(t, err, "start server")

	baseURL := fmt.Sprintf("http://localhost:%d", port)

	// Wait for server to be ready
	waitForServer(t, baseURL, 10*time.Second)

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	}

	return baseURL, cleanup
}

// waitForServer polls the server until it responds or times out.
func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			return // Server is ready
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server failed to start within %v", timeout)
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	addr := l.Addr().(*net.TCPAddr)
	port := addr.Port

	err = l.Close()
	require.NoError(t, err, "close port")

	return port
}
