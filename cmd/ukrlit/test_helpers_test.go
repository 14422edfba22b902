package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	configPath string
	masterCSV  string
	sqlitePath string
}

// setupCLITestEnv writes a config that keeps every path under a temp dir and
// points the network sources at endpoint.
func setupCLITestEnv(t *testing.T, endpoint string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	env := &cliTestEnv{
		baseDir:    base,
		dataDir:    filepath.Join(base, "data"),
		configPath: filepath.Join(base, "ukrlit.toml"),
	}
	env.masterCSV = filepath.Join(env.dataDir, "master.csv")
	env.sqlitePath = filepath.Join(env.dataDir, "ukr_lit.sqlite")
	if endpoint == "" {
		endpoint = "http://127.0.0.1:1"
	}

	content := fmt.Sprintf(`[paths]
data_dir = %[1]q
log_dir = %[2]q

[stores.master]
csv_path = %[3]q
sqlite_path = %[4]q
table = "combined"

[stores.wikidata]
csv_path = %[5]q
sqlite_path = %[4]q
table = "wikidata"

[harvest]
request_timeout = 5
retries = 0
retry_wait = 1
page_delay_ms = 0

[sru]
base_url = %[6]q
page_size = 10

[oai]
base_url = %[7]q

[logging]
level = "error"
`,
		env.dataDir,
		filepath.Join(base, "logs"),
		env.masterCSV,
		env.sqlitePath,
		filepath.Join(env.dataDir, "wikidata.csv"),
		endpoint+"/sru",
		endpoint+"/oai",
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
