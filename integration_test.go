//go:build integration

package sssp

import (
	"os"
	"path/filepath"
	"testing"
)

func integrationConnType(t *testing.T) string {
	t.Helper()
	kind := os.Getenv("SSSP_CONNTYPE")
	if kind == "" {
		kind = ConnTCP
	}
	return kind
}

func integrationAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("SSSP_ADDR")
	if addr == "" {
		addr = "localhost:4010"
	}
	return addr
}

func integrationClient(t *testing.T) *Client {
	t.Helper()
	client := NewClient()
	if err := client.Connect(integrationConnType(t), integrationAddr(t)); err != nil {
		t.Fatalf("failed to connect to daemon: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIntegrationConnectClose(t *testing.T) {
	client := integrationClient(t)
	if err := client.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
}

func TestIntegrationScanCleanFile(t *testing.T) {
	client := integrationClient(t)

	file := filepath.Join(t.TempDir(), "clean.txt")
	if err := os.WriteFile(file, []byte("This is a clean test file with no malicious content."), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := client.ScanFile(file)
	if err != nil {
		t.Fatalf("ScanFile error: %v", err)
	}
	if !result.IsClean() {
		t.Errorf("expected clean, got outcome %q message %q", result.Outcome, result.Message)
	}
	t.Logf("Scan result: outcome=%s, message=%s", result.Outcome, result.Message)
}

func TestIntegrationScanEicar(t *testing.T) {
	client := integrationClient(t)

	eicar := []byte(`X5O!P%@AP[4\PZX54(P^)7CC)7}$EICAR-STANDARD-ANTIVIRUS-TEST-FILE!$H+H*`)
	file := filepath.Join(t.TempDir(), "eicar.txt")
	if err := os.WriteFile(file, eicar, 0644); err != nil {
		t.Fatal(err)
	}

	result, err := client.ScanFile(file)
	if err != nil {
		t.Fatalf("ScanFile error: %v", err)
	}
	if !result.IsInfected() {
		t.Errorf("expected infected, got outcome %q", result.Outcome)
	}
	for id, name := range result.Viruses {
		t.Logf("Found: %s in %s", name, id)
	}
}

func TestIntegrationScanDir(t *testing.T) {
	client := integrationClient(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clean.txt"), []byte("clean content"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := client.ScanDir(dir, true)
	if err != nil {
		t.Fatalf("ScanDir error: %v", err)
	}
	if !result.IsClean() {
		t.Errorf("expected clean, got outcome %q message %q", result.Outcome, result.Message)
	}
}
