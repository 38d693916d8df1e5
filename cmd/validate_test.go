package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeValidateConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func runValidateWithConfig(t *testing.T, path string) (string, error) {
	t.Helper()
	originalPath := validateConfigPath
	defer func() { validateConfigPath = originalPath }()
	validateConfigPath = path

	var buf bytes.Buffer
	validateCmd.SetOut(&buf)
	validateCmd.SetErr(&buf)
	err := runValidate(validateCmd, []string{})
	return buf.String(), err
}

func TestRunValidate_AllToolsPresent(t *testing.T) {
	originalLookPath := execLookPath
	defer func() { execLookPath = originalLookPath }()
	execLookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }

	path := writeValidateConfig(t, `
reposRoot: /tmp/validate-test-repos
dependencies:
  - name: toolkit-core
    url: https://example.com/toolkit-core.git
    branch: master
`)

	output, err := runValidateWithConfig(t, path)
	if err != nil {
		t.Fatalf("Expected validation to pass, got: %v", err)
	}
	if !strings.Contains(output, "Configuration OK") {
		t.Errorf("Expected output to confirm configuration, got %q", output)
	}
	if !strings.Contains(output, "git") {
		t.Errorf("Expected output to list checked tools, got %q", output)
	}
}

func TestRunValidate_MissingTool(t *testing.T) {
	originalLookPath := execLookPath
	defer func() { execLookPath = originalLookPath }()
	execLookPath = func(file string) (string, error) {
		if file == "Xvfb" {
			return "", errors.New("executable file not found in $PATH")
		}
		return "/usr/bin/" + file, nil
	}

	path := writeValidateConfig(t, `
reposRoot: /tmp/validate-test-repos
`)

	output, err := runValidateWithConfig(t, path)
	if err == nil {
		t.Fatal("Expected an error for a missing tool")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("Expected error to mention missing tools, got: %v", err)
	}
	if !strings.Contains(output, "Xvfb not found") {
		t.Errorf("Expected output to name the missing tool, got %q", output)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	path := writeValidateConfig(t, `
reposRoot: /tmp/validate-test-repos
dependencies:
  - name: broken
    branch: master
`)

	_, err := runValidateWithConfig(t, path)
	if err == nil {
		t.Fatal("Expected an error for an invalid configuration")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Expected invalid configuration error, got: %v", err)
	}
}
