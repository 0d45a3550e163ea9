package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
feature_flags:
  - id: hero-cta
    enabled: true
    rollout_percentage: 100
    variants:
      - id: control
        weight: 100
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVariantCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	t.Setenv("CATALOG_FILE", path)

	out, err := runCLI(t, "variant", "hero-cta", "visitor-42")
	require.NoError(t, err)

	var got struct {
		FlagID  string `json:"flagId"`
		Variant struct {
			ID string `json:"id"`
		} `json:"variant"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "hero-cta", got.FlagID)
	assert.Equal(t, "control", got.Variant.ID)
}

func TestVariantCommandUnknownFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	t.Setenv("CATALOG_FILE", path)

	_, err := runCLI(t, "variant", "missing", "visitor-42")
	assert.Error(t, err)
}

func TestVariantCommandRequiresArgs(t *testing.T) {
	_, err := runCLI(t, "variant", "hero-cta")
	assert.Error(t, err)
}
