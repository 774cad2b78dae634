package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// examplesDir points at the sample inputs shipped with the repository.
const examplesDir = "../../examples"

func TestExamples_Grades(t *testing.T) {
	out := filepath.Join(t.TempDir(), "grades.csv")

	var stderr bytes.Buffer
	code := Run([]string{filepath.Join(examplesDir, "grades", "roles.json"), out}, &bytes.Buffer{}, &stderr)
	require.Equal(t, ExitOK, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+
		"student1,0,1,0,0,0,1,0,0,0\n"+
		"student2,0,1,0,0,0,1,0,0,0\n"+
		"teacher,0,1,1,1,1,1,0,0,0\n"+
		"principal,0,1,0,0,0,1,1,1,1\n", string(data))
}

func TestExamples_CustomSchema(t *testing.T) {
	dir := filepath.Join(examplesDir, "custom_schema")
	out := filepath.Join(t.TempDir(), "documents.csv")

	var stderr bytes.Buffer
	code := Run([]string{
		"--delimiter", ";",
		"--schema", filepath.Join(dir, "schema.yaml"),
		filepath.Join(dir, "roles.json"),
		out,
	}, &bytes.Buffer{}, &stderr)
	require.Equal(t, ExitOK, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "role;document.read;document.write;document.delete;document.share\n"+
		"viewer;0;1;0;0;0\n"+
		"editor;0;1;1;0;0\n"+
		"owner;0;1;1;1;1\n"+
		"auditor;0;0;0;0;0\n", string(data))
}

func TestExamples_ConfigFile(t *testing.T) {
	dir := filepath.Join(examplesDir, "custom_schema")
	out := filepath.Join(t.TempDir(), "documents.csv")

	var stderr bytes.Buffer
	code := Run([]string{
		"--config", filepath.Join(dir, "permcsv.yaml"),
		filepath.Join(dir, "roles.json"),
		out,
	}, &bytes.Buffer{}, &stderr)
	require.Equal(t, ExitOK, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "owner;0;1;1;1;1\n")
	assert.Empty(t, stderr.String(), "warn level should hide the completion log")
}
