package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kelbwah/huffmin/internal/errs"
)

func writeTempInput(t *testing.T, dir string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestEncodeDecodeRoundTripBitMode(t *testing.T) {
	dir := t.TempDir()
	in := writeTempInput(t, dir, []byte("abracadabra"))
	artifact := filepath.Join(dir, "artifact.huff")
	out := filepath.Join(dir, "output.bin")

	var stdout, stderr bytes.Buffer
	encCmd := NewRootCommand(&stdout, &stderr)
	encCmd.SetArgs([]string{"-e", "-i", in, "-o", artifact})
	require.NoError(t, encCmd.Execute())

	stdout.Reset()
	stderr.Reset()
	decCmd := NewRootCommand(&stdout, &stderr)
	decCmd.SetArgs([]string{"-d", "-i", artifact, "-o", out})
	require.NoError(t, decCmd.Execute())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, []byte("abracadabra"), got)
}

func TestEncodeDecodeRoundTripAsciiMode(t *testing.T) {
	dir := t.TempDir()
	in := writeTempInput(t, dir, []byte("mississippi"))
	artifact := filepath.Join(dir, "artifact.huff")
	out := filepath.Join(dir, "output.bin")

	var stdout, stderr bytes.Buffer
	encCmd := NewRootCommand(&stdout, &stderr)
	encCmd.SetArgs([]string{"-e", "-a", "-i", in, "-o", artifact})
	require.NoError(t, encCmd.Execute())

	decCmd := NewRootCommand(&stdout, &stderr)
	decCmd.SetArgs([]string{"-d", "-a", "-i", artifact, "-o", out})
	require.NoError(t, decCmd.Execute())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, []byte("mississippi"), got)
}

func TestEncodePrintFlagEmitsOpcodeBody(t *testing.T) {
	dir := t.TempDir()
	in := writeTempInput(t, dir, []byte("aab"))
	artifact := filepath.Join(dir, "artifact.huff")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"-e", "-p", "-i", in, "-o", artifact})
	require.NoError(t, cmd.Execute())

	printed := stdout.String()
	require.NotEmpty(t, printed)
	for _, c := range printed {
		require.True(t, c == '0' || c == '1' || c == '\n')
	}
}

func TestEncodeAndDecodeAreMutuallyExclusive(t *testing.T) {
	dir := t.TempDir()
	in := writeTempInput(t, dir, []byte("aab"))
	out := filepath.Join(dir, "out.bin")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"-e", "-d", "-i", in, "-o", out})
	require.Error(t, cmd.Execute())
}

func TestInputAndOutputAreRequired(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"-e"})
	require.Error(t, cmd.Execute())
}

func TestHelpFlagExitsCleanly(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"-h"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, stdout.String(), "Static Huffman codec")
}

func TestDecodeSurfacesCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	in := writeTempInput(t, dir, []byte("abracadabra"))
	artifact := filepath.Join(dir, "artifact.huff")
	out := filepath.Join(dir, "out.bin")

	var stdout, stderr bytes.Buffer
	encCmd := NewRootCommand(&stdout, &stderr)
	encCmd.SetArgs([]string{"-e", "-i", in, "-o", artifact})
	require.NoError(t, encCmd.Execute())

	full, err := os.ReadFile(artifact)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(artifact, full[:len(full)-3], 0o644))

	decCmd := NewRootCommand(&stdout, &stderr)
	decCmd.SetArgs([]string{"-d", "-i", artifact, "-o", out})
	require.Error(t, decCmd.Execute())
}

func TestExitCodeMapping(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(errs.InvalidArgument))
	require.Equal(t, 2, ExitCode(errs.InvalidState))
	require.Equal(t, 3, ExitCode(errs.CorruptArtifact))
	require.Equal(t, 4, ExitCode(errs.Allocation))
	require.Equal(t, 5, ExitCode(errs.IO))
	require.Equal(t, 6, ExitCode(errors.New("unmapped")))
}
