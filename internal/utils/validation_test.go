package utils

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "abc.en.vtt")
	require.NoError(t, os.WriteFile(file, []byte("WEBVTT"), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "existing file", path: file},
		{name: "empty path", path: "", wantErr: "path is required"},
		{name: "missing file", path: filepath.Join(dir, "nope.vtt"), wantErr: "file does not exist"},
		{name: "directory", path: dir, wantErr: "expected a file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile("vtt", tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr))
			assert.Equal(t, "vtt", vErr.Field)
		})
	}
}

func TestValidateRequiredDependency(t *testing.T) {
	defer func() { ExecLookPath = exec.LookPath }()

	ExecLookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	assert.NoError(t, ValidateRequiredDependency("yt-dlp"))

	ExecLookPath = func(file string) (string, error) { return "", exec.ErrNotFound }
	err := ValidateRequiredDependency("yt-dlp")
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Contains(t, err.Error(), "yt-dlp not found in PATH")
}

func TestValidateFileExtension(t *testing.T) {
	assert.NoError(t, ValidateFileExtension("a/b/c.VTT", []string{".vtt"}))
	assert.Error(t, ValidateFileExtension("a/b/c.srt", []string{".vtt"}))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.json")

	ok, err := FileExists(file)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, WriteTextFile(file, "[]"))
	ok, err = FileExists(file)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = FileExists(dir)
	assert.Error(t, err)
}

func TestReadTextFileNormalizesCRLF(t *testing.T) {
	file := filepath.Join(t.TempDir(), "crlf.txt")
	require.NoError(t, os.WriteFile(file, []byte("one\r\ntwo\r\n"), 0644))

	content, err := ReadTextFile(file)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", content)
}
