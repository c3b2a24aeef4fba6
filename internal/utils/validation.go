package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExecLookPath allows us to mock exec.LookPath in tests
var ExecLookPath = exec.LookPath

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateInputFile checks that a required input file exists and is not a directory
func ValidateInputFile(field, path string) error {
	if path == "" {
		return &ValidationError{
			Field:   field,
			Message: "path is required",
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("file does not exist: %s", path),
			Err:     err,
		}
	}
	if info.IsDir() {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("expected a file, got a directory: %s", path),
		}
	}
	return nil
}

// ValidateProjectDir checks that dir exists and is a directory
func ValidateProjectDir(dir string) error {
	if dir == "" {
		return &ValidationError{
			Field:   "dir",
			Message: "project directory is required",
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return &ValidationError{
			Field:   "dir",
			Message: "project directory does not exist",
			Err:     err,
		}
	}
	if !info.IsDir() {
		return &ValidationError{
			Field:   "dir",
			Message: fmt.Sprintf("%s is not a directory", dir),
		}
	}
	return nil
}

// ValidateRequiredDependency checks if a required command is available
func ValidateRequiredDependency(cmd string) error {
	if _, err := ExecLookPath(cmd); err != nil {
		return &ValidationError{
			Field:   cmd,
			Message: fmt.Sprintf("%s not found in PATH", cmd),
			Err:     err,
		}
	}
	return nil
}

// ValidateFileExtension checks if a file has one of the allowed extensions
func ValidateFileExtension(filePath string, allowedExts []string) error {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, allowedExt := range allowedExts {
		if ext == allowedExt {
			return nil
		}
	}
	return &ValidationError{
		Field:   "extension",
		Message: fmt.Sprintf("file extension %s not allowed. Allowed extensions: %v", ext, allowedExts),
	}
}
