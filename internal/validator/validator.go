// Package validator checks the external tools and credentials ytkit needs.
package validator

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/services/ytdlp"
	"github.com/ytkit/ytkit/internal/utils"
)

// execCommand and lookPath allow tests to fake the installed tools
var (
	execCommand = exec.Command
	lookPath    = exec.LookPath
)

// ExternalTool represents an external command-line tool requirement
type ExternalTool struct {
	Name        string
	Purpose     string
	VersionArgs []string
	Validate    func(output string) bool
}

// requiredTools must be installed for any download to work
var requiredTools = []ExternalTool{
	{
		Name:        ytdlp.Binary,
		Purpose:     "video and subtitle downloads",
		VersionArgs: []string{"--version"},
		Validate: func(output string) bool {
			// yt-dlp prints a date-based version such as 2025.06.30
			v := strings.TrimSpace(output)
			return v != "" && strings.Count(v, ".") >= 2
		},
	},
}

// optionalTools are checked but not required
var optionalTools = []ExternalTool{
	{
		Name:        "ffmpeg",
		Purpose:     "merging separate video and audio formats",
		VersionArgs: []string{"-version"},
		Validate: func(output string) bool {
			return strings.Contains(output, "ffmpeg version")
		},
	},
}

// checkTool locates tool and verifies its version output
func checkTool(tool ExternalTool) (string, error) {
	path, err := lookPath(tool.Name)
	if err != nil {
		return "", fmt.Errorf("tool %s not found in PATH: %w", tool.Name, err)
	}

	output, err := execCommand(path, tool.VersionArgs...).CombinedOutput()
	if err != nil {
		return path, fmt.Errorf("failed to run %s: %w", tool.Name, err)
	}

	if !tool.Validate(string(output)) {
		return path, fmt.Errorf("invalid version of %s detected", tool.Name)
	}
	return path, nil
}

// ValidateExternalTools checks if all required external tools are installed.
// Missing optional tools are only reported.
func ValidateExternalTools() error {
	for _, tool := range requiredTools {
		path, err := checkTool(tool)
		if err != nil {
			return err
		}
		utils.LogVerbose("✓ %s found at %s", tool.Name, path)
	}

	for _, tool := range optionalTools {
		path, err := checkTool(tool)
		if err != nil {
			utils.LogWarning("Optional tool %s unavailable (%s): %v", tool.Name, tool.Purpose, err)
			continue
		}
		utils.LogVerbose("✓ Optional tool %s found at %s", tool.Name, path)
	}

	return nil
}

// ValidateCredentials checks that the configured LLM provider has an API key.
// The YouTube Data API key is optional.
func ValidateCredentials(cfg *config.Config) error {
	settings, err := cfg.ResolveLLM()
	if err != nil {
		if errors.Is(err, config.ErrMissingCredential) {
			return fmt.Errorf("LLM provider %s is not usable: %w", cfg.Provider(), err)
		}
		return err
	}
	// Don't print the actual value for security
	utils.LogVerbose("✓ %s is set (model %s)", settings.Spec.CredentialEnv, settings.Model)

	if cfg.YouTube.APIKey == "" && cfg.YouTube.CredentialsFile == "" {
		utils.LogInfo("No YouTube Data API credentials; cover images will come from yt-dlp metadata")
	} else {
		utils.LogVerbose("✓ YouTube Data API credentials configured")
	}
	return nil
}
