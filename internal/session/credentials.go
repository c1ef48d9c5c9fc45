package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/me/hrpulse/pkg/model"
)

const credentialsFileName = "credentials.json"

// credentialsPath returns the path to the credential record
// (~/.hrpulse/credentials.json).
func credentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".hrpulse", credentialsFileName), nil
}

// loadCredentials reads the persisted record from path. Any failure
// (missing file, bad JSON, partial record) yields nil: a malformed local
// state is recovered as "logged out", never as an error.
func loadCredentials(path string) *model.Credentials {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil
	}
	if !creds.Valid() {
		return nil
	}
	return &creds
}

// saveCredentials writes the record with owner-only permissions.
func saveCredentials(path string, creds *model.Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// clearCredentials removes the record; a missing file is not an error.
func clearCredentials(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
