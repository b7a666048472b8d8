package auth

import (
	"fmt"
	"os"
	"strings"
)

const tokenFileMode = 0o600

// SaveToken writes the session token to path, readable only by the owner.
func SaveToken(path, token string) error {
	if err := os.WriteFile(path, []byte(token+"\n"), tokenFileMode); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

// LoadToken reads the session token stored at path. A missing file is
// reported as os.ErrNotExist so callers can treat it as "not signed in".
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// RemoveToken deletes the token file. A missing file is not an error.
func RemoveToken(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session token: %w", err)
	}
	return nil
}
