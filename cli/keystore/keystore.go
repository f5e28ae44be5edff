// Package keystore provides secure storage for API keys.
package keystore

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"runtime"
)

// Keystore defines the interface for secure key storage.
type Keystore interface {
	// Set stores a key-value pair.
	Set(name, value string) error
	// Get retrieves a value by name. Returns error if not found.
	Get(name string) (string, error)
	// Delete removes a key by name.
	Delete(name string) error
	// List returns all stored key names.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// MasterKeySource supplies the master key material used to derive the
// file encryption key.
type MasterKeySource interface {
	GetMasterKey() ([]byte, error)
}

// MachineKeySource derives master key material from machine-specific data
// (hostname and user). Predictable on a known machine; it protects keys at
// rest against casual reads, not against a local attacker.
type MachineKeySource struct{}

// GetMasterKey implements MasterKeySource.
func (MachineKeySource) GetMasterKey() ([]byte, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}

	material := hostname + ":" + username + ":venice-keystore"
	hash := sha256.Sum256([]byte(material))
	return hash[:], nil
}

// DefaultKeystorePath returns the default keystore file path.
//   - macOS/Linux: ~/.venice/keys.enc
//   - Windows: %USERPROFILE%\.venice\keys.enc
func DefaultKeystorePath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "keys.enc"
	}

	return filepath.Join(homeDir, ".venice", "keys.enc")
}

// NewKeystore creates a new keystore using file-based encrypted storage
// with a machine-derived master key.
func NewKeystore() (Keystore, error) {
	return NewFileKeystore(DefaultKeystorePath(), MachineKeySource{})
}
