// Package keystore provides encrypted storage for Yandex Cloud credentials.
package keystore

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// MasterKeyEnv names the environment variable holding the keystore master key.
const MasterKeyEnv = "YVISION_MASTER_KEY"

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

// MasterKeySource supplies the secret the file encryption key is derived from.
type MasterKeySource interface {
	MasterKey() ([]byte, error)
}

// MasterKeyFunc adapts a function to MasterKeySource.
type MasterKeyFunc func() ([]byte, error)

// MasterKey calls f.
func (f MasterKeyFunc) MasterKey() ([]byte, error) {
	return f()
}

// EnvMasterKey reads the master key from MasterKeyEnv and falls back to
// machine material when the variable is unset.
func EnvMasterKey() MasterKeySource {
	return MasterKeyFunc(func() ([]byte, error) {
		if v := os.Getenv(MasterKeyEnv); v != "" {
			return []byte(v), nil
		}
		return machineMasterKey()
	})
}

// StaticMasterKey returns a source that always yields key.
func StaticMasterKey(key string) MasterKeySource {
	return MasterKeyFunc(func() ([]byte, error) {
		if key == "" {
			return nil, errors.New("keystore: empty master key")
		}
		return []byte(key), nil
	})
}

// machineMasterKey derives a key from the hostname and user. It only keeps
// the file unreadable on other machines; set MasterKeyEnv for real protection.
func machineMasterKey() ([]byte, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}

	sum := sha256.Sum256([]byte(hostname + ":" + username + ":yvision-keystore"))
	return sum[:], nil
}

// DefaultKeystorePath returns the default keystore file path.
// - macOS/Linux: ~/.yvision/keys.enc
// - Windows: %USERPROFILE%\.yvision\keys.enc
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

	return filepath.Join(homeDir, ".yvision", "keys.enc")
}

// NewKeystore opens the default keystore with the environment master key.
func NewKeystore() (Keystore, error) {
	return NewFileKeystore(DefaultKeystorePath(), EnvMasterKey())
}
