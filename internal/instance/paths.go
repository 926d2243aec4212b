package instance

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the base directory (~/.raveoir) when set.
const HomeEnv = "RAVEOIR_HOME"

// BaseDir returns $RAVEOIR_HOME or ~/.raveoir.
func BaseDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".raveoir")
}

// Dir returns the instance-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "instances", name)
}

// SocketPath returns the UDS socket path for an instance.
func SocketPath(name string) string {
	return filepath.Join(Dir(name), "daemon.sock")
}

// LockPath returns the lock file path for an instance.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// BackendDBPath returns the primary store (users, profiles, emails, spam reports).
func BackendDBPath(name string) string {
	return filepath.Join(Dir(name), "backend.db")
}

// ArchiveDBPath returns the device-local key/value file holding archived emails.
// It is deliberately a different file from BackendDBPath.
func ArchiveDBPath(name string) string {
	return filepath.Join(Dir(name), "archive.db")
}

// KeyringDir returns the directory used by the file keyring backend.
func KeyringDir(name string) string {
	return filepath.Join(Dir(name), "keyring")
}

// LogDir returns the log directory for an instance.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the daemon log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "raveoird.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the instance directory tree with owner-only permissions.
func EnsureDir(name string) error {
	for _, d := range []string{Dir(name), LogDir(name), KeyringDir(name)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}

// List returns the names of instances that have a directory under BaseDir.
func List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(BaseDir(), "instances"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && ValidateName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
