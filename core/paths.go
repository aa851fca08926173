package core

import (
	"os"
	"path/filepath"
)

// DefaultBlockSize is used when the filesystem block size is unknown.
const DefaultBlockSize = 4096

const (
	ServerJarFile  = "server.jar"
	PropertiesFile = "server.properties"
	IconFile       = "server-icon.png"
	ManifestFile   = ".minecraft-bootstrap.toml"
)

func EulaPath(dir string) string {
	return filepath.Join(dir, EulaFile)
}

func ServerJarPath(dir string) string {
	return filepath.Join(dir, ServerJarFile)
}

func PropertiesPath(dir string) string {
	return filepath.Join(dir, PropertiesFile)
}

func IconPath(dir string) string {
	return filepath.Join(dir, IconFile)
}

func ManifestPath(dir string) string {
	return filepath.Join(dir, ManifestFile)
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
