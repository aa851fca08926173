//go:build !linux

package core

// Stub version, filesystem statistics are only read on linux
func BlockSize(path string) int {
	return DefaultBlockSize
}
