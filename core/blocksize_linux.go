package core

import (
	"github.com/apex/log"
	"golang.org/x/sys/unix"
)

// BlockSize returns the fundamental block size of the filesystem holding path,
// or DefaultBlockSize when it cannot be determined.
func BlockSize(path string) int {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		log.WithField("path", path).WithError(err).Debug("could not stat filesystem, using default block size")
		return DefaultBlockSize
	}
	if st.Frsize <= 0 {
		return DefaultBlockSize
	}
	return int(st.Frsize)
}
