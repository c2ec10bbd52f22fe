//go:build linux

package cli

import "golang.org/x/sys/unix"

// ioctl requests for reading and writing terminal attributes on Linux.
const (
	getTermiosRequest uint = unix.TCGETS
	setTermiosRequest uint = unix.TCSETS
)
