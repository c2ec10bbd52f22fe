//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import "golang.org/x/sys/unix"

const (
	getTermiosRequest uint = unix.TIOCGETA
	setTermiosRequest uint = unix.TIOCSETA
)
