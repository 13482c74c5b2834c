//go:build darwin

package index

import "syscall"

func statCtime(sys *syscall.Stat_t) (sec, nsec int64) {
	return sys.Ctimespec.Sec, sys.Ctimespec.Nsec
}
