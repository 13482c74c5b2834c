//go:build linux

package index

import "syscall"

func statCtime(sys *syscall.Stat_t) (sec, nsec int64) {
	return sys.Ctim.Sec, sys.Ctim.Nsec
}
