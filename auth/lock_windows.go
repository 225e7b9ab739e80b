//go:build windows

package auth

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

func lock(file string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(file+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	handle := windows.Handle(f.Fd())
	overlapped := windows.Overlapped{}

	if err := windows.LockFileEx(handle, windows.LOCKFILE_EXCLUSIVE_LOCK, 0, 1, 0, &overlapped); err != nil {
		f.Close()
		return nil, err
	}

	return func() {
		windows.UnlockFileEx(handle, 0, 1, 0, &overlapped)
		f.Close()
	}, nil
}
