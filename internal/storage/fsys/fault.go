package fsys

import "errors"

// ErrInjected is returned by FaultFS for an injected failure.
var ErrInjected = errors.New("fsys: injected failure")

// FaultFS wraps an FS and fails selected operations. The hooks receive the
// operation arguments and return the error to inject, or nil to pass
// through. It is used to simulate crashes between write and rename.
type FaultFS struct {
	FS

	RenameHook func(oldpath, newpath string) error
	CreateHook func(name string) error
	WriteHook  func(name string) error
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if f.RenameHook != nil {
		if err := f.RenameHook(oldpath, newpath); err != nil {
			return err
		}
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultFS) Create(name string) (File, error) {
	if f.CreateHook != nil {
		if err := f.CreateHook(name); err != nil {
			return nil, err
		}
	}
	file, err := f.FS.Create(name)
	if err != nil || f.WriteHook == nil {
		return file, err
	}
	return &faultFile{File: file, err: f.WriteHook(name)}, nil
}

type faultFile struct {
	File
	err error
}

func (f *faultFile) Write(p []byte) (int, error) {
	if f.err != nil {
		// Half the data reaches the file, as a crash mid-write would leave it.
		n, _ := f.File.Write(p[:len(p)/2])
		return n, f.err
	}
	return f.File.Write(p)
}
