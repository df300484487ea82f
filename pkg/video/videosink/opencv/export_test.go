package opencv

import (
	"github.com/spf13/afero"
	"gocv.io/x/gocv"
)

func OverloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}

func OverloadOpenVideoWriter(
	overload func(string, string, float64, int, int, bool) (*gocv.VideoWriter, error),
) func() {
	openVideoWriterRef := openVideoWriter
	openVideoWriter = overload
	return func() { openVideoWriter = openVideoWriterRef }
}
