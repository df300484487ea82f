// Package opencv records presented frames into a video file through OpenCV.
package opencv

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const Codec = "avc1.4d001e"

var fs = afero.NewOsFs()

var openVideoWriter = func(filename, codec string, fps float64, width, height int, isColor bool) (*gocv.VideoWriter, error) {
	return gocv.VideoWriterFile(filename, codec, fps, width, height, isColor)
}

// Writer encodes each presented frame into a video file. The file is opened
// lazily on the first frame.
type Writer struct {
	fileName   string
	codec      string
	fps        float64
	dimensions videoframe.Dimensions

	mu      sync.Mutex
	vw      *gocv.VideoWriter
	written int
	closed  bool
}

// FPSForDelay is the nominal playback rate of frames produced every delay.
func FPSForDelay(delay time.Duration) float64 {
	if delay <= 0 {
		return 30
	}
	return float64(time.Second) / float64(delay)
}

func NewWriter(fileName string, fps float64, d videoframe.Dimensions) *Writer {
	return &Writer{fileName: fileName, codec: Codec, fps: fps, dimensions: d}
}

func (w *Writer) Dimensions() videoframe.Dimensions {
	return w.dimensions
}

func (w *Writer) FileName() string {
	return w.fileName
}

func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

func (w *Writer) init() error {
	if err := ensureDirectoryPathExists(filepath.Dir(w.fileName)); err != nil {
		return err
	}
	vw, err := openVideoWriter(w.fileName, w.codec, w.fps, w.dimensions.W, w.dimensions.H, true)
	if err != nil {
		return xerror.Errorf("unable to open video writer %s: %w", w.fileName, err)
	}
	w.vw = vw
	return nil
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}

func (w *Writer) Present(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.Dimensions != w.dimensions {
		return xerror.Errorf(
			"cannot record %dx%d frame into %dx%d video", buf.W, buf.H, w.dimensions.W, w.dimensions.H,
		)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return xerror.New("video writer is closed")
	}
	if w.vw == nil {
		if err := w.init(); err != nil {
			return err
		}
	}

	rgba, err := gocv.NewMatFromBytes(buf.H, buf.W, gocv.MatTypeCV8UC4, buf.Pix)
	if err != nil {
		return xerror.Errorf("unable to load frame into OpenCV: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	if err := w.vw.Write(bgr); err != nil {
		return xerror.Errorf("unable to write frame to %s: %w", w.fileName, err)
	}
	w.written++
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.vw == nil {
		return nil
	}
	err := w.vw.Close()
	w.vw = nil
	return err
}
