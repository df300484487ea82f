package videosink

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const DateFormat = "2006-01-02"
const DateAndTimeFormat = "2006-01-02 15.04.05"

var fs = afero.NewOsFs()

var Timestamp = func() time.Time {
	return time.Now()
}

// PNGDir writes every presented frame as a numbered PNG file. Each sink
// writes into its own folder named after the time it was created, grouped by
// day under the root.
type PNGDir struct {
	root       string
	prefix     string
	dimensions videoframe.Dimensions
	started    time.Time

	mu      sync.Mutex
	written int
	dirMade bool
}

func NewPNGDir(root, prefix string, d videoframe.Dimensions) *PNGDir {
	if len(prefix) == 0 {
		prefix = "frame"
	}
	return &PNGDir{root: root, prefix: prefix, dimensions: d, started: Timestamp()}
}

func (p *PNGDir) Dimensions() videoframe.Dimensions {
	return p.dimensions
}

func (p *PNGDir) Dir() string {
	return filepath.Join(p.root, p.started.Format(DateFormat), p.started.Format(DateAndTimeFormat))
}

// FileName is the path of the n'th frame, counting from 1.
func (p *PNGDir) FileName(n int) string {
	return filepath.Join(p.Dir(), fmt.Sprintf("%s-%06d.png", p.prefix, n))
}

func (p *PNGDir) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

func (p *PNGDir) Present(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.dirMade {
		if err := ensureDirectoryPathExists(p.Dir()); err != nil {
			return xerror.Errorf("unable to create frame directory %s: %w", p.Dir(), err)
		}
		p.dirMade = true
	}

	name := p.FileName(p.written + 1)
	f, err := fs.Create(name)
	if err != nil {
		return xerror.Errorf("unable to create frame file %s: %w", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, buf.RGBA()); err != nil {
		return xerror.Errorf("unable to encode frame %s: %w", name, err)
	}
	p.written++
	return nil
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
