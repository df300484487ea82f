// Package videostorage archives presented frames into a SQLite database.
package videostorage

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/cinefilter/pkg/log"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fs = afero.NewOsFs()

var Timestamp = func() time.Time {
	return time.Now()
}

var openDBConnection = func(path string) (*gorm.DB, error) {
	logger := logger.New(nil, logger.Config{LogLevel: logger.Silent})
	return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger})
}

// Archive stores every frame presented to it against the stream it was
// opened for.
type Archive struct {
	path       string
	stream     string
	dimensions videoframe.Dimensions

	mu    sync.Mutex
	db    *gorm.DB
	saved int
}

func NewArchive(path, stream string, d videoframe.Dimensions) (*Archive, error) {
	if err := ensureDirectoryPathExists(filepath.Dir(path)); err != nil {
		return nil, xerror.Errorf("unable to create archive directory: %w", err)
	}

	log.Debug("Connecting to frame archive: %s", path)
	db, err := openDBConnection(path)
	if err != nil {
		return nil, xerror.Errorf("unable to open db connection: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, xerror.Errorf("unable to run automigrations: %w", err)
	}

	return &Archive{path: path, stream: stream, dimensions: d, db: db}, nil
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}

func (a *Archive) Dimensions() videoframe.Dimensions {
	return a.dimensions
}

func (a *Archive) Saved() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saved
}

func (a *Archive) Present(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, buf.RGBA()); err != nil {
		return xerror.Errorf("unable to encode frame for archive: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return xerror.New("frame archive is closed")
	}

	frame := Frame{
		Stream: a.stream,
		Taken:  Timestamp().UnixNano(),
		Width:  buf.W,
		Height: buf.H,
		PNG:    encoded.Bytes(),
	}
	if err := a.db.Create(&frame).Error; err != nil {
		return xerror.Errorf("unable to archive frame: %w", err)
	}
	a.saved++
	return nil
}

// Frames lists the archived frames of this archive's stream, oldest first.
func (a *Archive) Frames() ([]Frame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return nil, xerror.New("frame archive is closed")
	}

	var frames []Frame
	if err := a.db.Where("stream = ?", a.stream).Order("id").Find(&frames).Error; err != nil {
		return nil, xerror.Errorf("unable to list archived frames for %s: %w", a.stream, err)
	}
	return frames, nil
}

// Decode turns an archived frame back into a pixel buffer.
func (f Frame) Decode() (*videoframe.Buffer, error) {
	img, err := png.Decode(bytes.NewReader(f.PNG))
	if err != nil {
		return nil, xerror.Errorf("unable to decode archived frame %s: %w", f.UUID, err)
	}
	buf := videoframe.New(videoframe.Dimensions{W: f.Width, H: f.Height})
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b, al := img.At(x, y).RGBA()
			o := buf.Offset(x, y)
			buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2], buf.Pix[o+3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(al>>8)
		}
	}
	return buf, nil
}

func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	a.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
