package videosource

import (
	"image"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Sequence yields one frame per image file, in order. Without looping it
// ends once every image has been captured, so a single image renders once.
type Sequence struct {
	playback
	paths []string
	loop  bool

	frameMu sync.Mutex
	next    int
	cache   map[string]image.Image
}

// NewStill is a sequence of one image which renders exactly once.
func NewStill(path string) *Sequence {
	return NewSequence([]string{path}, false)
}

func NewSequence(paths []string, loop bool) *Sequence {
	return &Sequence{
		paths: append([]string{}, paths...),
		loop:  loop,
		cache: map[string]image.Image{},
	}
}

// NewSequenceFromDir builds a sequence from every decodable image in dir,
// sorted by file name.
func NewSequenceFromDir(dir string, loop bool) (*Sequence, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, xerror.Errorf("unable to list image sequence directory %s: %w", dir, err)
	}

	paths := []string{}
	for _, info := range infos {
		if info.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(info.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, info.Name()))
	}
	if len(paths) == 0 {
		return nil, xerror.Errorf("no images found in %s", dir)
	}
	sort.Strings(paths)
	return NewSequence(paths, loop), nil
}

func (s *Sequence) Paths() []string {
	return append([]string{}, s.paths...)
}

func (s *Sequence) Ended() bool {
	if s.isStopped() {
		return true
	}
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if len(s.paths) == 0 {
		return true
	}
	return !s.loop && s.next >= len(s.paths)
}

func (s *Sequence) Capture(buf *videoframe.Buffer) error {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	if len(s.paths) == 0 {
		return xerror.New("image sequence is empty")
	}
	if s.next >= len(s.paths) {
		if !s.loop {
			return xerror.New("image sequence has ended")
		}
		s.next = 0
	}

	img, err := s.load(s.paths[s.next])
	if err != nil {
		return err
	}
	if err := scaleInto(buf, img); err != nil {
		return err
	}
	s.next++
	return nil
}

// load decodes path, keeping the result when the sequence loops.
func (s *Sequence) load(path string) (image.Image, error) {
	if img, ok := s.cache[path]; ok {
		return img, nil
	}

	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}
	if s.loop {
		s.cache[path] = img
	}
	return img, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, xerror.Errorf("unable to open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, xerror.Errorf("unable to decode image %s: %w", path, err)
	}
	return img, nil
}
