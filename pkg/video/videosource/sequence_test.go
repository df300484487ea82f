package videosource_test

import (
	"image"
	"image/color"
	"image/png"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/cinefilter/pkg/video/videosource"
)

func writePNG(fs afero.Fs, path string, w, h int, c color.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	Expect(fs.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	f, err := fs.Create(path)
	Expect(err).ToNot(HaveOccurred())
	defer f.Close()
	Expect(png.Encode(f, img)).To(Succeed())
}

func firstPixel(buf *videoframe.Buffer) []uint8 {
	return append([]uint8{}, buf.Pix[:4]...)
}

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

var _ = Describe("Sequence", func() {
	var (
		fs      afero.Fs
		resetFS func()
		buf     *videoframe.Buffer
	)

	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		resetFS = videosource.OverloadFS(fs)
		buf = videoframe.New(videoframe.Dimensions{W: 4, H: 4})
	})

	AfterEach(func() {
		resetFS()
	})

	Context("Built from a directory", func() {
		BeforeEach(func() {
			writePNG(fs, "/frames/002.png", 4, 4, green)
			writePNG(fs, "/frames/001.png", 4, 4, red)
			Expect(afero.WriteFile(fs, "/frames/notes.txt", []byte("not an image"), 0644)).To(Succeed())
		})

		It("Should only pick up images, sorted by name", func() {
			seq, err := videosource.NewSequenceFromDir("/frames", false)
			Expect(err).ToNot(HaveOccurred())
			Expect(seq.Paths()).To(Equal([]string{
				filepath.Join("/frames", "001.png"), filepath.Join("/frames", "002.png"),
			}))
		})

		It("Should capture each image once then end", func() {
			seq, err := videosource.NewSequenceFromDir("/frames", false)
			Expect(err).ToNot(HaveOccurred())

			Expect(seq.Ended()).To(BeFalse())
			Expect(seq.Capture(buf)).To(Succeed())
			Expect(firstPixel(buf)).To(Equal([]uint8{255, 0, 0, 255}))

			Expect(seq.Ended()).To(BeFalse())
			Expect(seq.Capture(buf)).To(Succeed())
			Expect(firstPixel(buf)).To(Equal([]uint8{0, 255, 0, 255}))

			Expect(seq.Ended()).To(BeTrue())
			Expect(seq.Capture(buf)).ToNot(Succeed())
		})

		It("Should wrap around when looping", func() {
			seq, err := videosource.NewSequenceFromDir("/frames", true)
			Expect(err).ToNot(HaveOccurred())

			for i := 0; i < 3; i++ {
				Expect(seq.Capture(buf)).To(Succeed())
			}
			Expect(seq.Ended()).To(BeFalse())
			Expect(firstPixel(buf)).To(Equal([]uint8{255, 0, 0, 255}))
		})

		It("Should end once stopped, even when looping", func() {
			seq, err := videosource.NewSequenceFromDir("/frames", true)
			Expect(err).ToNot(HaveOccurred())
			seq.Stop()
			Expect(seq.Ended()).To(BeTrue())
		})
	})

	It("Should return error for a missing directory", func() {
		_, err := videosource.NewSequenceFromDir("/missing", false)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unable to list image sequence directory /missing"))
	})

	It("Should return error for a directory without images", func() {
		Expect(fs.MkdirAll("/empty", 0755)).To(Succeed())
		_, err := videosource.NewSequenceFromDir("/empty", false)
		Expect(err).To(MatchError("no images found in /empty"))
	})

	It("Should render a still image exactly once", func() {
		writePNG(fs, "/still.png", 4, 4, blue)
		still := videosource.NewStill("/still.png")

		Expect(still.Ended()).To(BeFalse())
		Expect(still.Capture(buf)).To(Succeed())
		Expect(firstPixel(buf)).To(Equal([]uint8{0, 0, 255, 255}))
		Expect(still.Ended()).To(BeTrue())
	})

	It("Should scale images to the capture buffer", func() {
		writePNG(fs, "/small.png", 1, 1, blue)
		still := videosource.NewStill("/small.png")

		Expect(still.Capture(buf)).To(Succeed())
		for i := 0; i < len(buf.Pix); i += 4 {
			Expect(buf.Pix[i : i+4]).To(Equal([]uint8{0, 0, 255, 255}))
		}
	})

	It("Should return error for an undecodable image", func() {
		Expect(afero.WriteFile(fs, "/broken.png", []byte("garbage"), 0644)).To(Succeed())
		still := videosource.NewStill("/broken.png")

		err := still.Capture(buf)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unable to decode image /broken.png"))
	})

	It("Should report paused between Pause and Resume", func() {
		still := videosource.NewStill("/still.png")
		Expect(still.Paused()).To(BeFalse())
		still.Pause()
		Expect(still.Paused()).To(BeTrue())
		still.Resume()
		Expect(still.Paused()).To(BeFalse())
	})

	It("Should treat an empty sequence as ended", func() {
		seq := videosource.NewSequence(nil, true)
		Expect(seq.Ended()).To(BeTrue())
		Expect(seq.Capture(buf)).ToNot(Succeed())
	})
})
