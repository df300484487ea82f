package config_test

import (
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tauraamui/cinefilter/pkg/config"
	"github.com/tauraamui/cinefilter/pkg/configdef"
)

var _ = Describe("Config", func() {
	var (
		configDir  string
		configPath string
	)

	BeforeEach(func() {
		dir, err := ioutil.TempDir("", "cinefilter-config")
		Expect(err).To(BeNil())
		configDir = dir
		configPath = filepath.Join(configDir, "config.json")
		os.Setenv("CINEFILTER_CONFIG", configPath)
	})

	AfterEach(func() {
		os.Unsetenv("CINEFILTER_CONFIG")
		Expect(os.RemoveAll(configDir)).To(BeNil())
	})

	Describe("Resolving", func() {
		Context("From valid config JSON", func() {
			It("Should load every stream", func() {
				Expect(ioutil.WriteFile(configPath, []byte(`{
					"debug": true,
					"streams": [
						{
							"title": "Garden",
							"source": {"type": "sequence", "path": "/frames/garden", "loop": true},
							"destination": {"type": "png_dir", "path": "/recordings", "prefix": "garden"},
							"filters": [
								{"name": "greyscale"},
								{"name": "posterise", "params": {"levels": 3}}
							]
						}
					]
				}`), 0666)).To(BeNil())

				values, err := config.DefaultResolver().Resolve()
				Expect(err).To(BeNil())
				Expect(values.Debug).To(BeTrue())
				Expect(values.Streams).To(HaveLen(1))

				stream := values.Streams[0]
				Expect(stream.Title).To(Equal("Garden"))
				Expect(stream.FrameDelayMS).To(Equal(configdef.DefaultFrameDelayMS))
				Expect(stream.Source).To(Equal(configdef.SourceDef{Type: "sequence", Path: "/frames/garden", Loop: true}))
				Expect(stream.Destination).To(Equal(configdef.DestinationDef{
					Type: "png_dir", Path: "/recordings", Prefix: "garden",
					Width: configdef.DefaultWidth, Height: configdef.DefaultHeight,
				}))
				Expect(stream.FilterSpecs()).To(HaveLen(2))
			})
		})

		Context("From JSON unmarshal failure", func() {
			It("Should return the parse error", func() {
				Expect(ioutil.WriteFile(configPath, []byte(`{
					"debug" true,
				}`), 0666)).To(BeNil())

				_, err := config.DefaultResolver().Resolve()
				Expect(err).To(MatchError("parsing configuration error: invalid character 't' after object key"))
			})
		})

		Context("From config validation failure", func() {
			It("Should return the validation error", func() {
				Expect(ioutil.WriteFile(configPath, []byte(`{
					"streams": [
						{"title": "Late", "frame_delay_ms": -1, "source": {"type": "test_pattern"}, "destination": {"type": "memory"}}
					]
				}`), 0666)).To(BeNil())

				_, err := config.DefaultResolver().Resolve()
				Expect(err).To(MatchError(
					"Validation error in field \"FrameDelayMS\" of type \"int\" using validator \"gte=0\"",
				))
			})
		})

		Context("From missing config file", func() {
			It("Should return the read error", func() {
				_, err := config.DefaultResolver().Resolve()
				Expect(err).ToNot(BeNil())
				Expect(os.IsNotExist(err)).To(BeTrue())
			})
		})
	})

	Describe("Creating and destroying", func() {
		It("Should write a default config which resolves", func() {
			Expect(config.DefaultCreator().Create()).To(BeNil())

			values, err := config.DefaultCreateResolver().Resolve()
			Expect(err).To(BeNil())
			Expect(values.Listen).To(Equal(":8080"))
			Expect(values.Streams).To(HaveLen(1))
			Expect(values.Streams[0].Source.Type).To(Equal(configdef.SourceTestPattern))
		})

		It("Should refuse to overwrite an existing config", func() {
			Expect(config.DefaultCreator().Create()).To(BeNil())
			Expect(config.DefaultCreateResolver().Create()).To(MatchError(configdef.ErrConfigAlreadyExists))
		})

		It("Should remove the config file", func() {
			Expect(config.DefaultCreator().Create()).To(BeNil())
			Expect(config.DefaultDestroyer().Destroy()).To(BeNil())

			_, err := os.Stat(configPath)
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})
})
