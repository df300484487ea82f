package filter_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/cinefilter/pkg/filter"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
)

func TestBuiltinFiltersAreRegistered(t *testing.T) {
	for _, name := range []string{
		"colour_level", "color_level", "brightness_contrast", "invert",
		"posterise", "posterize", "greyscale", "grayscale", "gaussian_blur",
		"emboss", "smooth", "edge_detect", "hsv_round_trip", "caption",
	} {
		assert.True(t, filter.Registered(name), "%s is not registered", name)
	}
}

func TestRegisteredNormalizesNames(t *testing.T) {
	is := is.New(t)
	is.True(filter.Registered("Gaussian-Blur"))
	is.True(filter.Registered(" EMBOSS "))
	is.True(!filter.Registered("sharpen"))
}

func TestBuildAppliesParams(t *testing.T) {
	is := is.New(t)

	f, err := filter.Build(filter.Spec{Name: "colour_level", Params: filter.Params{"Red": 2, "blue": 0.5}})
	is.NoErr(err)
	level, ok := f.(*filter.ColorLevel)
	is.True(ok)
	is.Equal(*level, filter.ColorLevel{Red: 2, Green: 1, Blue: 0.5})

	f, err = filter.Build(filter.Spec{Name: "gaussian_blur", Params: filter.Params{"radius": 3}})
	is.NoErr(err)
	blur := f.(*filter.GaussianBlur)
	is.Equal(blur.Radius, 3)
	is.Equal(blur.Sigma, filter.DefaultSigma)
}

func TestBuildDefaultsPosteriseLevels(t *testing.T) {
	is := is.New(t)
	f, err := filter.Build(filter.Spec{Name: "posterize"})
	is.NoErr(err)
	is.Equal(f.(*filter.Posterise).Levels, 4)
}

func TestBuildRejectsUnknownFilter(t *testing.T) {
	_, err := filter.Build(filter.Spec{Name: "sharpen"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown filter "sharpen"`)
}

func TestBuildRejectsInvalidParams(t *testing.T) {
	_, err := filter.Build(filter.Spec{Name: "posterise", Params: filter.Params{"levels": 0}})
	require.Error(t, err)
	assert.EqualError(t, err, `invalid options for filter "posterise": posterise needs at least 1 level, got 0`)
}

func TestBuildChainKeepsOrder(t *testing.T) {
	is := is.New(t)
	chain, err := filter.BuildChain(
		filter.Spec{Name: "invert"},
		filter.Spec{Name: "smooth", Params: filter.Params{"weight": 4}},
		filter.Spec{Name: "caption", Text: "cam one"},
	)
	is.NoErr(err)

	names := []string{}
	for _, f := range chain.Filters() {
		names = append(names, filter.Name(f))
	}
	is.Equal(names, []string{"Invert", "Smooth(4)", `Caption("cam one")`})
}

func TestBuildChainFailsOnFirstBadSpec(t *testing.T) {
	is := is.New(t)
	chain, err := filter.BuildChain(filter.Spec{Name: "invert"}, filter.Spec{Name: "nope"})
	is.True(err != nil)
	is.True(chain == nil)
}

func TestRegisterCustomFilter(t *testing.T) {
	is := is.New(t)
	filter.Register("Zero-Red", func(filter.Spec) (filter.Filter, error) {
		return filter.Func(func(buf *videoframe.Buffer) error {
			for i := 0; i < len(buf.Pix); i += videoframe.Channels {
				buf.Pix[i] = 0
			}
			return nil
		}), nil
	})

	is.True(filter.Registered("zero_red"))
	is.True(contains(filter.Names(), "zero_red"))

	f, err := filter.Build(filter.Spec{Name: "zero-red"})
	is.NoErr(err)
	buf := filledBuffer(2, 1, 200, 100, 50, 255)
	is.NoErr(f.ProcessFrame(buf))
	is.Equal(pixelAt(buf, 1, 0), []uint8{0, 100, 50, 255})
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
