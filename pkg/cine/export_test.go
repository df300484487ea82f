package cine

import (
	"context"

	"github.com/tauraamui/cinefilter/pkg/video"
)

func OverloadOpenCapture(overload func(context.Context, string) (video.Source, error)) func() {
	openCaptureRef := openCapture
	openCapture = overload
	return func() { openCapture = openCaptureRef }
}
