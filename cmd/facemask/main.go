// Facemask demo - detect faces in a photo and mask them.
//
// Runs the full pipeline once: load an image, detect faces, apply the
// chosen transform, write the result as PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	_ "image/jpeg" // register JPEG decoder
	"os"

	"github.com/teslashibe/facemask/internal/log"
	"github.com/teslashibe/facemask/pkg/detection"
	"github.com/teslashibe/facemask/pkg/geometry"
	"github.com/teslashibe/facemask/pkg/mask"
	"github.com/teslashibe/facemask/pkg/session"
)

func main() {
	var (
		inPath    = flag.String("in", "", "input image (png or jpeg)")
		outPath   = flag.String("out", "masked.png", "output PNG")
		backend   = flag.String("backend", "pigo", "detector backend: pigo or yunet")
		cascade   = flag.String("cascade", "models/facefinder", "pigo cascade file")
		model     = flag.String("model", "models/face_detection_yunet.onnx", "yunet ONNX model")
		transform = flag.String("transform", "pixelate", "mask transform: pixelate, blur, or stamp")
		stampPath = flag.String("stamp", "", "stamp overlay image (for -transform stamp)")
		intensity = flag.Int("intensity", 3, "mask intensity 1-5")
		logLevel  = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()
	log.Init(*logLevel)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: facemask -in photo.jpg [-out masked.png]")
		os.Exit(1)
	}

	img, err := loadImage(*inPath)
	if err != nil {
		log.Error("load image", "path", *inPath, "error", err)
		os.Exit(1)
	}

	be, err := newBackend(*backend, *cascade, *model)
	if err != nil {
		log.Error("create backend", "backend", *backend, "error", err)
		os.Exit(1)
	}

	s := session.New(be, session.DefaultConfig())
	defer s.Close()

	b := img.Bounds()
	display := geometry.Space{Width: float64(b.Dx()), Height: float64(b.Dy())}
	s.SetImage(img, display)

	if *stampPath != "" {
		stamp, err := loadImage(*stampPath)
		if err != nil {
			log.Error("load stamp", "path", *stampPath, "error", err)
			os.Exit(1)
		}
		s.SetStamp(stamp)
	}

	faces, err := s.DetectAll(context.Background())
	if err != nil {
		log.Error("detection failed", "error", err)
		os.Exit(1)
	}
	log.Info("detection complete", "faces", len(faces))

	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)

	if err := s.ApplyMask(canvas, mask.Transform(*transform), *intensity); err != nil {
		log.Error("mask failed", "error", err)
		os.Exit(1)
	}

	if err := writePNG(*outPath, canvas); err != nil {
		log.Error("write output", "path", *outPath, "error", err)
		os.Exit(1)
	}
	log.Info("wrote masked image", "path", *outPath)
}

func newBackend(kind, cascadePath, modelPath string) (detection.Backend, error) {
	switch kind {
	case "yunet":
		return detection.NewYuNet(modelPath)
	case "pigo":
		data, err := os.ReadFile(cascadePath)
		if err != nil {
			return nil, fmt.Errorf("read cascade: %w", err)
		}
		return detection.NewPigo(data)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
