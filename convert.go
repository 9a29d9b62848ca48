package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/discover"
	"github.com/phobologic/omrprep/internal/imageconv"
)

func runInvert(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("invert", "[flags] <image-dir>",
		"Invert white-on-black images into black-on-white grayscale PNGs written next\n"+
			"to the originals.",
		stderr, &common)

	var pattern string
	fs.StringVar(&pattern, "pattern", "*.bmp", "file name pattern of the images to invert")

	if err := parseFlags(fs, args, 1, stderr, &common); err != nil {
		return err
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("-pattern: %w", err)
	}

	return convertAll(fs.Arg(0), pattern, common.workers, stdout, "inverted", func(path string) error {
		dst, err := imageconv.Invert(path)
		if err == nil {
			diag.Logger().Debug("inverted image", "src", path, "dst", dst)
		}
		return err
	})
}

func runRGB(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("rgb", "[flags] <image-dir>",
		"Rewrite every PNG under image-dir in place as a 24-bit RGB image.",
		stderr, &common)

	if err := parseFlags(fs, args, 1, stderr, &common); err != nil {
		return err
	}
	return convertAll(fs.Arg(0), "*.png", common.workers, stdout, "converted", imageconv.ToRGB)
}

func convertAll(dir, pattern string, workers int, stdout io.Writer, verb string, convert func(string) error) error {
	if err := requireDir(dir); err != nil {
		return err
	}
	files, err := discover.Files(dir, pattern)
	if err != nil {
		return fmt.Errorf("discovering images: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no images matching %s found in %s", pattern, dir)
	}
	err = processConcurrent(len(files), workers, func(i int) error {
		return convert(filepath.Join(dir, files[i].Path))
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "%s %d images\n", verb, len(files))
	return nil
}
