// Command vexelinfo decodes a single image and prints its ImageInfo in
// debug form. It is a reference wrapper around the vexel library, not part
// of the library's core surface.
//
// Usage:
//
//	vexelinfo <path>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vexeldecode/vexel"
)

func main() {
	warn := flag.Bool("warn", false, "set Control.Warn (read by no decoder; notes are printed at the end)")
	markers := flag.Bool("markers", false, "list each PNG chunk among the notes")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vexelinfo [-warn] [-markers] <path>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	d, err := vexel.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vexelinfo: %v\n", err)
		os.Exit(1)
	}
	d.SetControl(vexel.Control{Warn: *warn, Markers: *markers})

	img, err := d.Decode()
	info := d.Info()
	printInfo(path, d.Format(), info)

	if err != nil {
		fmt.Fprintf(os.Stderr, "vexelinfo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Decoded:    %dx%d\n", img.Width(), img.Height())
}

func printInfo(path string, format vexel.Format, info *vexel.ImageInfo) {
	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Format:     %s\n", format)
	fmt.Printf("Dimensions: %d x %d\n", info.Width, info.Height)
	fmt.Printf("BitDepth:   %d\n", info.BitDepth)
	fmt.Printf("ColorType:  %s\n", info.ColorType)
	if info.FrameCount > 0 {
		fmt.Printf("Frames:     %d\n", info.FrameCount)
		loop := "infinite"
		if info.LoopCount > 0 {
			loop = fmt.Sprintf("%d", info.LoopCount)
		}
		fmt.Printf("Loop count: %s\n", loop)
	}
	if info.GammaPresent {
		fmt.Printf("Gamma:      %v\n", info.Gamma)
	}
	if info.Orientation != nil {
		fmt.Printf("Orientation: row0=%v col0=%v\n", info.Orientation.Row0, info.Orientation.Col0)
	}
	if info.DensityUnit != "" {
		fmt.Printf("Density:    %dx%d %s\n", info.DensityX, info.DensityY, info.DensityUnit)
	}
	fmt.Printf("Notes:      %d\n", len(info.Notes))
	for _, n := range info.Notes {
		fmt.Printf("  - %s\n", n)
	}
}
