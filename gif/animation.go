package gif

import (
	"image"

	"github.com/vexeldecode/vexel/imgmodel"
	"golang.org/x/image/draw"
)

// mapDisposal converts a GIF disposal value (0 unspecified, 1 none,
// 2 restore-to-background, 3 restore-to-previous; GIF89a §23) onto
// imgmodel's shared DisposalMethod enum, folding "unspecified" into None.
func mapDisposal(d int) imgmodel.DisposalMethod {
	switch d {
	case 2:
		return imgmodel.DisposeBackground
	case 3:
		return imgmodel.DisposePrevious
	}
	return imgmodel.DisposeNone
}

// composeFrames draws each GIF frame onto a shared canvas per its disposal
// method, the same lazy-"previous"-snapshot shape used for APNG
// (png/apng.go's composeAnimation) since both formats share the GIF89a /
// APNG disposal vocabulary (none/background/previous).
func composeFrames(canvasW, canvasH int, frames []frame, loopCount int) *imgmodel.Animation {
	anim := &imgmodel.Animation{W: canvasW, H: canvasH}
	if loopCount >= 0 {
		anim.LoopCount = loopCount
	}
	canvas := imgmodel.NewRGBA8(canvasW, canvasH)

	var prevSnapshot *imgmodel.RGBA8

	for _, f := range frames {
		rect := clipRect(canvasW, canvasH, f.left, f.top, f.width, f.height)
		disposal := mapDisposal(f.ctl.disposal)

		if disposal == imgmodel.DisposePrevious {
			prevSnapshot = cloneRGBA8(canvas)
		}

		src := frameToIndexed8(f)
		sp := image.Point{X: rect.Min.X - f.left, Y: rect.Min.Y - f.top}
		draw.Draw(canvas, rect, src, sp, draw.Over)

		delayMs := f.ctl.delayCs * 10
		anim.Frames = append(anim.Frames, imgmodel.AnimFrame{
			Image:    cloneRGBA8(canvas),
			DelayMs:  delayMs,
			Disposal: disposal,
			Blend:    imgmodel.BlendOver,
		})

		switch disposal {
		case imgmodel.DisposeBackground:
			clearRect(canvas, rect)
		case imgmodel.DisposePrevious:
			canvas = prevSnapshot
		}
	}
	return anim
}

func cloneRGBA8(src *imgmodel.RGBA8) *imgmodel.RGBA8 {
	out := imgmodel.NewRGBA8(src.W, src.H)
	copy(out.Pix, src.Pix)
	return out
}

func clearRect(canvas *imgmodel.RGBA8, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			canvas.SetRGBA(x, y, 0, 0, 0, 0)
		}
	}
}

func clipRect(canvasW, canvasH, x, y, w, h int) image.Rectangle {
	x0, y0 := x, y
	x1, y1 := x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > canvasW {
		x1 = canvasW
	}
	if y1 > canvasH {
		y1 = canvasH
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return image.Rect(x0, y0, x1, y1)
}
