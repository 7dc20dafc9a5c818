package png

import (
	"image"

	"github.com/vexeldecode/vexel/bitio"
	"github.com/vexeldecode/vexel/imgmodel"
	"golang.org/x/image/draw"
)

// actlData is the parsed acTL chunk (APNG spec): frame count and loop
// count for the whole animation.
type actlData struct {
	numFrames, numPlays int
}

func parseACTL(body []byte) (*actlData, []string) {
	if len(body) != 8 {
		return nil, []string{"png: acTL has wrong length, ignoring animation"}
	}
	br := bitio.NewByteReader(body)
	n, _ := br.ReadU32BE()
	p, _ := br.ReadU32BE()
	return &actlData{numFrames: int(n), numPlays: int(p)}, nil
}

// fctlData is one parsed fcTL chunk: the frame's subrect within the
// animation canvas, its delay, and its dispose/blend ops (APNG spec,
// `shutej/apng`'s writer.go constants for the op encodings).
type fctlData struct {
	seq                uint32
	width, height      int
	xOffset, yOffset   int
	delayNum, delayDen int
	disposeOp, blendOp int
}

func parseFCTL(body []byte) (*fctlData, []string) {
	var notes []string
	if len(body) != 26 {
		return nil, append(notes, "png: fcTL has wrong length, skipping frame")
	}
	br := bitio.NewByteReader(body)
	seq, _ := br.ReadU32BE()
	w, _ := br.ReadU32BE()
	h, _ := br.ReadU32BE()
	xo, _ := br.ReadU32BE()
	yo, _ := br.ReadU32BE()
	dNum, _ := br.ReadU16BE()
	dDen, _ := br.ReadU16BE()
	dispose, _ := br.ReadU8()
	blend, _ := br.ReadU8()

	f := &fctlData{
		seq: seq, width: int(w), height: int(h), xOffset: int(xo), yOffset: int(yo),
		delayNum: int(dNum), delayDen: int(dDen), disposeOp: int(dispose), blendOp: int(blend),
	}
	if f.disposeOp < 0 || f.disposeOp > 2 {
		notes = append(notes, "png: unrecognized fcTL dispose_op, treating as none")
		f.disposeOp = 0
	}
	if f.blendOp < 0 || f.blendOp > 1 {
		notes = append(notes, "png: unrecognized fcTL blend_op, treating as source")
		f.blendOp = 0
	}
	if f.delayDen == 0 {
		f.delayDen = 100 // APNG spec: denominator 0 means 1/100s units
	}
	return f, notes
}

// apngFrame pairs an fcTL descriptor with the frame's decoded sub-image.
type apngFrame struct {
	ctl *fctlData
	img *rawImage
}

// composeAnimation draws each APNG frame onto a shared canvas following
// dispose_op/blend_op, the same sequencing `shutej/apng` writes out (and
// our own decode-side mirror of it): a lazily-allocated "previous" snapshot
// is only taken for frames whose disposal will need to restore it.
//
// Frame subrects that extend past the logical canvas are clipped (spec §9
// Open Question (a): "clip", the recommended resolution) rather than
// rejected.
func composeAnimation(canvasW, canvasH int, frames []apngFrame, ih *ihdrData, pal []colorEntry, trns *trnsData, loopCount int) *imgmodel.Animation {
	anim := &imgmodel.Animation{W: canvasW, H: canvasH, LoopCount: loopCount}
	canvas := imgmodel.NewRGBA8(canvasW, canvasH)

	var prevSnapshot *imgmodel.RGBA8

	for _, f := range frames {
		rect := clipRect(canvasW, canvasH, f.ctl.xOffset, f.ctl.yOffset, f.ctl.width, f.ctl.height)

		if f.ctl.disposeOp == 2 { // PREVIOUS: snapshot before drawing
			prevSnapshot = cloneRGBA8(canvas)
		}

		frameImg := toImage(f.img, ih, pal, trns)
		op := draw.Over
		if f.ctl.blendOp == 0 {
			op = draw.Src
		}
		sp := image.Point{X: rect.Min.X - f.ctl.xOffset, Y: rect.Min.Y - f.ctl.yOffset}
		draw.Draw(canvas, rect, frameImg, sp, op)

		frameSnapshot := cloneRGBA8(canvas)
		delayMs := 0
		if f.ctl.delayDen > 0 {
			delayMs = f.ctl.delayNum * 1000 / f.ctl.delayDen
		}
		anim.Frames = append(anim.Frames, imgmodel.AnimFrame{
			Image:    frameSnapshot,
			DelayMs:  delayMs,
			Disposal: imgmodel.DisposalMethod(f.ctl.disposeOp),
			Blend:    imgmodel.BlendMethod(f.ctl.blendOp),
		})

		switch f.ctl.disposeOp {
		case 1: // BACKGROUND: clear the subrect to transparent
			clearRect(canvas, rect)
		case 2: // PREVIOUS: restore the pre-draw snapshot
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
