// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a 2D display.Drawer that outputs to terminal
// (stdout) using ANSI color codes.
//
// Useful to preview what an e-paper panel will show without waiting for a
// full refresh, or without the panel at all.
package screen2d

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	X, Y    int
	Palette *ansi256.Palette
	// W receives the output. Defaults to stdout.
	W io.Writer

	_ struct{}
}

// Dev is a terminal display emulator.
//
// Terminal cells are about twice as tall as wide, so each cell shows one
// column of two pixel rows, blended.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette

	img *image.NRGBA
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:       w,
		palette: *p,
		img:     image.NewNRGBA(image.Rect(0, 0, opts.X, opts.Y)),
	}
	draw.Draw(d.img, d.img.Rect, image.White, image.Point{}, draw.Src)
	return d
}

func (d *Dev) String() string {
	r := d.img.Rect
	return fmt.Sprintf("Screen2D{%dx%d}", r.Dx(), r.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	// draw.Draw clips r to the image and moves sp along with it.
	draw.Draw(d.img, r, src, sp, draw.Src)
	return d.refresh()
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	r := d.img.Rect
	for y := r.Min.Y; y < r.Max.Y; y += 2 {
		_, _ = d.buf.WriteString("\033[0m")
		for x := r.Min.X; x < r.Max.X; x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.cell(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// cell blends the pixel at (x, y) with the one below it, if any.
func (d *Dev) cell(x, y int) color.NRGBA {
	top := d.img.NRGBAAt(x, y)
	if y+1 >= d.img.Rect.Max.Y {
		return top
	}
	bottom := d.img.NRGBAAt(x, y+1)
	return color.NRGBA{
		R: uint8((uint16(top.R) + uint16(bottom.R)) / 2),
		G: uint8((uint16(top.G) + uint16(bottom.G)) / 2),
		B: uint8((uint16(top.B) + uint16(bottom.B)) / 2),
		A: 255,
	}
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
