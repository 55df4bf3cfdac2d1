// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image2bit implements the bit-plane framebuffers used by SSD1681
// e-paper controllers.
//
// Pixels are packed 8 per byte, most significant bit first, in the order the
// controller RAM is scanned. The Gray image keeps a 2-bit luma per pixel
// split across two planes, one per controller RAM buffer. The Mono image
// keeps a single black and white plane.
package image2bit

import (
	"fmt"
	"image"
	"image/color"
)

// Gray2 is a 2-bit grayscale color. Only the two lowest bits of Y are used.
type Gray2 struct {
	Y uint8
}

// Gray levels supported by the controller.
var (
	Black     = Gray2{0}
	DarkGray  = Gray2{1}
	LightGray = Gray2{2}
	White     = Gray2{3}
)

// RGBA returns the color scaled to 16 bits per channel.
func (c Gray2) RGBA() (r, g, b, a uint32) {
	y := uint32(c.Y&3) * 0x5555
	return y, y, y, 0xffff
}

func (c Gray2) String() string {
	switch c.Y & 3 {
	case 0:
		return "Black"
	case 1:
		return "DarkGray"
	case 2:
		return "LightGray"
	}
	return "White"
}

func convertGray2(c color.Color) color.Color {
	return toGray2(c)
}

// toGray2 maps c to the nearest level of Palette.
func toGray2(c color.Color) Gray2 {
	if g, ok := c.(Gray2); ok {
		return Gray2{Y: g.Y & 3}
	}
	return Gray2{Y: uint8(Palette.Index(c))}
}

// Gray2Model converts any color to the nearest Gray2 level. It agrees with
// Palette.Convert.
var Gray2Model = color.ModelFunc(convertGray2)

// Palette holds the four gray levels, in Y order. Used as color model it maps
// colors to the nearest level, which makes images drawn with
// draw.FloydSteinberg come out dithered.
var Palette = color.Palette{Black, DarkGray, LightGray, White}

// Rotation selects how drawing coordinates map onto the controller RAM. It
// does not alter already stored pixels.
type Rotation uint8

// Supported rotations, clockwise.
const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (r Rotation) String() string {
	switch r {
	case Rotate0:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	}
	return fmt.Sprintf("Rotation(%d)", uint8(r))
}

// Set sets the Rotation to a value represented by the string s. Set implements
// the flag.Value interface.
func (r *Rotation) Set(s string) error {
	switch s {
	case "0":
		*r = Rotate0
	case "90":
		*r = Rotate90
	case "180":
		*r = Rotate180
	case "270":
		*r = Rotate270
	default:
		return fmt.Errorf("unknown rotation %q: expected 0, 90, 180 or 270", s)
	}
	return nil
}

// planeGeometry is shared by the Gray and Mono images.
type planeGeometry struct {
	width, height int
	rotation      Rotation
}

func newPlaneGeometry(width, height int) planeGeometry {
	if width <= 0 || height <= 0 || width%8 != 0 {
		panic(fmt.Sprintf("image2bit: invalid plane size %dx%d", width, height))
	}
	return planeGeometry{width: width, height: height}
}

// planeSize is the number of bytes of one plane.
func (g *planeGeometry) planeSize() int {
	return g.width * g.height / 8
}

// bounds returns the logical drawing area for the current rotation.
func (g *planeGeometry) bounds() image.Rectangle {
	if g.rotation == Rotate90 || g.rotation == Rotate270 {
		return image.Rect(0, 0, g.height, g.width)
	}
	return image.Rect(0, 0, g.width, g.height)
}

// bitAt returns the byte index and bit mask of the logical pixel (x, y).
// The caller checks bounds.
//
// Rows of the plane are always width pixels long; on square panels the
// 90 and 270 degree strides equal the height.
func (g *planeGeometry) bitAt(x, y int) (int, byte) {
	var offset int
	switch g.rotation {
	case Rotate90:
		offset = y + x*g.width
	case Rotate180:
		offset = (g.width - 1 - x) + (g.height-1-y)*g.width
	case Rotate270:
		offset = (g.width - 1 - y) + x*g.width
	default:
		offset = x + y*g.width
	}
	return offset >> 3, 0x80 >> (offset & 7)
}

// writable reports whether a drawn pixel is kept. The first row and column of
// the controller RAM are not reliably displayed so writes there are dropped.
func (g *planeGeometry) writable(x, y int) bool {
	b := g.bounds()
	return x > 0 && y > 0 && x < b.Max.X && y < b.Max.Y
}

func (g *planeGeometry) readable(x, y int) bool {
	return image.Pt(x, y).In(g.bounds())
}

// Rotation returns the active rotation.
func (g *planeGeometry) Rotation() Rotation {
	return g.rotation
}

// SetRotation changes the coordinate mapping of subsequent draw calls.
func (g *planeGeometry) SetRotation(r Rotation) {
	g.rotation = r
}

// Bounds returns the drawing area for the current rotation.
func (g *planeGeometry) Bounds() image.Rectangle {
	return g.bounds()
}

func fill(buf []byte, v byte) {
	for i := range buf {
		buf[i] = v
	}
}

func setBit(buf []byte, idx int, mask byte, on bool) {
	if on {
		buf[idx] |= mask
	} else {
		buf[idx] &^= mask
	}
}

// Gray is a two plane image with 2-bit gray levels.
//
// Bit 0 of a pixel's luma lives in plane 1 and bit 1 in plane 2. A cleared
// bit marks ink, so White is stored as all ones. While the image is
// inverted both planes hold the complement of that encoding.
type Gray struct {
	planeGeometry

	plane1   []byte
	plane2   []byte
	inverted bool
}

// NewGray returns a white two plane image of width x height pixels. width
// must be a multiple of 8.
func NewGray(width, height int) *Gray {
	g := &Gray{planeGeometry: newPlaneGeometry(width, height)}
	g.plane1 = make([]byte, g.planeSize())
	g.plane2 = make([]byte, g.planeSize())
	fill(g.plane1, 0xff)
	fill(g.plane2, 0xff)
	return g
}

// ColorModel implements image.Image.
func (g *Gray) ColorModel() color.Model {
	return Palette
}

// At implements image.Image.
func (g *Gray) At(x, y int) color.Color {
	return g.Gray2At(x, y)
}

// Gray2At returns the gray level stored at (x, y).
func (g *Gray) Gray2At(x, y int) Gray2 {
	if !g.readable(x, y) {
		return Gray2{}
	}
	idx, mask := g.bitAt(x, y)
	lo := g.plane1[idx]&mask != 0
	hi := g.plane2[idx]&mask != 0
	if g.inverted {
		lo, hi = !lo, !hi
	}
	var c Gray2
	if lo {
		c.Y |= 1
	}
	if hi {
		c.Y |= 2
	}
	return c
}

// Set implements draw.Image.
func (g *Gray) Set(x, y int, c color.Color) {
	g.SetGray2(x, y, toGray2(c))
}

// SetGray2 stores a gray level at (x, y).
func (g *Gray) SetGray2(x, y int, c Gray2) {
	if !g.writable(x, y) {
		return
	}
	idx, mask := g.bitAt(x, y)
	lo, hi := g.encode(c)
	setBit(g.plane1, idx, mask, lo)
	setBit(g.plane2, idx, mask, hi)
}

// encode returns the bit values of c for plane 1 and plane 2.
func (g *Gray) encode(c Gray2) (bool, bool) {
	lo := c.Y&1 != 0
	hi := c.Y&2 != 0
	if g.inverted {
		return !lo, !hi
	}
	return lo, hi
}

// Clear fills the whole image, including the first row and column, with c.
func (g *Gray) Clear(c color.Color) {
	lo, hi := g.encode(toGray2(c))
	fill(g.plane1, planeFill(lo))
	fill(g.plane2, planeFill(hi))
}

func planeFill(on bool) byte {
	if on {
		return 0xff
	}
	return 0
}

// Invert toggles the inversion flag and complements both planes. The gray
// levels reported by At are unchanged; only the stored polarity flips.
func (g *Gray) Invert() {
	g.inverted = !g.inverted
	for i := range g.plane1 {
		g.plane1[i] = ^g.plane1[i]
		g.plane2[i] = ^g.plane2[i]
	}
}

// Inverted reports whether the planes currently hold the inverted encoding.
func (g *Gray) Inverted() bool {
	return g.inverted
}

// Plane1 returns the plane written to the controller's first RAM buffer.
func (g *Gray) Plane1() []byte {
	return g.plane1
}

// Plane2 returns the plane written to the controller's second RAM buffer.
func (g *Gray) Plane2() []byte {
	return g.plane2
}

// Mono is a single plane black and white image.
type Mono struct {
	planeGeometry

	plane []byte
}

// NewMono returns a white single plane image of width x height pixels.
// width must be a multiple of 8.
func NewMono(width, height int) *Mono {
	m := &Mono{planeGeometry: newPlaneGeometry(width, height)}
	m.plane = make([]byte, m.planeSize())
	fill(m.plane, 0xff)
	return m
}

// ColorModel implements image.Image. It maps colors the way Set stores them.
func (m *Mono) ColorModel() color.Model {
	return monoModel
}

// monoModel keeps Black and turns every other level white.
var monoModel = color.ModelFunc(func(c color.Color) color.Color {
	if toGray2(c) == Black {
		return Black
	}
	return White
})

// At implements image.Image.
func (m *Mono) At(x, y int) color.Color {
	if !m.readable(x, y) {
		return Black
	}
	idx, mask := m.bitAt(x, y)
	if m.plane[idx]&mask == 0 {
		return Black
	}
	return White
}

// Set implements draw.Image. Anything but Black is drawn as white.
func (m *Mono) Set(x, y int, c color.Color) {
	if !m.writable(x, y) {
		return
	}
	idx, mask := m.bitAt(x, y)
	setBit(m.plane, idx, mask, toGray2(c) != Black)
}

// Clear fills the image with black if c is Black and with white otherwise.
func (m *Mono) Clear(c color.Color) {
	fill(m.plane, planeFill(toGray2(c) != Black))
}

// Plane1 returns the plane.
func (m *Mono) Plane1() []byte {
	return m.plane
}

// Plane2 returns the plane as well, keeping both controller buffers in sync.
func (m *Mono) Plane2() []byte {
	return m.plane
}
