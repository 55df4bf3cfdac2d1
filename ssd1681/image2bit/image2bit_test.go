// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package image2bit

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var rotations = []Rotation{Rotate0, Rotate90, Rotate180, Rotate270}

func TestGray2Model(t *testing.T) {
	for _, tc := range []struct {
		name string
		c    color.Color
		want Gray2
	}{
		{name: "black", c: color.Black, want: Black},
		{name: "white", c: color.White, want: White},
		{name: "gray 0x60", c: color.Gray{Y: 0x60}, want: DarkGray},
		{name: "gray 0xa0", c: color.Gray{Y: 0xa0}, want: LightGray},
		{name: "out of range", c: Gray2{Y: 7}, want: White},
		{name: "red", c: color.NRGBA{R: 0xff, A: 0xff}, want: DarkGray},
		{name: "gray16 0x3000", c: color.Gray16{Y: 0x3000}, want: DarkGray},
		{name: "gray16 0x3fff", c: color.Gray16{Y: 0x3fff}, want: DarkGray},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Gray2Model.Convert(tc.c)

			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Convert() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSetMatchesColorModel(t *testing.T) {
	g := NewGray(16, 8)
	m := NewMono(16, 8)
	for y := 0; y <= 0xffff; y += 0x0400 {
		c := color.Gray16{Y: uint16(y)}

		g.Set(3, 3, c)
		m.Set(3, 3, c)

		if got, want := g.At(3, 3), g.ColorModel().Convert(c); got != want {
			t.Errorf("Gray: Set(%v) stored %v, ColorModel() gives %v", c, got, want)
		}
		if got, want := m.At(3, 3), m.ColorModel().Convert(c); got != want {
			t.Errorf("Mono: Set(%v) stored %v, ColorModel() gives %v", c, got, want)
		}
	}
}

func TestGray2RGBA(t *testing.T) {
	r, g, b, a := LightGray.RGBA()
	if r != 0xaaaa || g != 0xaaaa || b != 0xaaaa || a != 0xffff {
		t.Errorf("RGBA() = %x %x %x %x", r, g, b, a)
	}
}

func TestRotationSet(t *testing.T) {
	for _, want := range rotations {
		var got Rotation
		if err := got.Set(want.String()); err != nil {
			t.Fatalf("Set(%q) failed: %v", want.String(), err)
		}
		if got != want {
			t.Errorf("Set(%q) = %v, want %v", want.String(), got, want)
		}
	}

	var r Rotation
	if err := r.Set("45"); err == nil {
		t.Error("Set(45) did not fail")
	}
}

func TestBitOffsetInjective(t *testing.T) {
	for _, rot := range rotations {
		t.Run(rot.String(), func(t *testing.T) {
			g := newPlaneGeometry(200, 200)
			g.SetRotation(rot)

			seen := map[[2]int]image.Point{}
			b := g.bounds()

			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					idx, mask := g.bitAt(x, y)
					if idx < 0 || idx >= g.planeSize() {
						t.Fatalf("bitAt(%d, %d) index %d out of range", x, y, idx)
					}
					key := [2]int{idx, int(mask)}
					if prev, ok := seen[key]; ok {
						t.Fatalf("bitAt(%d, %d) collides with %v", x, y, prev)
					}
					seen[key] = image.Pt(x, y)
				}
			}

			if len(seen) != 200*200 {
				t.Errorf("got %d distinct bits, want %d", len(seen), 200*200)
			}
		})
	}
}

func TestBitOffsetNonSquare(t *testing.T) {
	for _, tc := range []struct {
		rot      Rotation
		x, y     int
		wantIdx  int
		wantMask byte
	}{
		{rot: Rotate0, x: 9, y: 1, wantIdx: (9 + 16) >> 3, wantMask: 0x80 >> ((9 + 16) % 8)},
		{rot: Rotate90, x: 2, y: 3, wantIdx: (3 + 2*16) >> 3, wantMask: 0x80 >> ((3 + 2*16) % 8)},
		{rot: Rotate180, x: 0, y: 0, wantIdx: (15 + 7*16) >> 3, wantMask: 0x01},
		{rot: Rotate270, x: 1, y: 0, wantIdx: (15 + 16) >> 3, wantMask: 0x01},
	} {
		t.Run(tc.rot.String(), func(t *testing.T) {
			g := newPlaneGeometry(16, 8)
			g.SetRotation(tc.rot)

			idx, mask := g.bitAt(tc.x, tc.y)

			if idx != tc.wantIdx || mask != tc.wantMask {
				t.Errorf("bitAt(%d, %d) = (%d, %#x), want (%d, %#x)", tc.x, tc.y, idx, mask, tc.wantIdx, tc.wantMask)
			}
		})
	}
}

func TestNewInvalidWidth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewGray(10, 10) did not panic")
		}
	}()
	NewGray(10, 10)
}

func TestGrayBounds(t *testing.T) {
	g := NewGray(16, 8)

	if diff := cmp.Diff(g.Bounds(), image.Rect(0, 0, 16, 8)); diff != "" {
		t.Errorf("Bounds() difference (-got +want):\n%s", diff)
	}

	g.SetRotation(Rotate90)

	if diff := cmp.Diff(g.Bounds(), image.Rect(0, 0, 8, 16)); diff != "" {
		t.Errorf("Bounds() difference (-got +want):\n%s", diff)
	}
}

func TestGrayClearReadBack(t *testing.T) {
	for _, c := range []Gray2{White, LightGray, DarkGray, Black} {
		for _, inverted := range []bool{false, true} {
			g := NewGray(200, 200)
			if inverted {
				g.Invert()
			}

			g.Clear(c)

			b := g.Bounds()
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					if got := g.Gray2At(x, y); got != c {
						t.Fatalf("Clear(%v) inverted=%v: Gray2At(%d, %d) = %v", c, inverted, x, y, got)
					}
				}
			}
		}
	}
}

func TestGrayClearPlanes(t *testing.T) {
	g := NewGray(16, 2)

	g.Clear(White)

	if diff := cmp.Diff(g.Plane1(), bytes.Repeat([]byte{0xff}, 4)); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}

	g.Clear(LightGray)

	if diff := cmp.Diff(g.Plane1(), make([]byte, 4)); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(g.Plane2(), bytes.Repeat([]byte{0xff}, 4)); diff != "" {
		t.Errorf("Plane2() difference (-got +want):\n%s", diff)
	}
}

func TestGraySetClamp(t *testing.T) {
	g := NewGray(16, 8)

	for _, pt := range []image.Point{{0, 0}, {0, 3}, {3, 0}, {16, 3}, {3, 8}, {-1, 2}} {
		g.SetGray2(pt.X, pt.Y, Black)
	}

	want := bytes.Repeat([]byte{0xff}, 16)
	if diff := cmp.Diff(g.Plane1(), want); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(g.Plane2(), want); diff != "" {
		t.Errorf("Plane2() difference (-got +want):\n%s", diff)
	}
}

func TestGraySetBlackPixel(t *testing.T) {
	g := NewGray(200, 200)
	g.Clear(White)

	g.Set(5, 5, color.Black)

	const offset = 5 + 5*200
	for name, plane := range map[string][]byte{"plane1": g.Plane1(), "plane2": g.Plane2()} {
		for i, b := range plane {
			want := byte(0xff)
			if i == offset>>3 {
				want = ^byte(0x80 >> (offset % 8))
			}
			if b != want {
				t.Errorf("%s[%d] = %#x, want %#x", name, i, b, want)
			}
		}
	}
}

func TestGraySetRoundTrip(t *testing.T) {
	for _, rot := range rotations {
		t.Run(rot.String(), func(t *testing.T) {
			g := NewGray(24, 16)
			g.SetRotation(rot)

			b := g.Bounds()
			want := map[image.Point]Gray2{}
			for y := 1; y < b.Max.Y; y++ {
				for x := 1; x < b.Max.X; x++ {
					c := Gray2{Y: uint8(x*3+y) & 3}
					g.SetGray2(x, y, c)
					want[image.Pt(x, y)] = c
				}
			}

			for pt, c := range want {
				if got := g.Gray2At(pt.X, pt.Y); got != c {
					t.Errorf("Gray2At(%v) = %v, want %v", pt, got, c)
				}
			}
		})
	}
}

func TestGrayRotationKeepsBits(t *testing.T) {
	g := NewGray(16, 16)
	g.SetGray2(3, 4, Black)
	before := append([]byte(nil), g.Plane1()...)

	g.SetRotation(Rotate270)

	if diff := cmp.Diff(g.Plane1(), before); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}
	if g.Rotation() != Rotate270 {
		t.Errorf("Rotation() = %v", g.Rotation())
	}
}

func TestGrayInvertTwice(t *testing.T) {
	g := NewGray(32, 8)
	for i := range g.Plane1() {
		g.Plane1()[i] = byte(i * 37)
		g.Plane2()[i] = byte(i*11 + 5)
	}
	p1 := append([]byte(nil), g.Plane1()...)
	p2 := append([]byte(nil), g.Plane2()...)

	g.Invert()

	if !g.Inverted() {
		t.Error("Inverted() = false after one Invert()")
	}
	for i := range p1 {
		if g.Plane1()[i] != ^p1[i] || g.Plane2()[i] != ^p2[i] {
			t.Fatalf("byte %d not complemented", i)
		}
	}

	g.Invert()

	if g.Inverted() {
		t.Error("Inverted() = true after two Invert()")
	}
	if diff := cmp.Diff(g.Plane1(), p1); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(g.Plane2(), p2); diff != "" {
		t.Errorf("Plane2() difference (-got +want):\n%s", diff)
	}
}

func TestGrayInvertedDraw(t *testing.T) {
	g := NewGray(16, 8)
	g.Invert()

	g.SetGray2(9, 1, White)

	idx, mask := g.bitAt(9, 1)
	if g.Plane1()[idx]&mask != 0 || g.Plane2()[idx]&mask != 0 {
		t.Errorf("inverted White not stored as cleared bits")
	}
	if got := g.Gray2At(9, 1); got != White {
		t.Errorf("Gray2At() = %v, want White", got)
	}
}

func TestGrayDraw(t *testing.T) {
	g := NewGray(16, 8)

	draw.Draw(g, image.Rect(8, 2, 16, 4), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	want := bytes.Repeat([]byte{0xff}, 16)
	want[5] = 0
	want[7] = 0
	if diff := cmp.Diff(g.Plane1(), want); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}
}

func TestMono(t *testing.T) {
	m := NewMono(16, 8)

	if diff := cmp.Diff(m.Plane1(), bytes.Repeat([]byte{0xff}, 16)); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}

	m.Set(1, 1, color.Black)
	m.Set(2, 1, DarkGray)
	m.Set(0, 0, color.Black)

	if got := m.At(1, 1); got != Black {
		t.Errorf("At(1, 1) = %v, want Black", got)
	}
	if got := m.At(2, 1); got != White {
		t.Errorf("At(2, 1) = %v, want White", got)
	}
	if got := m.At(0, 0); got != White {
		t.Errorf("At(0, 0) = %v, want White", got)
	}
	if m.Plane1()[2] != 0xbf {
		t.Errorf("Plane1()[2] = %#x, want 0xbf", m.Plane1()[2])
	}
	if &m.Plane1()[0] != &m.Plane2()[0] {
		t.Error("Plane2() does not share Plane1()")
	}

	m.Clear(Black)

	if diff := cmp.Diff(m.Plane1(), make([]byte, 16)); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}

	m.Clear(LightGray)

	if diff := cmp.Diff(m.Plane1(), bytes.Repeat([]byte{0xff}, 16)); diff != "" {
		t.Errorf("Plane1() difference (-got +want):\n%s", diff)
	}
}

func TestMonoRotate180(t *testing.T) {
	m := NewMono(16, 8)
	m.SetRotation(Rotate180)

	m.Set(15, 7, color.Black)

	if m.Plane1()[0] != 0x7f {
		t.Errorf("Plane1()[0] = %#x, want 0x7f", m.Plane1()[0])
	}
}
