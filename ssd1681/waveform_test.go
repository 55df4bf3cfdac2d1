// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1681

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWaveformLayout(t *testing.T) {
	next := 0
	for _, f := range waveformLayout {
		if f.start != next {
			t.Errorf("%s starts at %d, want %d", f.name, f.start, next)
		}
		if f.end <= f.start {
			t.Errorf("%s is empty: [%d, %d)", f.name, f.start, f.end)
		}
		next = f.end
	}
	if next != WaveformSize {
		t.Errorf("layout ends at %d, want %d", next, WaveformSize)
	}
}

func TestWaveformFields(t *testing.T) {
	for _, tc := range []struct {
		name           string
		w              *Waveform
		frameRate      byte
		groupSelect    byte
		groupSelectExt []byte
		vcom           byte
	}{
		{
			name:           "full",
			w:              &FullWaveform,
			frameRate:      0x22,
			groupSelect:    0x17,
			groupSelectExt: []byte{0x41, 0x00, 0x32},
			vcom:           0x20,
		},
		{
			name:           "partial",
			w:              &PartialWaveform,
			frameRate:      0x02,
			groupSelect:    0x17,
			groupSelectExt: []byte{0x41, 0xb0, 0x32},
			vcom:           0x28,
		},
		{
			name:           "gray4",
			w:              &Gray4Waveform,
			frameRate:      0x22,
			groupSelect:    0x17,
			groupSelectExt: []byte{0x41, 0x00, 0x32},
			vcom:           0x1c,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(tc.w.LUT()); got != 153 {
				t.Errorf("len(LUT()) = %d, want 153", got)
			}
			if got := tc.w.FrameRate(); got != tc.frameRate {
				t.Errorf("FrameRate() = %#x, want %#x", got, tc.frameRate)
			}
			if got := tc.w.GroupSelect(); got != tc.groupSelect {
				t.Errorf("GroupSelect() = %#x, want %#x", got, tc.groupSelect)
			}
			if diff := cmp.Diff(tc.w.GroupSelectExt(), tc.groupSelectExt); diff != "" {
				t.Errorf("GroupSelectExt() difference (-got +want):\n%s", diff)
			}
			if got := tc.w.VCOM(); got != tc.vcom {
				t.Errorf("VCOM() = %#x, want %#x", got, tc.vcom)
			}
		})
	}
}

func TestLUTMode(t *testing.T) {
	for _, tc := range []struct {
		s    string
		want LUTMode
		w    *Waveform
	}{
		{s: "full", want: Full, w: &FullWaveform},
		{s: "partial", want: Partial, w: &PartialWaveform},
		{s: "gray4", want: Gray4, w: &Gray4Waveform},
	} {
		var m LUTMode
		if err := m.Set(tc.s); err != nil {
			t.Fatalf("Set(%q) failed: %v", tc.s, err)
		}
		if m != tc.want {
			t.Errorf("Set(%q) = %v, want %v", tc.s, m, tc.want)
		}
		if got := m.String(); got != tc.s {
			t.Errorf("String() = %q, want %q", got, tc.s)
		}
		if m.Waveform() != tc.w {
			t.Errorf("%v.Waveform() returned the wrong table", m)
		}
	}

	var m LUTMode
	if err := m.Set("fast"); err == nil {
		t.Error("Set(\"fast\") succeeded")
	}
	if got := LUTMode(7).String(); got != "LUTMode(7)" {
		t.Errorf("String() = %q", got)
	}
}
