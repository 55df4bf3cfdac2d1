// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1681

import "fmt"

// WaveformSize is the length of a waveform table.
const WaveformSize = 159

// Waveform is a waveform lookup table as uploaded to the controller. It holds
// the voltage and phase timing groups driven during a refresh, the frame
// rate, the gate/source group selection and the VCOM voltage.
type Waveform [WaveformSize]byte

// waveformField describes one register-sized slice of a Waveform.
type waveformField struct {
	name     string
	register byte
	start    int
	end      int
}

// waveformLayout lists the fields in upload order. Together they cover the
// whole table.
var waveformLayout = [...]waveformField{
	{name: "lut", register: writeLUTRegister, start: 0, end: 153},
	{name: "frame rate", register: setFrameRate, start: 153, end: 154},
	{name: "group select", register: setGroupSelect, start: 154, end: 155},
	{name: "group select extension", register: setGroupSelectExt, start: 155, end: 158},
	{name: "vcom", register: writeVCOMRegister, start: 158, end: 159},
}

func (w *Waveform) field(i int) []byte {
	f := &waveformLayout[i]
	return w[f.start:f.end]
}

// LUT returns the voltage and timing groups written to the LUT register.
func (w *Waveform) LUT() []byte {
	return w.field(0)
}

// FrameRate returns the frame rate setting.
func (w *Waveform) FrameRate() byte {
	return w.field(1)[0]
}

// GroupSelect returns the gate group selection byte.
func (w *Waveform) GroupSelect() byte {
	return w.field(2)[0]
}

// GroupSelectExt returns the three source group selection bytes.
func (w *Waveform) GroupSelectExt() []byte {
	return w.field(3)
}

// VCOM returns the VCOM voltage setting.
func (w *Waveform) VCOM() byte {
	return w.field(4)[0]
}

// LUTMode selects the waveform used for refreshing the panel.
type LUTMode uint8

const (
	// Full redraws the whole panel, flashing it in the process.
	Full LUTMode = iota
	// Partial only drives changed pixels. It is fast but leaves ghosting
	// behind and wears the panel when used repeatedly without a full
	// refresh in between.
	Partial
	// Gray4 drives four gray levels from the two RAM buffers. It uses the
	// opposite bit polarity of the other modes; switching into or out of it
	// inverts the framebuffer passed to Dev.SetLUT.
	Gray4
)

func (m LUTMode) String() string {
	switch m {
	case Full:
		return "full"
	case Partial:
		return "partial"
	case Gray4:
		return "gray4"
	}
	return fmt.Sprintf("LUTMode(%d)", uint8(m))
}

// Set sets the LUTMode to a value represented by the string s. Set implements
// the flag.Value interface.
func (m *LUTMode) Set(s string) error {
	switch s {
	case "full":
		*m = Full
	case "partial":
		*m = Partial
	case "gray4":
		*m = Gray4
	default:
		return fmt.Errorf("unknown waveform %q: expected full, partial or gray4", s)
	}
	return nil
}

// Waveform returns the table uploaded for the mode.
func (m LUTMode) Waveform() *Waveform {
	switch m {
	case Partial:
		return &PartialWaveform
	case Gray4:
		return &Gray4Waveform
	}
	return &FullWaveform
}

// FullWaveform is the vendor full refresh waveform.
var FullWaveform = Waveform{
	0x80, 0x48, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x40, 0x48, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x80, 0x48, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x40, 0x48, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x08, 0x01, 0x00, 0x08, 0x01, 0x00, 0x02,
	0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x00, 0x00, 0x00,

	0x22, 0x17, 0x41, 0x00, 0x32, 0x20,
}

// PartialWaveform is the vendor fast partial refresh waveform.
var PartialWaveform = Waveform{
	0x00, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x80, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x40, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	0x0F, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x00, 0x00, 0x00,

	0x02, 0x17, 0x41, 0xB0, 0x32, 0x28,
}

// Gray4Waveform drives four gray levels. From the Good Display GDEY0154D67
// example code.
var Gray4Waveform = Waveform{
	0x40, 0x48, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x08, 0x48, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x48, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x20, 0x48, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	0x0A, 0x19, 0x00, 0x03, 0x08, 0x00, 0x00,
	0x14, 0x01, 0x00, 0x14, 0x01, 0x00, 0x03,
	0x0A, 0x03, 0x00, 0x08, 0x19, 0x00, 0x00,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x00, 0x00, 0x00,

	0x22, 0x17, 0x41, 0x00, 0x32, 0x1C,
}
