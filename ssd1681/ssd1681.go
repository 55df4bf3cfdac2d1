// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1681

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/GermanBionicSystems/epaper/ssd1681/image2bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// Panel size in pixels.
const (
	Width  = 200
	Height = 200
)

// Commands
const (
	driverOutputControl            byte = 0x01
	setGroupSelect                 byte = 0x03
	setGroupSelectExt              byte = 0x04
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	tempSensorSelect               byte = 0x18
	masterActivation               byte = 0x20
	displayUpdateControl2          byte = 0x22
	writeRAMBuffer1                byte = 0x24
	writeRAMBuffer2                byte = 0x26
	writeVCOMRegister              byte = 0x2C
	writeLUTRegister               byte = 0x32
	borderWaveformControl          byte = 0x3C
	setFrameRate                   byte = 0x3F
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
)

// Command arguments
const (
	dataEntryIncrementYX    byte = 0b11
	internalTempSensor      byte = 0x80
	borderWaveformFollowLUT byte = 0b0100
	borderWaveformLUT1      byte = 0b0001
	displayModeBW           byte = 0xF7
	displayModeGray4        byte = 0xC7
	deepSleepMode1          byte = 0x01
)

const (
	defaultMaxTxSize = 4096
	// DefaultBusyTimeout bounds a single wait for the busy line when
	// Opts.BusyTimeout is zero.
	DefaultBusyTimeout = 10 * time.Second
)

// Delayer pauses the caller for a duration. A returned error aborts the
// sequence that requested the delay.
type Delayer interface {
	Delay(d time.Duration) error
}

// DelayFunc adapts a function to the Delayer interface.
type DelayFunc func(d time.Duration) error

// Delay implements Delayer.
func (f DelayFunc) Delay(d time.Duration) error {
	return f(d)
}

var sleepDelay = DelayFunc(func(d time.Duration) error {
	time.Sleep(d)
	return nil
})

// Opts defines the options for the device.
type Opts struct {
	// BusyTimeout bounds each wait for the controller to release its busy
	// line. Zero selects DefaultBusyTimeout.
	BusyTimeout time.Duration
	// Delay is used for the reset pulse and busy polling. Nil uses
	// time.Sleep.
	Delay Delayer
	// Rotation of the device framebuffer.
	Rotation image2bit.Rotation
}

// Inverter is implemented by framebuffers that can flip their bit polarity.
// *image2bit.Gray implements it.
type Inverter interface {
	Invert()
}

// Planes is implemented by framebuffers holding the content of both RAM
// buffers. *image2bit.Gray and *image2bit.Mono implement it.
type Planes interface {
	Plane1() []byte
	Plane2() []byte
}

// Dev is a handle to an SSD1681 controller.
//
// Dev is not safe for concurrent use.
type Dev struct {
	c         conn.Conn
	maxTxSize int

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	delay       Delayer
	busyTimeout time.Duration
	maxPolls    int

	lut       LUTMode
	window    image.Rectangle
	hasWindow bool
	buffer    *image2bit.Gray
}

// New opens a handle to an SSD1681 controller and initializes it.
//
// cs may be nil when the SPI port drives chip select itself. busy is
// configured as an input. opts may be nil.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, err
	}

	maxTxSize := defaultMaxTxSize
	if l, ok := c.(conn.Limits); ok {
		if s := l.MaxTxSize(); s > 0 {
			maxTxSize = s
		}
	}

	busyTimeout := opts.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	maxPolls := int(busyTimeout / pollInterval)
	if maxPolls < 1 {
		maxPolls = 1
	}

	delay := opts.Delay
	if delay == nil {
		delay = sleepDelay
	}

	if cs == gpio.INVALID {
		cs = nil
	}

	d := &Dev{
		c:           c,
		maxTxSize:   maxTxSize,
		dc:          dc,
		cs:          cs,
		rst:         rst,
		busy:        busy,
		delay:       delay,
		busyTimeout: busyTimeout,
		maxPolls:    maxPolls,
		buffer:      image2bit.NewGray(Width, Height),
	}
	d.buffer.SetRotation(opts.Rotation)

	if err := d.Init(); err != nil {
		return nil, err
	}

	return d, nil
}

// NewHat opens a handle to a controller wired like the Waveshare e-Paper HAT
// on a Raspberry Pi header.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init resets and configures the controller. It is needed after Sleep.
//
// The controller keeps its built-in waveform until SetLUT is called; the
// recorded mode is Full and no window is set. Leaving Gray4 this way restores
// the polarity of the framebuffer returned by Framebuffer; other framebuffers
// inverted through SetLUT must be inverted back by the caller.
func (d *Dev) Init() error {
	eh := errorHandler{d: d}

	eh.reset()
	initDisplay(&eh)
	if eh.err != nil {
		return eh.err
	}

	if d.lut == Gray4 && d.buffer.Inverted() {
		d.buffer.Invert()
	}
	d.lut = Full
	d.window = image.Rectangle{}
	d.hasWindow = false
	return nil
}

// SetLUT uploads the waveform for mode.
//
// Switching into or out of Gray4 inverts fb, which may be nil. The mode is
// only recorded once the upload succeeded; on failure fb is restored.
func (d *Dev) SetLUT(mode LUTMode, fb Inverter) error {
	invert := fb != nil && (d.lut == Gray4) != (mode == Gray4)
	if invert {
		fb.Invert()
	}

	eh := errorHandler{d: d}
	setLut(&eh, mode.Waveform())
	if eh.err != nil {
		if invert {
			fb.Invert()
		}
		return eh.err
	}

	d.lut = mode
	return nil
}

// LUT returns the active waveform mode.
func (d *Dev) LUT() LUTMode {
	return d.lut
}

// UpdateFrame1 writes buf to RAM buffer 1. The RAM window is reset to the
// full frame.
func (d *Dev) UpdateFrame1(buf []byte) error {
	eh := errorHandler{d: d}
	writeFrame(&eh, writeRAMBuffer1, buf)
	return eh.err
}

// UpdateFrame2 writes buf to RAM buffer 2. The RAM window is reset to the
// full frame.
func (d *Dev) UpdateFrame2(buf []byte) error {
	eh := errorHandler{d: d}
	writeFrame(&eh, writeRAMBuffer2, buf)
	return eh.err
}

// UpdateFrames writes both planes of fb.
func (d *Dev) UpdateFrames(fb Planes) error {
	if err := d.UpdateFrame1(fb.Plane1()); err != nil {
		return err
	}
	return d.UpdateFrame2(fb.Plane2())
}

// SetWindow restricts RAM access to r. r.Min is the first and r.Max the last
// column and row; both must be strictly increasing or SetWindow panics.
//
// The window is only recorded once the controller accepted it.
func (d *Dev) SetWindow(r image.Rectangle) error {
	eh := errorHandler{d: d}
	useWindow(&eh, r)
	if eh.err != nil {
		return eh.err
	}
	d.window = r
	d.hasWindow = true
	return nil
}

// UnsetWindow restores full frame RAM access.
func (d *Dev) UnsetWindow() error {
	eh := errorHandler{d: d}
	useFullFrame(&eh)
	if eh.err != nil {
		return eh.err
	}
	d.window = image.Rectangle{}
	d.hasWindow = false
	return nil
}

// Window returns the window set by SetWindow, if any.
func (d *Dev) Window() (image.Rectangle, bool) {
	return d.window, d.hasWindow
}

// DisplayFrame refreshes the panel from the whole RAM.
func (d *Dev) DisplayFrame() error {
	eh := errorHandler{d: d}
	useFullFrame(&eh)
	turnOnDisplay(&eh, d.lut)
	return eh.err
}

// DisplayWindow refreshes the panel without changing the RAM window.
func (d *Dev) DisplayWindow() error {
	eh := errorHandler{d: d}
	turnOnDisplay(&eh, d.lut)
	return eh.err
}

// ClearFrame1 fills RAM buffer 1 with the clear value of the active mode.
func (d *Dev) ClearFrame1() error {
	eh := errorHandler{d: d}
	clearFrame(&eh, writeRAMBuffer1, d.lut)
	return eh.err
}

// ClearFrame2 fills RAM buffer 2 with the clear value of the active mode.
func (d *Dev) ClearFrame2() error {
	eh := errorHandler{d: d}
	clearFrame(&eh, writeRAMBuffer2, d.lut)
	return eh.err
}

// ClearFrames clears both RAM buffers.
func (d *Dev) ClearFrames() error {
	if err := d.ClearFrame1(); err != nil {
		return err
	}
	return d.ClearFrame2()
}

// Framebuffer returns the image used by Draw.
func (d *Dev) Framebuffer() *image2bit.Gray {
	return d.buffer
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image2bit.Palette
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw implements display.Drawer.
//
// src is drawn into the framebuffer, both planes are written to the
// controller and the panel is refreshed with the active waveform. When a
// window is set only the window is refreshed.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(d.buffer, dstRect, src, sp)

	if err := d.UpdateFrames(d.buffer); err != nil {
		return err
	}
	if d.hasWindow {
		eh := errorHandler{d: d}
		useWindow(&eh, d.window)
		turnOnDisplay(&eh, d.lut)
		return eh.err
	}
	return d.DisplayFrame()
}

// Sleep enters deep sleep mode. Call Init to wake the controller.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: d}
	deepSleep(&eh)
	return eh.err
}

// Halt clears the panel and puts the controller to sleep.
func (d *Dev) Halt() error {
	if err := d.ClearFrames(); err != nil {
		return err
	}
	if err := d.DisplayFrame(); err != nil {
		return err
	}
	return d.Sleep()
}

// String returns the name of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1681.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, Width, Height)
}

var _ display.Drawer = &Dev{}
