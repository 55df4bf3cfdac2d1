// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1681

import (
	"fmt"
	"image"
)

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	repeatData(value byte, count int)
	waitUntilIdle()
}

func initDisplay(ctrl controller) {
	ctrl.sendCommand(swReset)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData([]byte{byte((Height - 1) & 0xFF), byte((Height - 1) >> 8), 0x00})

	useFullFrame(ctrl)

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendData([]byte{borderWaveformFollowLUT | borderWaveformLUT1})

	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendData([]byte{dataEntryIncrementYX})

	ctrl.sendCommand(tempSensorSelect)
	ctrl.sendData([]byte{internalTempSensor})

	ctrl.waitUntilIdle()
}

// setRAMArea limits RAM access to area. Min is the first column and row, Max
// the last ones; columns are addressed in bytes.
func setRAMArea(ctrl controller, area image.Rectangle) {
	if area.Min.X >= area.Max.X || area.Min.Y >= area.Max.Y {
		panic(fmt.Sprintf("ssd1681: invalid RAM area %v", area))
	}

	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{byte(area.Min.X >> 3), byte(area.Max.X >> 3)})

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData([]byte{
		byte(area.Min.Y & 0xFF), byte(area.Min.Y >> 8),
		byte(area.Max.Y & 0xFF), byte(area.Max.Y >> 8),
	})
}

func setRAMCounter(ctrl controller, x, y int) {
	ctrl.sendCommand(setRAMXAddressCounter)
	// x is counted in bytes, the bit position within a byte is dropped.
	ctrl.sendData([]byte{byte(x >> 3)})

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData([]byte{byte(y & 0xFF), byte(y >> 8)})
}

func useFullFrame(ctrl controller) {
	setRAMArea(ctrl, image.Rect(0, 0, Width-1, Height-1))
	setRAMCounter(ctrl, 0, 0)
}

func useWindow(ctrl controller, window image.Rectangle) {
	setRAMArea(ctrl, window)
	setRAMCounter(ctrl, window.Min.X, window.Min.Y)
}

// setLut uploads a waveform. The LUT register write is repeated at the end to
// latch the new table.
func setLut(ctrl controller, w *Waveform) {
	for i := range waveformLayout {
		ctrl.sendCommand(waveformLayout[i].register)
		ctrl.sendData(w.field(i))
		if i == 0 {
			ctrl.waitUntilIdle()
		}
	}

	ctrl.sendCommand(writeLUTRegister)
	ctrl.waitUntilIdle()
}

// turnOnDisplay refreshes the panel from the RAM buffers.
func turnOnDisplay(ctrl controller, mode LUTMode) {
	upMode := displayModeBW
	if mode == Gray4 {
		upMode = displayModeGray4
	}

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{upMode})
	ctrl.sendCommand(masterActivation)
	ctrl.waitUntilIdle()
}

func writeFrame(ctrl controller, cmd byte, buf []byte) {
	useFullFrame(ctrl)
	ctrl.sendCommand(cmd)
	ctrl.sendData(buf)
}

// clearFrame fills a whole RAM buffer. Gray4 uses the opposite polarity.
func clearFrame(ctrl controller, cmd byte, mode LUTMode) {
	var color byte
	if mode == Gray4 {
		color = 0xFF
	}

	useFullFrame(ctrl)
	ctrl.sendCommand(cmd)
	ctrl.repeatData(color, Width/8*Height)
}

func deepSleep(ctrl controller) {
	ctrl.sendCommand(deepSleepMode)
	ctrl.sendData([]byte{deepSleepMode1})
}
