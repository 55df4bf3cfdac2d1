// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1681

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	resetDelay   = 10 * time.Millisecond
	pollInterval = 10 * time.Millisecond
)

// errorHandler is a wrapper for error management.
//
// The first failure is kept and every later call becomes a no-op, so a whole
// command sequence can be written without checks and the error read once at
// the end.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

// csOut is a no-op when chip select is handled by the SPI port.
func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil || eh.d.cs == nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) delay(d time.Duration) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.delay.Delay(d)
}

// reset pulses the reset line.
func (eh *errorHandler) reset() {
	eh.rstOut(gpio.Low)
	eh.delay(resetDelay)
	eh.rstOut(gpio.High)
	eh.delay(resetDelay)
}

// waitUntilIdle polls the busy line until the controller releases it or the
// device timeout expires.
func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	for polls := 0; eh.d.busy.Read() == gpio.High; polls++ {
		if polls >= eh.d.maxPolls {
			eh.err = fmt.Errorf("%w after %v", ErrBusyTimeout, eh.d.busyTimeout)
			return
		}
		eh.delay(pollInterval)
		if eh.err != nil {
			return
		}
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd}, nil)
	eh.csOut(gpio.High)
}

// sendData writes data in transfers no larger than the connection allows.
func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil || len(data) == 0 {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	for len(data) > 0 && eh.err == nil {
		n := len(data)
		if n > eh.d.maxTxSize {
			n = eh.d.maxTxSize
		}
		eh.cTx(data[:n], nil)
		data = data[n:]
	}
	eh.csOut(gpio.High)
}

// repeatData writes count copies of value.
func (eh *errorHandler) repeatData(value byte, count int) {
	if eh.err != nil || count <= 0 {
		return
	}

	n := count
	if n > eh.d.maxTxSize {
		n = eh.d.maxTxSize
	}
	chunk := make([]byte, n)
	for i := range chunk {
		chunk[i] = value
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	for count > 0 && eh.err == nil {
		n := len(chunk)
		if n > count {
			n = count
		}
		eh.cTx(chunk[:n], nil)
		count -= n
	}
	eh.csOut(gpio.High)
}
