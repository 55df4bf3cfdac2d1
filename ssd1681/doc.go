// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1681 controls 200x200 e-paper panels driven by a Solomon Systech
// SSD1681 controller, such as the 1.54" modules sold by Adafruit, Waveshare
// and Good Display.
//
// The controller has two RAM buffers. In black and white mode buffer 1 holds
// the image and buffer 2 the previous one, used by partial refreshes. In
// Gray4 mode the two buffers together encode four gray levels; see package
// image2bit for the framebuffer that produces both planes.
//
// Datasheet
//
// https://www.good-display.com/companyfile/101.html
//
// Product pages:
//
// https://www.adafruit.com/product/4196
//
// https://www.waveshare.com/wiki/1.54inch_e-Paper_Module_(B)
//
package ssd1681
