// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper is a container for e-paper display drivers built on
// periph.io.
//
// ssd1681 drives 200x200 SSD1681 panels, ssd1681/image2bit provides their
// bit-plane framebuffers and screen2d previews images in a terminal.
package epaper
