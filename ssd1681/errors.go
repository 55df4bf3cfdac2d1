// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1681

import "errors"

// ErrBusyTimeout is returned when the controller keeps its busy line high for
// longer than Opts.BusyTimeout.
var ErrBusyTimeout = errors.New("ssd1681: busy timeout")
