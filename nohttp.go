// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !http

package main

import (
	"context"

	"github.com/soypat/cyw43439"
)

const useHTTP = false

var cyw43439Config = cyw43439.DefaultBluetoothConfig()

func (d *device) httpServer(context.Context) error { return nil }
