// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "embed"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/ledwave/ledctl"
)

//go:embed advertise_name.text
var name string

// HM-10 compatible UART service.
const (
	serviceUUID = "0000ffe0-0000-1000-8000-00805f9b34fb"
	commandUUID = "0000ffe1-0000-1000-8000-00805f9b34fb"
)

// bluetoothServer registers the command service, directing link and write
// notifications to h, and starts advertising. The returned advertisement
// is used to re-arm advertising after a peer disconnects.
func (d *device) bluetoothServer(ctx context.Context, h ledctl.Handler) (*bluetooth.Advertisement, error) {
	svc, err := bluetooth.ParseUUID(serviceUUID)
	if err != nil {
		return nil, err
	}
	cmd, err := bluetooth.ParseUUID(commandUUID)
	if err != nil {
		return nil, err
	}

	adapter := bluetooth.DefaultAdapter
	adapter.Use(d.dev)
	adapter.SetConnectHandler(func(_ bluetooth.Device, connected bool) {
		h.LinkChanged(connected)
	})

	var (
		char     bluetooth.Characteristic
		charData [1]byte
	)
	err = adapter.AddService(&bluetooth.Service{
		UUID: svc,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &char,
				UUID:   cmd,
				Value:  charData[:],
				// Notify is advertised for client compatibility;
				// nothing is ever sent.
				Flags: bluetooth.CharacteristicReadPermission |
					bluetooth.CharacteristicWritePermission |
					bluetooth.CharacteristicWriteWithoutResponsePermission |
					bluetooth.CharacteristicNotifyPermission,
				WriteEvent: func(_ bluetooth.Connection, offset int, value []byte) {
					if offset != 0 || len(value) == 0 {
						return
					}
					charData[0] = value[0]
					h.DataReceived(value)
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("add service: %w", err)
	}

	adv := adapter.DefaultAdvertisement()
	err = adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    strings.TrimSpace(name),
		ServiceUUIDs: []bluetooth.UUID{svc},
	})
	if err != nil {
		return nil, fmt.Errorf("configure advertising: %w", err)
	}
	err = adv.Start()
	if err != nil {
		return nil, fmt.Errorf("start advertising: %w", err)
	}
	d.log.LogAttrs(ctx, slog.LevelInfo, "advertising", slog.String("name", strings.TrimSpace(name)), slog.String("service", serviceUUID))
	return adv, nil
}
