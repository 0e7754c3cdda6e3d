// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build http

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/seqs/stacks"

	"github.com/kortschak/ledwave/wifi"
)

const useHTTP = true

var cyw43439Config = cyw43439.DefaultWifiBluetoothConfig()

// httpServer serves read-only diagnostics: the current status, the log
// stream and the log level.
func (d *device) httpServer(ctx context.Context) error {
	stack, err := wifi.Setup(ctx, d.dev, wifi.Config{
		Hostname: "ledwave",
		TCPPorts: 1,
	}, d.log)
	if err != nil {
		return fmt.Errorf("failed to set up network: %w", err)
	}

	const tcpBufLen = 2048 // Half a page each direction.
	ln, err := stacks.NewTCPListener(stack, stacks.TCPListenerConfig{
		MaxConnections: 2,
		ConnTxBufSize:  tcpBufLen,
		ConnRxBufSize:  tcpBufLen,
	})
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	const port = 80
	err = ln.StartListening(port)
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}

	addr := netip.AddrPortFrom(stack.Addr(), port)
	d.log.LogAttrs(ctx, slog.LevelInfo, "listening", slog.String("addr", "http://"+addr.String()))
	mux := http.NewServeMux()
	mux.Handle("/status/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Connection", "close")
		fmt.Fprintln(w, d.ctrl.State.Snapshot())
	}))
	mux.Handle("/log_at/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.log.LogAttrs(ctx, slog.LevelInfo, "set log level request")
		w.Header().Set("Connection", "close")
		err := d.level.UnmarshalText([]byte(r.URL.Query().Get("level")))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, err)
			return
		}
		d.log.LogAttrs(ctx, slog.LevelInfo, "request level", slog.Any("level", d.level.Level()))
		w.Write([]byte("ok"))
	}))
	mux.Handle("/log/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.log.LogAttrs(ctx, slog.LevelInfo, "get log")
		w.Header().Set("Connection", "Keep-Alive")
		w.Header().Set("Transfer-Encoding", "chunked")
		d.sw.use(w)
		defer d.sw.close()
		select {
		case <-ctx.Done():
		case <-time.After(10 * time.Minute):
		}
	}))
	return http.Serve(ln, mux)
}
