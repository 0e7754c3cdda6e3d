// MIT License
//
// Copyright (c) 2022 Patricio Whittingslow
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package wifi joins the configured wireless network and provides a
// TCP/IP stack over the CYW43439.
package wifi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"time"

	_ "embed"

	"github.com/soypat/cyw43439"
	"github.com/soypat/seqs/eth/dhcp"
	"github.com/soypat/seqs/stacks"
)

var (
	//go:embed ssid.text
	ssid string
	//go:embed password.text
	pass string
)

const mtu = cyw43439.MTU

// Config is the network stack configuration.
type Config struct {
	// Hostname is the DHCP requested hostname.
	Hostname string
	// RequestedIP is the DHCP requested IP address. It is used
	// as a static address if DHCP does not complete.
	RequestedIP string
	// UDPPorts is the number of UDP ports to open in addition
	// to the DHCP client port.
	UDPPorts uint16
	// TCPPorts is the number of TCP ports to open.
	TCPPorts uint16
}

var nolog = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.Level(127),
}))

// Setup joins the network, starts packet handling and obtains an address
// by DHCP. Joining is retried until ctx is cancelled.
func Setup(ctx context.Context, dev *cyw43439.Device, cfg Config, log *slog.Logger) (*stacks.PortStack, error) {
	if log == nil {
		log = nolog
	}
	var static netip.Addr
	if cfg.RequestedIP != "" {
		var err error
		static, err = netip.ParseAddr(cfg.RequestedIP)
		if err != nil {
			return nil, err
		}
	}

	err := join(ctx, dev, log)
	if err != nil {
		return nil, err
	}
	mac, err := dev.HardwareAddr6()
	if err != nil {
		return nil, err
	}
	log.LogAttrs(ctx, slog.LevelInfo, "joined wifi", slog.String("mac", net.HardwareAddr(mac[:]).String()))

	stack := stacks.NewPortStack(stacks.PortStackConfig{
		MAC:             mac,
		MaxOpenPortsUDP: int(cfg.UDPPorts) + 1,
		MaxOpenPortsTCP: int(cfg.TCPPorts),
		MTU:             mtu,
		Logger:          log,
	})
	dev.RecvEthHandle(stack.RecvEth)
	go nicLoop(dev, stack)

	addr, err := lease(ctx, stack, cfg.Hostname, static, log)
	if err != nil {
		return stack, err
	}
	stack.SetAddr(addr)
	return stack, nil
}

func join(ctx context.Context, dev *cyw43439.Device, log *slog.Logger) error {
	if pass == "" {
		log.LogAttrs(ctx, slog.LevelInfo, "joining open network", slog.String("ssid", ssid))
	} else {
		log.LogAttrs(ctx, slog.LevelInfo, "joining WPA secure network", slog.String("ssid", ssid))
	}
	for {
		err := dev.JoinWPA2(ssid, pass)
		if err == nil {
			return nil
		}
		log.LogAttrs(ctx, slog.LevelError, "failed to join wifi", slog.Any("err", err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

// lease returns the address offered by DHCP, or static if DHCP does not
// complete within about eight seconds.
func lease(ctx context.Context, stack *stacks.PortStack, hostname string, static netip.Addr, log *slog.Logger) (netip.Addr, error) {
	client := stacks.NewDHCPClient(stack, dhcp.DefaultClientPort)
	err := client.BeginRequest(stacks.DHCPRequestConfig{
		RequestedAddr: static,
		Xid:           uint32(time.Now().Nanosecond()),
		Hostname:      hostname,
	})
	if err != nil {
		return netip.Addr{}, fmt.Errorf("dhcp begin request: %w", err)
	}
	for range 16 {
		if client.State() == dhcp.StateBound {
			addr := client.Offer()
			log.LogAttrs(ctx, slog.LevelInfo, "DHCP complete",
				slog.String("addr", addr.String()),
				slog.String("gateway", client.Gateway().String()),
				slog.Duration("lease", client.IPLeaseTime()),
			)
			return addr, nil
		}
		log.LogAttrs(ctx, slog.LevelDebug, "DHCP ongoing")
		time.Sleep(time.Second / 2)
	}
	if !static.IsValid() {
		return netip.Addr{}, errors.New("DHCP did not complete and no static IP was requested")
	}
	log.LogAttrs(ctx, slog.LevelInfo, "DHCP did not complete, assigning static IP", slog.String("addr", static.String()))
	return static, nil
}

// nicLoop moves packets between the device and the stack.
func nicLoop(dev *cyw43439.Device, stack *stacks.PortStack) {
	const (
		queueSize   = 3
		maxAttempts = 3
	)
	var (
		queue    [queueSize][mtu]byte
		lens     [queueSize]int
		attempts [queueSize]int
	)
	for {
		gotPacket, err := dev.PollOne()
		if err != nil {
			println("poll error:", err.Error())
		}

		for i := range queue {
			if attempts[i] != 0 {
				continue // Awaiting retransmission.
			}
			lens[i], err = stack.HandleEth(queue[i][:])
			if err != nil {
				println("stack error:", err.Error())
				lens[i] = 0
				continue
			}
			if lens[i] == 0 {
				break
			}
		}
		if lens == [queueSize]int{} {
			if !gotPacket {
				time.Sleep(51 * time.Millisecond)
			}
			continue
		}

		for i, n := range lens {
			if n <= 0 {
				continue
			}
			err := dev.SendEth(queue[i][:n])
			if err != nil {
				attempts[i]++
				if attempts[i] <= maxAttempts {
					continue
				}
				println("dropped outgoing packet:", err.Error())
			}
			lens[i] = 0
			attempts[i] = 0
		}
	}
}
