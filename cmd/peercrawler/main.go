// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// peercrawler dials a single remote peer, completes the version/verack
// handshake, and logs the addr and inv traffic it receives.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btclog"

	"github.com/coinkit/p2pnode/peer"
	"github.com/coinkit/p2pnode/wire"
)

var (
	addrFlag      = flag.String("addr", "127.0.0.1:8333", "Remote peer address (host:port)")
	netFlag       = flag.String("net", "mainnet", "Network (mainnet, testnet3, simnet)")
	timeoutFlag   = flag.Duration("handshake-timeout", 5*time.Second, "Handshake timeout")
	getAddrOnConn = flag.Bool("getaddr", true, "Send getaddr once the handshake completes")
)

func netFromFlag(name string) (wire.BitcoinNet, error) {
	switch name {
	case "mainnet":
		return wire.MainNet, nil
	case "testnet3":
		return wire.TestNet3, nil
	case "simnet":
		return wire.SimNet, nil
	default:
		return 0, fmt.Errorf("unknown network %q", name)
	}
}

func main() {
	flag.Parse()

	backend := btclog.NewBackend(os.Stdout)
	log := backend.Logger("XWLR")
	log.SetLevel(btclog.LevelInfo)
	peer.UseLogger(log)

	btcnet, err := netFromFlag(*netFlag)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	fmt.Println("Peer Crawler")
	fmt.Println("============")
	fmt.Printf("Dialing %s on %s...\n", *addrFlag, btcnet)

	lx := &peer.Listeners{
		OnVerAck: func(s *peer.Session) {
			log.Infof("handshake complete with %s", *addrFlag)
			if *getAddrOnConn {
				if err := s.AskForPeers(); err != nil {
					log.Warnf("getaddr: %v", err)
				}
			}
		},
		OnAddr: func(s *peer.Session, msg *wire.MsgAddr) {
			log.Infof("received %d address(es) from %s", len(msg.AddrList), *addrFlag)
			for _, na := range msg.AddrList {
				fmt.Printf("  %s\n", net.JoinHostPort(na.IP.String(), fmt.Sprintf("%d", na.Port)))
			}
		},
		OnInv: func(s *peer.Session, msg *wire.MsgInv) {
			log.Infof("received %d inventory item(s) from %s", len(msg.InvList), *addrFlag)
			for _, item := range msg.InvList {
				fmt.Printf("  %s %s\n", invTypeName(item.Type), item.Hash)
			}
		},
		OnSocketClosed: func(s *peer.Session, code int) {
			log.Infof("connection to %s closed (code=%d)", *addrFlag, code)
		},
	}

	localAddr := wire.NetAddress{IP: net.ParseIP("0.0.0.0"), Port: 0}
	localVersion := wire.NewMsgVersion(
		int32(wire.ProtocolVersion), uint64(wire.SFNodeNetwork), time.Now().Unix(),
		localAddr, localAddr, randomNonce(), "/peercrawler:0.1.0/", 0, true,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := peer.Dial(ctx, *addrFlag, btcnet, localVersion, lx, peer.WithHandshakeTimeout(*timeoutFlag))
	if err != nil {
		log.Errorf("dial: %v", err)
		os.Exit(1)
	}

	handshakeCtx, handshakeCancel := context.WithTimeout(context.Background(), *timeoutFlag+time.Second)
	defer handshakeCancel()
	if err := s.WaitOnHandshakeComplete(handshakeCtx); err != nil {
		log.Errorf("handshake: %v", err)
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	fmt.Println("Connected. Press Ctrl+C to disconnect.")

	select {
	case <-interrupt:
		fmt.Println("\nInterrupted, closing connection...")
		s.Close()
	case <-s.Done():
		fmt.Println("Peer closed the connection.")
	}
}

func invTypeName(t wire.InvType) string {
	switch t {
	case wire.InvTypeTx:
		return "tx"
	case wire.InvTypeBlock:
		return "block"
	default:
		return "unknown"
	}
}

func randomNonce() uint64 {
	return uint64(time.Now().UnixNano())
}
