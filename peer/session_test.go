// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/coinkit/p2pnode/wire"
)

func testLocalVersion() *wire.MsgVersion {
	addr := wire.NetAddress{IP: net.ParseIP("127.0.0.1"), Port: 8333}
	return wire.NewMsgVersion(int32(wire.ProtocolVersion), 0, 1600000000, addr, addr, 1, "/test/", 0, false)
}

// readFramedMessage drains conn until it has read one complete framed
// message, returning the decoded message, or nil if conn errored first.
// Run from a goroutine, so it reports failures with Errorf rather than
// Fatalf: FailNow is only safe to call from the test's own goroutine.
func readFramedMessage(t *testing.T, conn net.Conn) wire.Message {
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		if msg, _, _, err := wire.ReadMessage(buf); err == nil {
			return msg
		}
		n, err := conn.Read(tmp)
		if err != nil {
			t.Errorf("reading scripted peer's inbound message: %v", err)
			return nil
		}
		buf = append(buf, tmp[:n]...)
	}
}

func TestHandshakeCompletes(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	var onVerAckCalled bool
	var mu sync.Mutex
	lx := &Listeners{OnVerAck: func(s *Session) {
		mu.Lock()
		onVerAckCalled = true
		mu.Unlock()
	}}

	s := NewSession(local, wire.MainNet, lx)

	go func() {
		readFramedMessage(t, remote) // the local version message
		remote.Write(wire.WriteMessage(nil, wire.MainNet, &wire.MsgVerAck{}))
	}()

	if err := s.Start(testLocalVersion()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.WaitOnHandshakeComplete(ctx); err != nil {
		t.Fatalf("WaitOnHandshakeComplete: %v", err)
	}
	if s.State() != StateEstablished {
		t.Errorf("state = %v, want StateEstablished", s.State())
	}

	time.Sleep(20 * time.Millisecond) // let the dispatch goroutine's SingleThreaded call land
	mu.Lock()
	defer mu.Unlock()
	if !onVerAckCalled {
		t.Error("OnVerAck listener was not invoked")
	}
}

func TestHandshakeTimeout(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	go readFramedMessage(t, remote) // drain the local version message, reply with nothing

	s := NewSession(local, wire.MainNet, nil, WithHandshakeTimeout(50*time.Millisecond))
	if err := s.Start(testLocalVersion()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.WaitOnHandshakeComplete(ctx)
	if err == nil || !errors.Is(err, ErrHandshakeTimeout) {
		t.Fatalf("WaitOnHandshakeComplete = %v, want ErrHandshakeTimeout", err)
	}

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not close after handshake timeout")
	}
	if s.State() != StateClosed {
		t.Errorf("state = %v, want StateClosed", s.State())
	}
}

func TestOnSocketClosedFiresOnceOnCleanClose(t *testing.T) {
	local, remote := net.Pipe()

	var closeCount int
	var closeCode int
	var mu sync.Mutex
	lx := &Listeners{OnSocketClosed: func(s *Session, code int) {
		mu.Lock()
		closeCount++
		closeCode = code
		mu.Unlock()
	}}

	s := NewSession(local, wire.MainNet, lx)
	go func() {
		readFramedMessage(t, remote)
		remote.Close()
	}()

	if err := s.Start(testLocalVersion()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not observe the remote close")
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if closeCount != 1 {
		t.Errorf("OnSocketClosed fired %d times, want exactly 1", closeCount)
	}
	if closeCode != 0 {
		t.Errorf("close code = %d, want 0 (clean EOF)", closeCode)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	var closeCount int
	var mu sync.Mutex
	lx := &Listeners{OnSocketClosed: func(s *Session, code int) {
		mu.Lock()
		closeCount++
		mu.Unlock()
	}}

	s := NewSession(local, wire.MainNet, lx)
	go readFramedMessage(t, remote)

	if err := s.Start(testLocalVersion()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.Close()
	s.Close()

	mu.Lock()
	defer mu.Unlock()
	if closeCount != 1 {
		t.Errorf("OnSocketClosed fired %d times across two Close calls, want 1", closeCount)
	}
}
