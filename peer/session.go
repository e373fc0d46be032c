// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer drives a single connection through the version/verack
// handshake and then frames, dispatches, and replies to the bitcoin wire
// messages that follow, handing each off to caller-supplied Listeners.
package peer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/coinkit/p2pnode/wire"
)

// State is the session's position in its handshake/established/closed
// lifecycle.
type State int32

const (
	// StateConnecting is the state before the local version message has
	// been sent.
	StateConnecting State = iota

	// StateHandshaking is entered once the local version message is
	// sent; it ends when a verack is received or the handshake times out.
	StateHandshaking

	// StateEstablished is entered on the first inbound verack.
	StateEstablished

	// StateClosed is terminal.
	StateClosed
)

// DispatchMode selects how inbound messages are handed to Listeners.
type DispatchMode int

const (
	// SingleThreaded delivers each message to its listener inline on the
	// reader goroutine; the next frame is not read until the listener
	// returns. This is the default: it gives the caller's handlers a
	// total order over everything the peer sends.
	SingleThreaded DispatchMode = iota

	// Concurrent dispatches each message to its listener on its own
	// goroutine as soon as it is framed, except that tx and block
	// deliveries are mutually exclusive with each other (both share one
	// lock) so a handler that tracks UTXO state doesn't need its own
	// synchronization between the two.
	Concurrent
)

// DefaultHandshakeTimeout bounds how long a session will wait for the
// remote verack before failing the handshake and closing.
const DefaultHandshakeTimeout = 5 * time.Second

// readBufSize is the chunk size used for each raw conn.Read call.
const readBufSize = 4096

// Session drives one peer connection. Create one with NewSession, start the
// handshake with Start, and use WaitOnHandshakeComplete to block until it
// either succeeds or times out.
type Session struct {
	conn   net.Conn
	btcnet wire.BitcoinNet
	lx     *Listeners
	mode   DispatchMode

	handshakeTimeout time.Duration

	stateMu sync.RWMutex
	state   State

	handshakeOnce sync.Once
	handshakeDone chan struct{}
	handshakeErr  error

	closeOnce sync.Once
	closed    chan struct{}

	sendMu sync.Mutex

	txBlockMu sync.Mutex
	wg        sync.WaitGroup
}

// Option configures optional Session behavior at construction time.
type Option func(*Session)

// WithDispatchMode overrides the default SingleThreaded dispatch mode.
func WithDispatchMode(mode DispatchMode) Option {
	return func(s *Session) { s.mode = mode }
}

// WithHandshakeTimeout overrides DefaultHandshakeTimeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(s *Session) { s.handshakeTimeout = d }
}

// NewSession wraps an already-connected conn. The caller still must call
// Start to send the local version message and begin the reader loop.
func NewSession(conn net.Conn, btcnet wire.BitcoinNet, lx *Listeners, opts ...Option) *Session {
	if lx == nil {
		lx = &Listeners{}
	}
	s := &Session{
		conn:             conn,
		btcnet:           btcnet,
		lx:               lx,
		mode:             SingleThreaded,
		handshakeTimeout: DefaultHandshakeTimeout,
		state:            StateConnecting,
		handshakeDone:    make(chan struct{}),
		closed:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the session's current lifecycle position.
func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Start sends the local version message, enters StateHandshaking, and
// launches the reader loop and the handshake watchdog. It returns once the
// version message has been written; it does not wait for the handshake to
// complete, use WaitOnHandshakeComplete for that.
func (s *Session) Start(localVersion *wire.MsgVersion) error {
	if err := s.send(localVersion); err != nil {
		s.closeSession(errnoOf(err))
		return err
	}
	s.setState(StateHandshaking)

	go s.readLoop()
	go s.handshakeWatchdog()
	return nil
}

func (s *Session) handshakeWatchdog() {
	select {
	case <-s.handshakeDone:
	case <-s.closed:
	case <-time.After(s.handshakeTimeout):
		s.completeHandshake(&SessionError{Kind: ErrHandshakeTimeout})
		s.closeSession(0)
	}
}

// WaitOnHandshakeComplete blocks until the remote verack arrives, the
// handshake times out, or ctx is canceled, whichever comes first.
func (s *Session) WaitOnHandshakeComplete(ctx context.Context) error {
	select {
	case <-s.handshakeDone:
		return s.handshakeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) completeHandshake(err error) {
	s.handshakeOnce.Do(func() {
		s.handshakeErr = err
		close(s.handshakeDone)
	})
}

// Done reports the channel that closes when the session shuts down, for
// callers that want to select on it alongside their own work.
func (s *Session) Done() <-chan struct{} { return s.closed }

// WaitForHandlers blocks until every in-flight Concurrent-mode handler
// goroutine has returned. It is a no-op in SingleThreaded mode, where
// delivery is already synchronous. Callers typically call this after Close
// to know it is safe to tear down state the handlers reference.
func (s *Session) WaitForHandlers() { s.wg.Wait() }

// Close shuts the session down from the caller's side with close code 0.
func (s *Session) Close() error {
	s.closeSession(0)
	return nil
}

func (s *Session) closeSession(code int) {
	s.closeOnce.Do(func() {
		s.setState(StateClosed)
		s.conn.Close()
		s.completeHandshake(&SessionError{Kind: ErrConnectionClosed, Code: code})
		close(s.closed)
		if s.lx.OnSocketClosed != nil {
			s.lx.OnSocketClosed(s, code)
		}
	})
}

// send serializes and writes msg, serialized against every other writer on
// this session so outbound messages are never interleaved.
func (s *Session) send(msg wire.Message) error {
	buf := wire.WriteMessage(make([]byte, 0, msg.SerializeSize()+32), s.btcnet, msg)
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	_, err := s.conn.Write(buf)
	return err
}

// AskForBlock requests the full block for hash via getdata.
func (s *Session) AskForBlock(hash wire.Hash256) error {
	gd := wire.NewMsgGetData()
	gd.AddInvVect(wire.InventoryItem{Type: wire.InvTypeBlock, Hash: hash})
	return s.send(gd)
}

// AskForTx requests the full transaction for hash via getdata.
func (s *Session) AskForTx(hash wire.Hash256) error {
	gd := wire.NewMsgGetData()
	gd.AddInvVect(wire.InventoryItem{Type: wire.InvTypeTx, Hash: hash})
	return s.send(gd)
}

// AskForPeers sends getaddr.
func (s *Session) AskForPeers() error {
	return s.send(&wire.MsgGetAddr{})
}

// AskForMempool sends mempool.
func (s *Session) AskForMempool() error {
	return s.send(&wire.MsgMemPool{})
}

// readLoop repeatedly scans the connection's byte stream for the network's
// magic, discarding anything before it, then frames and dispatches one
// message at a time. A per-message parse failure (unknown command,
// checksum mismatch, or a malformed payload) is logged and the loop
// re-synchronizes on the next occurrence of the magic; it never closes the
// session on account of one.
func (s *Session) readLoop() {
	var magicBytes [4]byte
	magicBytes[0] = byte(s.btcnet)
	magicBytes[1] = byte(s.btcnet >> 8)
	magicBytes[2] = byte(s.btcnet >> 16)
	magicBytes[3] = byte(s.btcnet >> 24)

	buf := make([]byte, 0, readBufSize)
	tmp := make([]byte, readBufSize)

	for {
		idx := bytes.Index(buf, magicBytes[:])
		if idx < 0 {
			if len(buf) > len(magicBytes)-1 {
				buf = append(buf[:0], buf[len(buf)-(len(magicBytes)-1):]...)
			}
			n, err := s.conn.Read(tmp)
			if err != nil || n == 0 {
				s.closeSession(errnoOf(err))
				return
			}
			buf = append(buf, tmp[:n]...)
			continue
		}
		if idx > 0 {
			buf = append(buf[:0], buf[idx:]...)
		}

		msg, _, n, err := wire.ReadMessage(buf)
		if err != nil {
			if errors.Is(err, wire.ErrTruncated) {
				nRead, rerr := s.conn.Read(tmp)
				if rerr != nil || nRead == 0 {
					s.closeSession(errnoOf(rerr))
					return
				}
				buf = append(buf, tmp[:nRead]...)
				continue
			}
			if log != nil {
				log.Debugf("peer: dropping malformed message: %v", err)
			}
			if n > 0 {
				buf = append(buf[:0], buf[n:]...)
			} else {
				buf = append(buf[:0], buf[len(magicBytes):]...)
			}
			continue
		}

		buf = append(buf[:0], buf[n:]...)
		s.deliver(msg)
	}
}

// deliver hands msg off according to the session's dispatch mode.
func (s *Session) deliver(msg wire.Message) {
	if s.mode == SingleThreaded {
		s.dispatch(msg)
		return
	}

	s.wg.Add(1)
	cmd := msg.Command()
	if cmd == wire.CmdTx || cmd == wire.CmdBlock {
		go func() {
			defer s.wg.Done()
			s.txBlockMu.Lock()
			defer s.txBlockMu.Unlock()
			s.dispatch(msg)
		}()
		return
	}
	go func() {
		defer s.wg.Done()
		s.dispatch(msg)
	}()
}

// dispatch applies the automatic handshake/getdata behavior and then, if
// the caller wired one up, invokes the matching Listeners callback.
func (s *Session) dispatch(msg wire.Message) {
	switch m := msg.(type) {
	case *wire.MsgVersion:
		s.send(&wire.MsgVerAck{})
		if s.lx.OnVersion != nil {
			s.lx.OnVersion(s, m)
		}

	case *wire.MsgVerAck:
		s.completeHandshake(nil)
		s.setState(StateEstablished)
		if s.lx.OnVerAck != nil {
			s.lx.OnVerAck(s)
		}

	case *wire.MsgAddr:
		if s.lx.OnAddr != nil {
			s.lx.OnAddr(s, m)
		}

	case *wire.MsgInv:
		if s.lx.OnInv != nil {
			s.lx.OnInv(s, m)
		}
		gd := wire.NewMsgGetData()
		for _, it := range m.InvList {
			gd.AddInvVect(it)
		}
		if len(gd.InvList) > 0 {
			s.send(gd)
		}

	case *wire.MsgGetData:
		if s.lx.OnGetData != nil {
			s.lx.OnGetData(s, m)
		}

	case *wire.MsgGetBlocks:
		if s.lx.OnGetBlocks != nil {
			s.lx.OnGetBlocks(s, m)
		}

	case *wire.MsgGetHeaders:
		if s.lx.OnGetHeaders != nil {
			s.lx.OnGetHeaders(s, m)
		}

	case *wire.MsgTx:
		if s.lx.OnTx != nil {
			s.lx.OnTx(s, m)
		}

	case *wire.MsgBlock:
		if s.lx.OnBlock != nil {
			s.lx.OnBlock(s, m)
		}

	case *wire.MsgHeaders:
		if s.lx.OnHeaders != nil {
			s.lx.OnHeaders(s, m)
		}

	case *wire.MsgGetAddr:
		if s.lx.OnGetAddr != nil {
			s.lx.OnGetAddr(s)
		}

	case *wire.MsgMemPool:
		if s.lx.OnMemPool != nil {
			s.lx.OnMemPool(s)
		}

	case *wire.MsgMerkleBlock:
		if s.lx.OnMerkleBlock != nil {
			s.lx.OnMerkleBlock(s, m)
		}

	case *wire.MsgFilterLoad:
		if s.lx.OnFilterLoad != nil {
			s.lx.OnFilterLoad(s, m)
		}
	}
}

// errnoOf extracts a platform errno from err for close reporting, 0 for a
// clean EOF, or -1 when neither applies.
func errnoOf(err error) int {
	if err == nil || errors.Is(err, io.EOF) {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return -1
}
