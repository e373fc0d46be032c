// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"context"
	"net"

	"github.com/coinkit/p2pnode/wire"
)

// Dial connects to addr, starts a Session over the connection with
// localVersion as the handshake's local version message, and returns once
// the version message has been written. It does not wait for the remote
// verack; call WaitOnHandshakeComplete on the returned Session for that.
func Dial(ctx context.Context, addr string, btcnet wire.BitcoinNet, localVersion *wire.MsgVersion, lx *Listeners, opts ...Option) (*Session, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &SessionError{Kind: ErrConnectionFailed}
	}

	s := NewSession(conn, btcnet, lx, opts...)
	if err := s.Start(localVersion); err != nil {
		return nil, err
	}
	return s, nil
}
