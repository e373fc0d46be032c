// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// maxFilterLoadBytes bounds the raw bit array a filterload message may
// carry, matching the sending side's own ceiling on filter size.
const maxFilterLoadBytes = 36000

// BloomUpdateFlag mirrors bloom.UpdateFlag without importing that package,
// keeping wire's dependency graph one-directional.
type BloomUpdateFlag byte

const (
	BloomUpdateNone          BloomUpdateFlag = 0
	BloomUpdateAll           BloomUpdateFlag = 1
	BloomUpdateP2PubkeyOnly  BloomUpdateFlag = 2
)

// MsgFilterLoad installs a Bloom filter on the receiving peer, requesting
// merkleblock replies in place of full blocks for anything it matches.
type MsgFilterLoad struct {
	Filter     []byte
	HashFuncs  uint32
	Tweak      uint32
	UpdateType BloomUpdateFlag
}

func (m *MsgFilterLoad) Command() string { return CmdFilterLoad }

func (m *MsgFilterLoad) SerializeSize() int {
	return VarIntSerializeSize(uint64(len(m.Filter))) + len(m.Filter) + 4 + 4 + 1
}

func (m *MsgFilterLoad) Serialize(buf []byte) []byte {
	buf = AppendVarBytes(buf, m.Filter)
	buf = append(buf,
		byte(m.HashFuncs), byte(m.HashFuncs>>8), byte(m.HashFuncs>>16), byte(m.HashFuncs>>24))
	buf = append(buf,
		byte(m.Tweak), byte(m.Tweak>>8), byte(m.Tweak>>16), byte(m.Tweak>>24))
	return append(buf, byte(m.UpdateType))
}

func (m *MsgFilterLoad) Parse(b []byte) (int, error) {
	filter, n, err := ReadVarBytes(b, maxFilterLoadBytes, "filter")
	if err != nil {
		return 0, err
	}
	off := n

	if len(b)-off < 9 {
		return 0, messageError("MsgFilterLoad.Parse", ErrTruncated, "filter parameters")
	}
	m.Filter = filter
	m.HashFuncs = uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
	off += 4
	m.Tweak = uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
	off += 4
	m.UpdateType = BloomUpdateFlag(b[off])
	off++

	return off, nil
}
