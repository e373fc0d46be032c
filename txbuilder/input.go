// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"crypto/sha256"

	"github.com/coinkit/p2pnode/txscript"
	"github.com/coinkit/p2pnode/wire"
	"golang.org/x/crypto/ripemd160"
)

// Kind identifies the recognized shape of an input's spending condition.
type Kind int

const (
	// PayToAddress spends a pay-to-pubkey-hash output: scriptSig is
	// exactly [signature, publicKey], a missing signature represented
	// by an empty push.
	PayToAddress Kind = iota

	// MofN spends a bare multisig redeem script, whether the
	// predecessor output held the redeem script directly or wrapped it
	// in pay-to-script-hash.
	MofN

	// OpaqueP2SH spends a pay-to-script-hash output whose redeem script
	// did not parse as bare multisig; it is held as an uninterpreted
	// redeem script plus an uninterpreted signature-push list.
	OpaqueP2SH
)

// ScriptMode selects which of the three scriptSig forms an Input emits.
type ScriptMode int

const (
	// SignMode is the scriptSig substituted during hash computation
	// when signing an input: the predecessor's scriptPubKey for
	// PayToAddress, the redeem script alone for MofN/P2SH.
	SignMode ScriptMode = iota

	// EditMode always reserves every signature slot, pushing an empty
	// byte string where a signature is still missing, so the scriptSig
	// has a stable shape a co-signer can add to.
	EditMode

	// BroadcastMode is the canonical final form: empty signature slots
	// are omitted entirely.
	BroadcastMode
)

// MissingSigReport describes the signatures an input still needs.
type MissingSigReport struct {
	InputIndex              int
	MinSigsStillNeeded      int
	PubKeysWithoutSignature [][]byte
}

// Input is one builder input: its predecessor reference plus whichever of
// the typed fields its Kind uses.
type Input struct {
	Kind             Kind
	PreviousOutPoint wire.OutPoint
	Sequence         uint32

	// PayToAddress fields.
	PubKey    []byte
	Signature []byte // full DER signature + trailing sighash byte; nil if unsigned

	// MofN / OpaqueP2SH fields.
	RedeemScript []byte
	PubKeysList  [][]byte
	Signatures   [][]byte // parallel to PubKeysList for MofN; arbitrary order for OpaqueP2SH
	RequiredSigs int
}

// recognizeInput classifies an existing scriptSig by the shape of its pushes
// alone, in the order PayToAddress, MofN, P2SH, matching the reference
// client's own input recognizer. The predecessor's scriptPubKey is not
// consulted.
func recognizeInput(prevOut wire.OutPoint, sequence uint32, scriptSig []byte) (*Input, error) {
	pushes, ok := parsePushes(scriptSig)
	if !ok {
		return nil, ErrUnrecognizedInput
	}

	// PayToAddress: exactly two pushes, [signature, publicKey].
	if len(pushes) == 2 {
		return &Input{
			Kind:             PayToAddress,
			PreviousOutPoint: prevOut,
			Sequence:         sequence,
			Signature:        pushes[0],
			PubKey:           pushes[1],
		}, nil
	}

	// MofN (bare multisig): OP_0, one or more signature pushes, and a
	// trailing redeem-script push. The leading OP_0 absorbs a well-known
	// off-by-one bug in the reference script interpreter's
	// OP_CHECKMULTISIG and carries no meaning of its own.
	if len(pushes) >= 3 && pushes[0] == nil {
		redeem := pushes[len(pushes)-1]
		details, err := txscript.ExtractMultiSig(redeem)
		if err != nil {
			return nil, ErrInvalidRedeemScript
		}
		sigs := pushes[1 : len(pushes)-1]
		return newMofNInput(prevOut, sequence, redeem, details, sigs)
	}

	// P2SH: any other shape, with the final push as the redeem script.
	if len(pushes) >= 1 {
		redeem := pushes[len(pushes)-1]
		if details, err := txscript.ExtractMultiSig(redeem); err == nil {
			sigs := pushes[:len(pushes)-1]
			return newMofNInput(prevOut, sequence, redeem, details, sigs)
		}
		return &Input{
			Kind:             OpaqueP2SH,
			PreviousOutPoint: prevOut,
			Sequence:         sequence,
			RedeemScript:     redeem,
			Signatures:       append([][]byte(nil), pushes[:len(pushes)-1]...),
		}, nil
	}

	return nil, ErrUnrecognizedInput
}

// newMofNInput aligns sigs (in the order they were pushed, empty pushes for
// missing slots) against the redeem script's public keys.
func newMofNInput(prevOut wire.OutPoint, sequence uint32, redeem []byte, details *txscript.MultiSigDetails, sigs [][]byte) (*Input, error) {
	seen := make(map[string]bool, len(details.PubKeys))
	for _, pk := range details.PubKeys {
		if seen[string(pk)] {
			return nil, ErrDuplicatePublicKey
		}
		seen[string(pk)] = true
	}

	slots := make([][]byte, len(details.PubKeys))
	for i := range slots {
		if i < len(sigs) {
			slots[i] = sigs[i]
		}
	}
	return &Input{
		Kind:             MofN,
		PreviousOutPoint: prevOut,
		Sequence:         sequence,
		RedeemScript:     redeem,
		PubKeysList:      details.PubKeys,
		Signatures:       slots,
		RequiredSigs:     details.RequiredSigs,
	}, nil
}

// missingSigReport computes this input's current MissingSigReport.
func (in *Input) missingSigReport(index int) MissingSigReport {
	switch in.Kind {
	case PayToAddress:
		if len(in.Signature) == 0 {
			return MissingSigReport{InputIndex: index, MinSigsStillNeeded: 1, PubKeysWithoutSignature: [][]byte{in.PubKey}}
		}
		return MissingSigReport{InputIndex: index}

	case MofN:
		filled := 0
		var missing [][]byte
		for i, sig := range in.Signatures {
			if len(sig) == 0 {
				missing = append(missing, in.PubKeysList[i])
			} else {
				filled++
			}
		}
		need := in.RequiredSigs - filled
		if need < 0 {
			need = 0
		}
		return MissingSigReport{InputIndex: index, MinSigsStillNeeded: need, PubKeysWithoutSignature: missing}

	default: // OpaqueP2SH
		return MissingSigReport{InputIndex: index}
	}
}

// scriptSig emits this input's scriptSig in the requested mode.
func (in *Input) scriptSig(mode ScriptMode) []byte {
	switch in.Kind {
	case PayToAddress:
		if mode == SignMode {
			hash := hash160(in.PubKey)
			return txscript.PayToPubKeyHashScript(hash)
		}
		sig := in.Signature
		if mode == BroadcastMode && len(sig) == 0 {
			return pushData(nil, in.PubKey)
		}
		return pushData(pushData(nil, sig), in.PubKey)

	case MofN:
		if mode == SignMode {
			return append([]byte(nil), in.RedeemScript...)
		}
		script := pushData(nil, nil) // leading OP_0
		for _, sig := range in.Signatures {
			if mode == BroadcastMode && len(sig) == 0 {
				continue
			}
			script = pushData(script, sig)
		}
		return pushData(script, in.RedeemScript)

	default: // OpaqueP2SH
		if mode == SignMode {
			return append([]byte(nil), in.RedeemScript...)
		}
		script := []byte{}
		for _, sig := range in.Signatures {
			if mode == BroadcastMode && len(sig) == 0 {
				continue
			}
			script = pushData(script, sig)
		}
		return pushData(script, in.RedeemScript)
	}
}

// hash160 is RIPEMD160(SHA256(data)), the standard address digest.
func hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}
