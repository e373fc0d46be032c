// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinkit/p2pnode/txscript"
	"github.com/coinkit/p2pnode/wire"
)

func fundingTxPayingTo(pubKeyHash []byte, value int64) *wire.MsgTx {
	tx := wire.NewMsgTx()
	tx.AddTxOut(wire.NewTxOut(value, txscript.PayToPubKeyHashScript(pubKeyHash)))
	return tx
}

func TestPayToAddressSignAndMissingSigTransition(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pubKey := priv.PubKey().SerializeCompressed()
	pkHash := hash160(pubKey)

	dep := fundingTxPayingTo(pkHash, 50000)

	b := New()
	b.RegisterDependency(dep)
	b.AddOutput(40000, []byte{0x51})

	require.NoError(t, b.AddInput(dep.TxHash(), 0, pubKey, wire.MaxTxInSequenceNum))

	t.Run("BeforeSigning", func(t *testing.T) {
		report := b.MissingSignatures()
		require.Len(t, report, 1)
		assert.Equal(t, 1, report[0].MinSigsStillNeeded)
	})

	require.NoError(t, b.Sign(0, priv.Serialize()))

	t.Run("AfterSigning", func(t *testing.T) {
		report := b.MissingSignatures()
		assert.Equal(t, 0, report[0].MinSigsStillNeeded)
	})

	broadcastTx := b.Broadcast()
	pushes, ok := parsePushes(broadcastTx.TxIn[0].SignatureScript)
	require.True(t, ok)
	assert.Len(t, pushes, 2)
}

func TestSignWithWrongKeyFails(t *testing.T) {
	priv, _ := btcec.NewPrivateKey()
	other, _ := btcec.NewPrivateKey()
	pubKey := priv.PubKey().SerializeCompressed()
	pkHash := hash160(pubKey)

	dep := fundingTxPayingTo(pkHash, 1000)
	b := New()
	b.RegisterDependency(dep)
	b.AddOutput(900, []byte{0x51})
	require.NoError(t, b.AddInput(dep.TxHash(), 0, pubKey, wire.MaxTxInSequenceNum))

	err := b.Sign(0, other.Serialize())
	var be *BuilderError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, ErrUnknownPublicKey)
}

func TestAddInputPubKeyHashMismatch(t *testing.T) {
	priv, _ := btcec.NewPrivateKey()
	other, _ := btcec.NewPrivateKey()
	pkHash := hash160(priv.PubKey().SerializeCompressed())

	dep := fundingTxPayingTo(pkHash, 1000)
	b := New()
	b.RegisterDependency(dep)

	err := b.AddInput(dep.TxHash(), 0, other.PubKey().SerializeCompressed(), wire.MaxTxInSequenceNum)
	assert.ErrorIs(t, err, ErrPubKeyHashMismatch)
}

func TestMofNMissingSigReportAndSigning(t *testing.T) {
	priv1, _ := btcec.NewPrivateKey()
	priv2, _ := btcec.NewPrivateKey()
	priv3, _ := btcec.NewPrivateKey()
	pubKeys := [][]byte{
		priv1.PubKey().SerializeCompressed(),
		priv2.PubKey().SerializeCompressed(),
		priv3.PubKey().SerializeCompressed(),
	}
	redeem, err := txscript.MultiSigScript(2, pubKeys)
	require.NoError(t, err)
	scriptHash := hash160(redeem)

	dep := wire.NewMsgTx()
	dep.AddTxOut(wire.NewTxOut(100000, txscript.PayToScriptHashScript(scriptHash)))

	b := New()
	b.RegisterDependency(dep)
	b.AddOutput(90000, []byte{0x51})
	require.NoError(t, b.AddInput(dep.TxHash(), 0, nil, wire.MaxTxInSequenceNum))
	require.NoError(t, b.AttachRedeemScript(0, redeem))

	report := b.MissingSignatures()
	require.Len(t, report, 1)
	assert.Equal(t, 2, report[0].MinSigsStillNeeded)
	assert.Len(t, report[0].PubKeysWithoutSignature, 3)

	require.NoError(t, b.Sign(0, priv1.Serialize()))
	report = b.MissingSignatures()
	assert.Equal(t, 1, report[0].MinSigsStillNeeded)
	assert.Len(t, report[0].PubKeysWithoutSignature, 2)

	require.NoError(t, b.Sign(0, priv3.Serialize()))
	report = b.MissingSignatures()
	assert.Equal(t, 0, report[0].MinSigsStillNeeded)

	broadcast := b.Broadcast()
	pushes, ok := parsePushes(broadcast.TxIn[0].SignatureScript)
	require.True(t, ok)
	// Leading OP_0, two signatures (priv1 and priv3), and the redeem script.
	assert.Len(t, pushes, 4)
}

func TestDuplicatePublicKeyRejected(t *testing.T) {
	priv, _ := btcec.NewPrivateKey()
	pk := priv.PubKey().SerializeCompressed()

	// Hand-build a 2-of-2 redeem script naming the same key twice, bypassing
	// MultiSigScript's own validation so recognizeInput is what catches it.
	redeem := []byte{0x52} // OP_2
	redeem = append(redeem, byte(len(pk)))
	redeem = append(redeem, pk...)
	redeem = append(redeem, byte(len(pk)))
	redeem = append(redeem, pk...)
	redeem = append(redeem, 0x52, 0xae) // OP_2 OP_CHECKMULTISIG

	scriptSig := pushData(nil, nil) // leading OP_0
	scriptSig = pushData(scriptSig, nil)
	scriptSig = pushData(scriptSig, nil)
	scriptSig = pushData(scriptSig, redeem)

	_, err := recognizeInput(wire.OutPoint{}, wire.MaxTxInSequenceNum, scriptSig)
	assert.ErrorIs(t, err, ErrDuplicatePublicKey)
}

func TestGetSerializedSetSerializedRoundTrip(t *testing.T) {
	priv, _ := btcec.NewPrivateKey()
	pubKey := priv.PubKey().SerializeCompressed()
	pkHash := hash160(pubKey)

	dep := fundingTxPayingTo(pkHash, 20000)

	b := New()
	b.RegisterDependency(dep)
	b.AddOutput(19000, []byte{0x51})
	require.NoError(t, b.AddInput(dep.TxHash(), 0, pubKey, wire.MaxTxInSequenceNum))
	require.NoError(t, b.Sign(0, priv.Serialize()))

	buf := b.GetSerialized()

	restored, err := SetSerialized(buf)
	require.NoError(t, err)

	require.Len(t, restored.Inputs(), 1)
	assert.Equal(t, PayToAddress, restored.Inputs()[0].Kind)
	report := restored.MissingSignatures()
	assert.Equal(t, 0, report[0].MinSigsStillNeeded)
}
