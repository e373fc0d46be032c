// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// txbuild demonstrates the transaction builder end to end: it fabricates a
// funding transaction paying a freshly generated key, spends it with the
// builder, signs the input, and prints both the edit-form and
// broadcast-form serializations.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/ripemd160"

	"github.com/coinkit/p2pnode/addresses"
	"github.com/coinkit/p2pnode/chaincfg"
	"github.com/coinkit/p2pnode/txbuilder"
	"github.com/coinkit/p2pnode/txscript"
	"github.com/coinkit/p2pnode/wire"
)

// hash160 is RIPEMD160(SHA256(data)), the standard address digest.
func hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}

var (
	fundingValueFlag = flag.Int64("funding-value", 100000, "Value (in satoshis) of the fabricated funding output")
	feeFlag          = flag.Int64("fee", 1000, "Fee (in satoshis) to subtract from the funding value")
)

func main() {
	flag.Parse()

	priv, err := btcec.NewPrivateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate key: %v\n", err)
		os.Exit(1)
	}
	pubKey := priv.PubKey().SerializeCompressed()
	pubKeyHash := hash160(pubKey)

	addr, err := addresses.NewPubKeyHashAddress(pubKeyHash, &chaincfg.MainNetParams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "derive address: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Transaction Builder Demo")
	fmt.Println("========================")
	fmt.Printf("Generated key pays to: %s\n", addr.String())

	funding := wire.NewMsgTx()
	funding.AddTxOut(wire.NewTxOut(*fundingValueFlag, txscript.PayToPubKeyHashScript(pubKeyHash)))
	fundingHash := funding.TxHash()
	fmt.Printf("Fabricated funding tx: %s\n", fundingHash)

	b := txbuilder.New()
	b.RegisterDependency(funding)
	b.AddOutput(*fundingValueFlag-*feeFlag, txscript.PayToPubKeyHashScript(pubKeyHash))

	if err := b.AddInput(fundingHash, 0, pubKey, wire.MaxTxInSequenceNum); err != nil {
		fmt.Fprintf(os.Stderr, "add input: %v\n", err)
		os.Exit(1)
	}

	for _, report := range b.MissingSignatures() {
		fmt.Printf("Input %d needs %d more signature(s) from %d candidate key(s)\n",
			report.InputIndex, report.MinSigsStillNeeded, len(report.PubKeysWithoutSignature))
	}

	if err := b.Sign(0, priv.Serialize()); err != nil {
		fmt.Fprintf(os.Stderr, "sign: %v\n", err)
		os.Exit(1)
	}

	editTx := b.Edit()
	fmt.Printf("Edit-form tx:      %s\n", hex.EncodeToString(editTx.Serialize(nil)))

	broadcastTx := b.Broadcast()
	fmt.Printf("Broadcast-form tx: %s\n", hex.EncodeToString(broadcastTx.Serialize(nil)))
	fmt.Printf("Broadcast tx hash: %s\n", broadcastTx.TxHash())

	persisted := b.GetSerialized()
	fmt.Printf("Persisted builder state (%d bytes): %s\n", len(persisted), hex.EncodeToString(persisted))

	restored, err := txbuilder.SetSerialized(persisted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "restore builder: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Restored builder has %d input(s), %d still missing signatures\n",
		len(restored.Inputs()), countMissing(restored.MissingSignatures()))
}

func countMissing(reports []txbuilder.MissingSigReport) int {
	n := 0
	for _, r := range reports {
		if r.MinSigsStillNeeded > 0 {
			n++
		}
	}
	return n
}
