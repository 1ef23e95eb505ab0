// Package kms provides the key derivation service of the device.
//
// HDKMS holds the BIP-32 master key derived from the device seed and implements
// interfaces.XpubDeriver:
//
//	// XpubDeriver derives key material from the device seed.
//	type XpubDeriver interface {
//	    SerializedXpub(path DerivationPath) (string, error)
//	    MasterFingerprint() ([4]byte, error)
//	}
//
// Keys are serialized with the extended public key version bytes of the
// configured network (xpub on mainnet, tpub on testnet and regtest).
//
// # Seeds
//
// The seed is either raw bytes (16 to 64 bytes, as in BIP-32) or a BIP-39
// mnemonic with an optional passphrase:
//
//	kms, err := kms.NewHDKMSFromMnemonic(mnemonic, "", &chaincfg.MainNetParams)
//	if err != nil {
//	    log.Fatalf("Failed to create KMS: %v", err)
//	}
//
//	path, _ := interfaces.ParseDerivationPath("m/84'/0'/0'")
//	xpub, err := kms.SerializedXpub(path)
//
// The private master key never leaves the package; every derived key is
// neutered before it is serialized.
package kms
