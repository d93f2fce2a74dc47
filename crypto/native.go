package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/sha3"
)

// Native is the default pure-Go provider: SHA3-256 hashing and secp256k1
// recoverable signatures.
type Native struct{}

func (Native) Hash256(input []byte) [32]byte {
	h := sha3.New256()
	_, _ = h.Write(input)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (Native) RecoverPublicKey(digest32 [32]byte, sig []byte) ([]byte, error) {
	if len(sig) != SignatureLen {
		return nil, fmt.Errorf("crypto: signature must be %d bytes, got %d", SignatureLen, len(sig))
	}
	pub, _, err := ecdsa.RecoverCompact(sig, digest32[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: recover: %w", err)
	}
	return pub.SerializeCompressed(), nil
}

// SignRecoverable produces a compact recoverable signature over digest32.
// The output is accepted by Provider.RecoverPublicKey.
func SignRecoverable(key *btcec.PrivateKey, digest32 [32]byte) []byte {
	return ecdsa.SignCompact(key, digest32[:], true)
}

// SignerFor binds key into a closure matching the transaction builder's
// signer shape.
func SignerFor(key *btcec.PrivateKey) func(digest [32]byte) []byte {
	return func(digest [32]byte) []byte {
		return SignRecoverable(key, digest)
	}
}

// CompressedPublicKey returns the 33-byte public key of key, the form
// addresses are derived from.
func CompressedPublicKey(key *btcec.PrivateKey) []byte {
	return key.PubKey().SerializeCompressed()
}

// GenerateKey returns a fresh secp256k1 private key.
func GenerateKey() (*btcec.PrivateKey, error) {
	return btcec.NewPrivateKey()
}
