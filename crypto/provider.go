package crypto

// Provider is the narrow crypto interface used by the transaction core.
// Implementations may wrap hardware or alternative native backends.
type Provider interface {
	// Hash256 returns the 32-byte digest of input.
	Hash256(input []byte) [32]byte

	// RecoverPublicKey recovers the compressed 33-byte public key that
	// produced the recoverable signature sig over digest32.
	RecoverPublicKey(digest32 [32]byte, sig []byte) ([]byte, error)
}

// SignatureLen is the length of a recoverable compact signature:
// one recovery header byte followed by r and s.
const SignatureLen = 65

// PublicKeyLen is the length of a compressed public key.
const PublicKeyLen = 33
