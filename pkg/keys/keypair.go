package keys

import (
	"io"

	"github.com/pkg/errors"
)

// KeypairLength is the size of Keypair.Bytes: the raw scalar then the compressed point
const KeypairLength = SecretKeySize + PublicKeySize

// Keypair holds a secret key and the public key derived from it
type Keypair struct {
	sk *SecretKey
	pk *PublicKey
}

// NewKeypair derives the public half from sk
func NewKeypair(sk *SecretKey) (*Keypair, error) {
	if sk == nil {
		return nil, errors.New("keys: secret key is nil")
	}
	return &Keypair{sk: sk, pk: PublicKeyFromSecret(sk)}, nil
}

// GenerateKeypair creates a random Mainnet keypair from rng
func GenerateKeypair(rng io.Reader) (*Keypair, error) {
	sk, err := GenerateSecretKey(rng)
	if err != nil {
		return nil, err
	}
	return NewKeypair(sk)
}

// KeypairFromSecretWIF imports a secret key in WIF and derives its public key
func KeypairFromSecretWIF(wif string) (*Keypair, error) {
	sk, err := SecretKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewKeypair(sk)
}

func (kp *Keypair) SecretKey() *SecretKey {
	return kp.sk
}

func (kp *Keypair) PublicKey() *PublicKey {
	return kp.pk
}

// Bytes returns the 32 secret bytes followed by the 33 compressed public bytes
func (kp *Keypair) Bytes() [KeypairLength]byte {
	var out [KeypairLength]byte
	copy(out[:SecretKeySize], kp.sk.Bytes())
	copy(out[SecretKeySize:], kp.pk.Bytes())
	return out
}

// Sign signs the SHA-256 digest of message with the secret half
func (kp *Keypair) Sign(message []byte) (*Signature, error) {
	return kp.sk.Sign(message)
}

// Verify checks sig over message with the public half
func (kp *Keypair) Verify(message []byte, sig *Signature) bool {
	return kp.pk.Verify(message, sig)
}

func (kp *Keypair) Equal(other *Keypair) bool {
	if kp == nil || other == nil {
		return kp == other
	}
	return kp.sk.Equal(other.sk) && kp.pk.Equal(other.pk)
}
