package keys

import (
	"strings"

	"github.com/Layr-Labs/eosio-keys-go/pkg/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
)

const (
	// DigestSize is the only digest length accepted for signing
	DigestSize = 32
	// SignatureSize is the compact form: recovery header, r and s
	SignatureSize = 65

	// K1SignaturePrefix starts the textual signature form
	K1SignaturePrefix = "SIG_K1_"

	// compactHeaderBase is 27 plus 4 to flag a compressed public key
	compactHeaderBase = 27 + 4

	// maxNonceIterations bounds the search for a canonical signature. Each
	// attempt is canonical with probability about 1/4.
	maxNonceIterations = 1 << 12
)

// Signature is a canonical compact secp256k1 signature:
// [27 + 4 + recovery id][r (32)][s (32)] with s in the lower half of the order.
type Signature struct {
	data [SignatureSize]byte
}

// SignatureFromBytes validates and wraps 65 compact signature bytes
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureSize {
		return nil, errors.Wrapf(ErrInvalidLength, "signature must be %d bytes, got %d", SignatureSize, len(b))
	}
	sig := &Signature{}
	copy(sig.data[:], b)

	if header := sig.data[0]; header < 27 || header > 34 {
		return nil, errors.Wrapf(ErrInvalidSignature, "invalid recovery header %d", header)
	}
	if _, _, ok := sig.scalars(); !ok {
		return nil, errors.Wrap(ErrInvalidSignature, "r or s is out of range")
	}
	return sig, nil
}

// ParseSignature parses the "SIG_K1_" text form
func ParseSignature(s string) (*Signature, error) {
	if !strings.HasPrefix(s, K1SignaturePrefix) {
		return nil, errors.Wrapf(ErrInvalidPrefix, "signature must start with %s", K1SignaturePrefix)
	}
	data, err := base58.RipemdCheckDecode(strings.TrimPrefix(s, K1SignaturePrefix), curveK1)
	if err != nil {
		return nil, err
	}
	return SignatureFromBytes(data)
}

// Bytes returns a copy of the 65 compact bytes
func (sig *Signature) Bytes() []byte {
	out := make([]byte, SignatureSize)
	copy(out, sig.data[:])
	return out
}

// RecoveryID returns the 0-3 public key recovery index
func (sig *Signature) RecoveryID() byte {
	return (sig.data[0] - 27) & 0x03
}

// String returns "SIG_K1_" + base58(sig || ripemd160(sig || "K1")[:4])
func (sig *Signature) String() string {
	return K1SignaturePrefix + base58.RipemdCheckEncode(sig.data[:], curveK1)
}

// IsCanonical reports whether s is in the lower half of the curve order
func (sig *Signature) IsCanonical() bool {
	_, s, ok := sig.scalars()
	return ok && !s.IsOverHalfOrder()
}

// IsStrictCanonical additionally requires that neither r nor s needs a DER
// padding byte. Signatures produced by Sign always satisfy it.
func (sig *Signature) IsStrictCanonical() bool {
	return sig.IsCanonical() && isCanonicalCompact(sig.data[:])
}

// RecoverPublicKey returns the public key that produced sig over hash
func (sig *Signature) RecoverPublicKey(hash []byte) (*PublicKey, error) {
	if len(hash) != DigestSize {
		return nil, errors.Wrapf(ErrInvalidDigestLength, "got %d bytes", len(hash))
	}
	key, _, err := ecdsa.RecoverCompact(sig.data[:], hash)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSignature, "recovery failed: %v", err)
	}
	return &PublicKey{key: key}, nil
}

func (sig *Signature) Equal(other *Signature) bool {
	if sig == nil || other == nil {
		return sig == other
	}
	return sig.data == other.data
}

// MarshalText implements encoding.TextMarshaler
func (sig *Signature) MarshalText() ([]byte, error) {
	return []byte(sig.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (sig *Signature) UnmarshalText(text []byte) error {
	parsed, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*sig = *parsed
	return nil
}

func (sig *Signature) scalars() (secp256k1.ModNScalar, secp256k1.ModNScalar, bool) {
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig.data[1:33]); overflow || r.IsZero() {
		return r, s, false
	}
	if overflow := s.SetByteSlice(sig.data[33:65]); overflow || s.IsZero() {
		return r, s, false
	}
	return r, s, true
}

func isCanonicalCompact(c []byte) bool {
	return c[1]&0x80 == 0 &&
		!(c[1] == 0 && c[2]&0x80 == 0) &&
		c[33]&0x80 == 0 &&
		!(c[33] == 0 && c[34]&0x80 == 0)
}

// signCanonical signs hash with RFC6979 nonces, moving to the next nonce
// iteration until the compact signature is strictly canonical
func signCanonical(key *secp256k1.PrivateKey, hash []byte) (*Signature, error) {
	keyBytes := key.Key.Bytes()
	defer func() {
		for i := range keyBytes {
			keyBytes[i] = 0
		}
	}()

	var e secp256k1.ModNScalar
	e.SetByteSlice(hash)

	for iteration := uint32(0); iteration < maxNonceIterations; iteration++ {
		k := secp256k1.NonceRFC6979(keyBytes[:], hash, nil, nil, iteration)

		sig, ok := signWithNonce(&key.Key, &e, k)
		k.Zero()
		if ok && isCanonicalCompact(sig.data[:]) {
			return sig, nil
		}
	}
	return nil, errors.Wrap(ErrInvalidSignature, "no canonical signature found")
}

// signWithNonce computes r = x(kG) mod N and s = k^-1 (e + r d) mod N, normalizing
// s to the lower half of the order and tracking the recovery id
func signWithNonce(d, e, k *secp256k1.ModNScalar) (*Signature, bool) {
	var R secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &R)
	R.ToAffine()

	var r secp256k1.ModNScalar
	overflow := r.SetBytes(R.X.Bytes())
	if r.IsZero() {
		return nil, false
	}

	recoveryID := byte(overflow << 1)
	if R.Y.IsOdd() {
		recoveryID |= 1
	}

	kInv := new(secp256k1.ModNScalar).Set(k).InverseNonConst()
	s := new(secp256k1.ModNScalar).Mul2(d, &r).Add(e).Mul(kInv)
	if s.IsZero() {
		return nil, false
	}
	if s.IsOverHalfOrder() {
		s.Negate()
		recoveryID ^= 1
	}

	sig := &Signature{}
	sig.data[0] = compactHeaderBase + recoveryID
	r.PutBytesUnchecked(sig.data[1:33])
	s.PutBytesUnchecked(sig.data[33:65])
	return sig, true
}
