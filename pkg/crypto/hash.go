package crypto

import (
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // EOSIO key checksums are defined over RIPEMD-160
)

// Sha256 returns the SHA-256 digest of data
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSha256 returns SHA256(SHA256(data)), the Base58Check checksum hash
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Ripemd160 returns the RIPEMD-160 digest of the concatenation of parts
func Ripemd160(parts ...[]byte) [20]byte {
	h := ripemd160.New()
	for _, p := range parts {
		h.Write(p)
	}

	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
