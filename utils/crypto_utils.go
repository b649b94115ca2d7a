package utils

import (
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// StarknetKeccak computes the Starknet variant of eth-keccak: the legacy (pre-NIST)
// Keccak-256 digest of the input with the top 6 bits cleared, so the result always
// fits in a 250-bit field element. The function is total over all inputs, including
// the empty slice, and is safe for concurrent use.
func StarknetKeccak(data []byte) *uint256.Int {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	digest := hasher.Sum(nil)

	// Truncate to 250 bits.
	digest[0] &= 0x03
	return new(uint256.Int).SetBytes(digest)
}

// Selector returns the entry point selector for the given external function name,
// the field element an entry-point dispatcher matches calls against.
func Selector(name string) *uint256.Int {
	return StarknetKeccak([]byte(name))
}
