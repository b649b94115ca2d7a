package compilation

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/exp/slices"
)

// ContentHash computes a SHA-256 digest of the snapshot's declaration tables. Two
// snapshots with the same crates, modules, and items hash identically regardless of
// build id, so the hash can key caches of derived metadata across analysis runs.
func (s *Snapshot) ContentHash() string {
	hasher := sha256.New()
	for _, crate := range s.Crates {
		hashString(hasher, crate.Name)
		hashModuleContent(hasher, &crate.Root)
	}
	for _, submodule := range s.Submodules {
		hashString(hasher, submodule.Name)
		hashUint32(hasher, uint32(submodule.Parent.Kind))
		hashUint32(hasher, uint32(submodule.Parent.Crate))
		hashUint32(hasher, uint32(submodule.Parent.Submodule))
		hashModuleContent(hasher, &submodule.Content)
	}
	for _, trait := range s.Traits {
		hashString(hasher, trait.Name)
	}
	for _, function := range s.Functions {
		hashString(hasher, function.Name)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// hashModuleContent folds one module's content into the digest. Items are hashed in
// declaration order; attributes are a set, so they are sorted first.
func hashModuleContent(hasher hash.Hash, content *ModuleContent) {
	if content.Unresolved {
		hasher.Write([]byte{1})
	} else {
		hasher.Write([]byte{0})
	}

	attributes := make([]string, 0, len(content.Attributes))
	for _, attribute := range content.Attributes {
		attributes = append(attributes, attribute.Name)
	}
	slices.Sort(attributes)
	for _, name := range attributes {
		hashString(hasher, name)
	}

	for i, name := range content.ItemNames {
		hashString(hasher, name)
		hasher.Write([]byte{byte(content.Items[i].Kind)})
		hashUint32(hasher, content.Items[i].Ref)
	}
}

// hashString writes a length-prefixed string to the digest so adjacent names cannot
// collide by concatenation.
func hashString(hasher hash.Hash, value string) {
	hashUint32(hasher, uint32(len(value)))
	hasher.Write([]byte(value))
}

func hashUint32(hasher hash.Hash, value uint32) {
	var buffer [4]byte
	binary.BigEndian.PutUint32(buffer[:], value)
	hasher.Write(buffer[:])
}
