// Package merkle verifies inclusion of order hashes under a signed
// batch root. Sibling pairs are sorted bytewise before hashing, so a
// proof carries no positional information and verification is
// independent of how the tree was laid out.
package merkle

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// VerifyInclusion folds the leaf with the proof's sibling hashes
// bottom-up and compares the result to root.
func VerifyInclusion(leaf common.Hash, proof []common.Hash, root common.Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = hashPair(computed, sibling)
	}
	return computed == root
}

func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a[:], b[:])
}

// Tree is a sorted-pair Merkle tree over a set of leaf hashes. It
// exists for proof generation in tests and client tooling; the engine
// itself only ever verifies.
type Tree struct {
	// layers[0] is the sorted leaf layer, the last layer holds the root.
	layers [][]common.Hash
}

// BuildTree constructs a tree over the given leaves. Leaves are sorted
// before pairing and an odd node is promoted to the next layer
// unhashed.
func BuildTree(leaves []common.Hash) *Tree {
	bottom := make([]common.Hash, len(leaves))
	copy(bottom, leaves)
	sort.Slice(bottom, func(i, j int) bool {
		return bytes.Compare(bottom[i][:], bottom[j][:]) < 0
	})

	layers := [][]common.Hash{bottom}
	for current := bottom; len(current) > 1; {
		next := make([]common.Hash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 == len(current) {
				next = append(next, current[i])
				break
			}
			next = append(next, hashPair(current[i], current[i+1]))
		}
		layers = append(layers, next)
		current = next
	}

	return &Tree{layers: layers}
}

// Root returns the tree root. The root of a single-leaf tree is the
// leaf itself; an empty tree has a zero root.
func (t *Tree) Root() common.Hash {
	top := t.layers[len(t.layers)-1]
	if len(top) == 0 {
		return common.Hash{}
	}
	return top[0]
}

// Proof returns the sibling hashes proving the leaf's inclusion, or
// false when the leaf is not part of the tree.
func (t *Tree) Proof(leaf common.Hash) ([]common.Hash, bool) {
	idx := -1
	for i, h := range t.layers[0] {
		if h == leaf {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	var proof []common.Hash
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := idx ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		idx /= 2
	}
	return proof, true
}
