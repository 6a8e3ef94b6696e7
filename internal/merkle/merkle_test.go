package merkle

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func makeLeaves(n int) []common.Hash {
	leaves := make([]common.Hash, n)
	for i := range leaves {
		leaves[i] = crypto.Keccak256Hash([]byte(fmt.Sprintf("leaf-%d", i)))
	}
	return leaves
}

// Every leaf of every tree size must verify under the tree's own root.
func TestProofVerifiesForAllLeaves(t *testing.T) {
	for n := 1; n <= 8; n++ {
		t.Run(fmt.Sprintf("%d_leaves", n), func(t *testing.T) {
			leaves := makeLeaves(n)
			tree := BuildTree(leaves)

			for _, leaf := range leaves {
				proof, ok := tree.Proof(leaf)
				if !ok {
					t.Fatalf("leaf %s missing from its own tree", leaf.Hex())
				}
				if !VerifyInclusion(leaf, proof, tree.Root()) {
					t.Fatalf("valid proof rejected for leaf %s", leaf.Hex())
				}
			}
		})
	}
}

func TestSingleLeafRootIsLeaf(t *testing.T) {
	leaves := makeLeaves(1)
	tree := BuildTree(leaves)

	if tree.Root() != leaves[0] {
		t.Fatalf("single-leaf root %s, expected the leaf %s", tree.Root().Hex(), leaves[0].Hex())
	}
	proof, ok := tree.Proof(leaves[0])
	if !ok || len(proof) != 0 {
		t.Fatalf("single-leaf proof should be empty, got %v", proof)
	}
}

// Sorted pairing makes the root independent of leaf submission order.
func TestRootIndependentOfLeafOrder(t *testing.T) {
	leaves := makeLeaves(5)
	reversed := make([]common.Hash, len(leaves))
	for i, leaf := range leaves {
		reversed[len(leaves)-1-i] = leaf
	}

	if BuildTree(leaves).Root() != BuildTree(reversed).Root() {
		t.Fatal("leaf order changed the root")
	}
}

func TestVerifyInclusionRejectsTampering(t *testing.T) {
	leaves := makeLeaves(6)
	tree := BuildTree(leaves)
	proof, ok := tree.Proof(leaves[2])
	if !ok {
		t.Fatal("proof generation failed")
	}

	t.Run("tampered sibling", func(t *testing.T) {
		tampered := make([]common.Hash, len(proof))
		copy(tampered, proof)
		tampered[0] = crypto.Keccak256Hash([]byte("forged"))
		if VerifyInclusion(leaves[2], tampered, tree.Root()) {
			t.Fatal("tampered proof accepted")
		}
	})

	t.Run("wrong root", func(t *testing.T) {
		if VerifyInclusion(leaves[2], proof, crypto.Keccak256Hash([]byte("other root"))) {
			t.Fatal("proof accepted under a foreign root")
		}
	})

	t.Run("wrong leaf", func(t *testing.T) {
		if VerifyInclusion(leaves[3], proof, tree.Root()) {
			t.Fatal("proof accepted for a different leaf")
		}
	})
}

func TestProofUnknownLeaf(t *testing.T) {
	tree := BuildTree(makeLeaves(4))
	if _, ok := tree.Proof(crypto.Keccak256Hash([]byte("stranger"))); ok {
		t.Fatal("proof produced for a leaf outside the tree")
	}
}
