package orderhash

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nmxlabs/marketplace-api/internal/types"
)

func baseOrder() types.Order {
	return types.Order{
		Bid: []types.Asset{{
			Kind:       types.NonFungibleToken,
			Collection: common.HexToAddress("0x0000000000000000000000000000000000002002"),
			ID:         big.NewInt(7),
			Amount:     big.NewInt(1),
		}},
		Ask: []types.Asset{{
			Kind:       types.FungibleToken,
			Collection: common.HexToAddress("0x0000000000000000000000000000000000001001"),
			Amount:     big.NewInt(1000),
		}},
		TotalAmount:    1,
		Amount:         1,
		Owner:          common.HexToAddress("0x00000000000000000000000000000000000000A1"),
		CreationDate:   1700000000000,
		ExpirationDate: 1700003600000,
		OrderType:      types.BundleOrSingleToCurrencyOrNative,
	}
}

func mustHash(t *testing.T, o types.Order) common.Hash {
	t.Helper()
	h, err := Hash(&o)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	return h
}

func TestHashDeterministic(t *testing.T) {
	a := mustHash(t, baseOrder())
	b := mustHash(t, baseOrder())
	if a != b {
		t.Fatalf("identical orders hashed differently: %s vs %s", a.Hex(), b.Hex())
	}
}

// Root, root signature and proof are attached after hashing and must
// not feed back into the digest.
func TestHashIgnoresBatchFields(t *testing.T) {
	plain := mustHash(t, baseOrder())

	withBatch := baseOrder()
	withBatch.Root = common.HexToHash("0xdeadbeef")
	withBatch.RootSignature = []byte{1, 2, 3}
	withBatch.Proof = []common.Hash{common.HexToHash("0x01")}

	if got := mustHash(t, withBatch); got != plain {
		t.Fatalf("batch fields changed the digest: %s vs %s", got.Hex(), plain.Hex())
	}
}

func TestHashCoversEconomicFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *types.Order)
	}{
		{"total amount", func(o *types.Order) { o.TotalAmount = 2 }},
		{"creation date", func(o *types.Order) { o.CreationDate++ }},
		{"expiration date", func(o *types.Order) { o.ExpirationDate++ }},
		{"bid collection", func(o *types.Order) {
			o.Bid[0].Collection = common.HexToAddress("0x00000000000000000000000000000000000000FF")
		}},
		{"ask amount", func(o *types.Order) { o.Ask[0].Amount = big.NewInt(999) }},
		{"bid id", func(o *types.Order) { o.Bid[0].ID = big.NewInt(8) }},
	}

	plain := mustHash(t, baseOrder())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := baseOrder()
			tt.mutate(&order)
			if got := mustHash(t, order); got == plain {
				t.Fatalf("mutating %s did not change the digest", tt.name)
			}
		})
	}
}

func TestWildcardBidOmitsIdentifier(t *testing.T) {
	first := baseOrder()
	first.BidAny = true
	second := baseOrder()
	second.BidAny = true
	second.Bid[0].ID = big.NewInt(99)

	if mustHash(t, first) != mustHash(t, second) {
		t.Fatal("wildcard bid digest depends on the token id")
	}
	if mustHash(t, first) == mustHash(t, baseOrder()) {
		t.Fatal("wildcard and exact encodings collided")
	}
}

func TestWildcardAskOmitsIdentifier(t *testing.T) {
	first := baseOrder()
	first.Ask[0] = types.Asset{
		Kind:       types.NonFungibleToken,
		Collection: common.HexToAddress("0x0000000000000000000000000000000000002002"),
		ID:         big.NewInt(1),
		Amount:     big.NewInt(1),
	}
	first.AskAny = true

	second := first
	second.Ask = []types.Asset{first.Ask[0]}
	second.Ask[0].ID = big.NewInt(42)

	if mustHash(t, first) != mustHash(t, second) {
		t.Fatal("wildcard ask digest depends on the token id")
	}
}

// The wildcard encodings only apply to a single-asset side; a flagged
// multi-asset side falls back to the exact encoding, id included.
func TestWildcardRequiresSingleAsset(t *testing.T) {
	order := baseOrder()
	order.BidAny = true
	order.Bid = append(order.Bid, types.Asset{
		Kind:       types.NonFungibleToken,
		Collection: order.Bid[0].Collection,
		ID:         big.NewInt(8),
		Amount:     big.NewInt(1),
	})

	mutated := order
	mutated.Bid = []types.Asset{order.Bid[0], order.Bid[1]}
	mutated.Bid[0].ID = big.NewInt(50)

	if mustHash(t, order) == mustHash(t, mutated) {
		t.Fatal("multi-asset wildcard side ignored the token id")
	}
}

func TestWildcardBranchesAreDistinct(t *testing.T) {
	exact := baseOrder()

	bidAny := baseOrder()
	bidAny.BidAny = true

	askAny := baseOrder()
	askAny.AskAny = true

	hashes := map[common.Hash]string{}
	for name, o := range map[string]types.Order{"exact": exact, "bid_any": bidAny, "ask_any": askAny} {
		h := mustHash(t, o)
		if prev, dup := hashes[h]; dup {
			t.Fatalf("%s and %s encodings collided at %s", name, prev, h.Hex())
		}
		hashes[h] = name
	}
}

func TestHashHandlesNilAmounts(t *testing.T) {
	order := baseOrder()
	order.Bid[0].Amount = nil
	order.Bid[0].ID = nil

	zeroed := baseOrder()
	zeroed.Bid[0].Amount = new(big.Int)
	zeroed.Bid[0].ID = new(big.Int)

	if mustHash(t, order) != mustHash(t, zeroed) {
		t.Fatal("nil amounts did not encode as zero")
	}
}
