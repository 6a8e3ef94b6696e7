package transfer_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nmxlabs/marketplace-api/internal/database"
	"github.com/nmxlabs/marketplace-api/internal/tokens"
	"github.com/nmxlabs/marketplace-api/internal/transfer"
	"github.com/nmxlabs/marketplace-api/internal/types"
)

var (
	engine     = common.HexToAddress("0x00000000000000000000000000000000000AA001")
	alice      = common.HexToAddress("0x00000000000000000000000000000000000000A1")
	bob        = common.HexToAddress("0x00000000000000000000000000000000000000B2")
	collection = common.HexToAddress("0x0000000000000000000000000000000000001001")
)

func newLedger(t *testing.T, dsn string) *tokens.Ledger {
	t.Helper()
	db, err := database.NewDatabase(dsn)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	return tokens.NewLedger(db)
}

// One movement per asset kind, executed through the engine identity
// after the corresponding seeding and approval.
func TestExecutePerKind(t *testing.T) {
	ledger := newLedger(t, "file:transfer_kinds?mode=memory&cache=shared")
	helper := transfer.NewHelper(engine)

	if err := ledger.NativeMint(alice, big.NewInt(100)); err != nil {
		t.Fatalf("NativeMint: %v", err)
	}
	if err := ledger.FungibleMint(collection, alice, big.NewInt(100)); err != nil {
		t.Fatalf("FungibleMint: %v", err)
	}
	if err := ledger.Approve(collection, alice, engine, big.NewInt(100)); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := ledger.NFTMint(collection, big.NewInt(7), alice); err != nil {
		t.Fatalf("NFTMint: %v", err)
	}
	if err := ledger.SFTMint(collection, big.NewInt(3), alice, big.NewInt(10)); err != nil {
		t.Fatalf("SFTMint: %v", err)
	}
	if err := ledger.SetOperatorApproval(collection, alice, engine, true); err != nil {
		t.Fatalf("SetOperatorApproval: %v", err)
	}

	movements := []transfer.Movement{
		{Asset: types.Asset{Kind: types.Native, Amount: big.NewInt(40)}, From: alice, To: bob},
		{Asset: types.Asset{Kind: types.FungibleToken, Collection: collection, Amount: big.NewInt(60)}, From: alice, To: bob},
		{Asset: types.Asset{Kind: types.NonFungibleToken, Collection: collection, ID: big.NewInt(7), Amount: big.NewInt(1)}, From: alice, To: bob},
		{Asset: types.Asset{Kind: types.SemiFungibleToken, Collection: collection, ID: big.NewInt(3), Amount: big.NewInt(4)}, From: alice, To: bob},
	}
	for _, m := range movements {
		if err := helper.Execute(ledger, m); err != nil {
			t.Fatalf("Execute(%s): %v", m.Asset.Kind, err)
		}
	}

	native, err := ledger.NativeBalanceOf(bob)
	if err != nil || native.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("native balance=%s err=%v, expected 40", native, err)
	}
	fungible, err := ledger.FungibleBalanceOf(collection, bob)
	if err != nil || fungible.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("fungible balance=%s err=%v, expected 60", fungible, err)
	}
	owner, err := ledger.NFTOwnerOf(collection, big.NewInt(7))
	if err != nil || owner != bob {
		t.Fatalf("nft owner=%s err=%v, expected %s", owner.Hex(), err, bob.Hex())
	}
	sft, err := ledger.SFTBalanceOf(collection, big.NewInt(3), bob)
	if err != nil || sft.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("sft balance=%s err=%v, expected 4", sft, err)
	}
}

// Ledger refusals surface as the stable transfer-failure rejection,
// with the underlying cause preserved in the message.
func TestExecuteWrapsRefusals(t *testing.T) {
	ledger := newLedger(t, "file:transfer_refusals?mode=memory&cache=shared")
	helper := transfer.NewHelper(engine)

	tests := []struct {
		name     string
		movement transfer.Movement
	}{
		{
			"native without balance",
			transfer.Movement{Asset: types.Asset{Kind: types.Native, Amount: big.NewInt(1)}, From: alice, To: bob},
		},
		{
			"token without allowance",
			transfer.Movement{Asset: types.Asset{Kind: types.FungibleToken, Collection: collection, Amount: big.NewInt(1)}, From: alice, To: bob},
		},
		{
			"unknown nft",
			transfer.Movement{Asset: types.Asset{Kind: types.NonFungibleToken, Collection: collection, ID: big.NewInt(404), Amount: big.NewInt(1)}, From: alice, To: bob},
		},
		{
			"invalid kind",
			transfer.Movement{Asset: types.Asset{Kind: types.AssetKind(9), Amount: big.NewInt(1)}, From: alice, To: bob},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := helper.Execute(ledger, tt.movement)
			if !errors.Is(err, types.ErrTransferFailure) {
				t.Fatalf("got %v, expected TRANSFER_FAILURE", err)
			}
		})
	}
}
