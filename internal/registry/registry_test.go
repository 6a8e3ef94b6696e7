package registry_test

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nmxlabs/marketplace-api/internal/database"
	"github.com/nmxlabs/marketplace-api/internal/registry"
)

var (
	defaultBeneficiary = common.HexToAddress("0x0000000000000000000000000000000000000Fee")
	currency           = common.HexToAddress("0x0000000000000000000000000000000000001001")
	otherCurrency      = common.HexToAddress("0x0000000000000000000000000000000000001002")
	nftCollection      = common.HexToAddress("0x0000000000000000000000000000000000002002")
	artist             = common.HexToAddress("0x00000000000000000000000000000000000A2715")
)

func newService(t *testing.T, dsn string) *registry.Service {
	t.Helper()
	db, err := database.NewDatabase(dsn)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	service, err := registry.NewService(db, defaultBeneficiary)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return service
}

func TestBeneficiarySeededOnce(t *testing.T) {
	dsn := "file:registry_seed?mode=memory&cache=shared"
	service := newService(t, dsn)

	got, err := service.Beneficiary()
	if err != nil {
		t.Fatalf("Beneficiary: %v", err)
	}
	if got != defaultBeneficiary {
		t.Fatalf("beneficiary=%s, expected the seeded default", got.Hex())
	}

	// A later start with a different default must not overwrite the
	// persisted value.
	replacement := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	if err := service.SetBeneficiary(replacement); err != nil {
		t.Fatalf("SetBeneficiary: %v", err)
	}
	service = newService(t, dsn)
	got, err = service.Beneficiary()
	if err != nil {
		t.Fatalf("Beneficiary: %v", err)
	}
	if got != replacement {
		t.Fatalf("beneficiary=%s after restart, expected %s", got.Hex(), replacement.Hex())
	}
}

func TestResolveFeesFallsBackToDefaultRow(t *testing.T) {
	service := newService(t, "file:registry_fees?mode=memory&cache=shared")

	// No configuration at all: no fee.
	fees, err := service.ResolveFees(currency)
	if err != nil {
		t.Fatalf("ResolveFees: %v", err)
	}
	if fees.BuyerFeeBps != 0 || fees.SellerFeeBps != 0 {
		t.Fatalf("unconfigured collection pays fees: %+v", fees)
	}

	// The zero-address row is the default for everything unconfigured.
	if err := service.SetCollectionFee(common.Address{}, 100, 100); err != nil {
		t.Fatalf("SetCollectionFee default: %v", err)
	}
	if err := service.SetCollectionFee(currency, 250, 250); err != nil {
		t.Fatalf("SetCollectionFee: %v", err)
	}

	fees, err = service.ResolveFees(currency)
	if err != nil {
		t.Fatalf("ResolveFees: %v", err)
	}
	if fees.BuyerFeeBps != 250 || fees.SellerFeeBps != 250 {
		t.Fatalf("specific row not used: %+v", fees)
	}

	fees, err = service.ResolveFees(otherCurrency)
	if err != nil {
		t.Fatalf("ResolveFees: %v", err)
	}
	if fees.BuyerFeeBps != 100 || fees.SellerFeeBps != 100 {
		t.Fatalf("default row not applied: %+v", fees)
	}
}

func TestSetCollectionFeeValidatesRates(t *testing.T) {
	service := newService(t, "file:registry_feerates?mode=memory&cache=shared")

	if err := service.SetCollectionFee(currency, 10001, 0); !errors.Is(err, registry.ErrBpsOutOfRange) {
		t.Fatalf("got %v, expected ErrBpsOutOfRange", err)
	}
	if err := service.SetCollectionFee(currency, 0, 10001); !errors.Is(err, registry.ErrBpsOutOfRange) {
		t.Fatalf("got %v, expected ErrBpsOutOfRange", err)
	}
	if err := service.SetCollectionFee(currency, 10000, 0); err != nil {
		t.Fatalf("boundary rate rejected: %v", err)
	}
}

func TestSetCollectionRoyaltiesReplaces(t *testing.T) {
	service := newService(t, "file:registry_royalties?mode=memory&cache=shared")
	second := common.HexToAddress("0x00000000000000000000000000000000000A2716")

	if err := service.SetCollectionRoyalties(nftCollection,
		[]common.Address{artist, second}, []uint64{250, 100}); err != nil {
		t.Fatalf("SetCollectionRoyalties: %v", err)
	}
	royalties, err := service.ResolveRoyalties(nftCollection)
	if err != nil {
		t.Fatalf("ResolveRoyalties: %v", err)
	}
	if len(royalties) != 2 {
		t.Fatalf("got %d recipients, expected 2", len(royalties))
	}

	// Updating replaces the whole set, it does not append.
	if err := service.SetCollectionRoyalties(nftCollection,
		[]common.Address{artist}, []uint64{300}); err != nil {
		t.Fatalf("SetCollectionRoyalties replace: %v", err)
	}
	royalties, err = service.ResolveRoyalties(nftCollection)
	if err != nil {
		t.Fatalf("ResolveRoyalties: %v", err)
	}
	if len(royalties) != 1 || royalties[0].Bps != 300 {
		t.Fatalf("replacement not applied: %+v", royalties)
	}
}

func TestSetCollectionRoyaltiesValidation(t *testing.T) {
	service := newService(t, "file:registry_royaltyvalidation?mode=memory&cache=shared")

	err := service.SetCollectionRoyalties(nftCollection, []common.Address{artist}, []uint64{100, 200})
	if !errors.Is(err, registry.ErrLengthMismatch) {
		t.Fatalf("got %v, expected ErrLengthMismatch", err)
	}

	err = service.SetCollectionRoyalties(nftCollection,
		[]common.Address{artist, common.HexToAddress("0x00000000000000000000000000000000000A2716")},
		[]uint64{6000, 5000})
	if !errors.Is(err, registry.ErrBpsOutOfRange) {
		t.Fatalf("got %v, expected ErrBpsOutOfRange for total above 10000", err)
	}
}
