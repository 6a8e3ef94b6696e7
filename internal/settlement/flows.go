package settlement

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/nmxlabs/marketplace-api/internal/registry"
	"github.com/nmxlabs/marketplace-api/internal/transfer"
	"github.com/nmxlabs/marketplace-api/internal/types"
)

// flowSet is the full set of asset movements one order settles with,
// plus the totals reported on the settlement record.
type flowSet struct {
	movements []transfer.Movement
	// nativeFromCaller is the caller's aggregate native spend, checked
	// against the call's attached value.
	nativeFromCaller *big.Int
	gross            decimal.Decimal
	fee              decimal.Decimal
	royalty          decimal.Decimal
}

func newFlowSet() *flowSet {
	return &flowSet{nativeFromCaller: new(big.Int)}
}

func (f *flowSet) move(asset types.Asset, from, to common.Address, caller common.Address) {
	if asset.Kind == types.Native && from == caller {
		f.nativeFromCaller.Add(f.nativeFromCaller, asset.Amount)
	}
	f.movements = append(f.movements, transfer.Movement{Asset: asset, From: from, To: to})
}

// computeFlows translates an order into concrete asset movements. The
// wildcard side needs no special handling here: its submitted asset
// already carries the concrete identifier, which the digest simply
// ignored.
func (s *Service) computeFlows(order *types.Order, caller common.Address) (*flowSet, error) {
	flows := newFlowSet()

	switch order.OrderType {
	case types.Swap:
		// Pure exchange, no fee or royalty.
		for _, bid := range order.Bid {
			flows.move(scaled(bid, order.Amount), order.Owner, caller, caller)
		}
		for _, ask := range order.Ask {
			flows.move(scaled(ask, order.Amount), caller, order.Owner, caller)
		}

	case types.BundleOrSingleToCurrencyOrNative:
		// The counterparty pays the ask side. Royalty applies only when
		// the bid is a single non-fungible or semi-fungible unit; a
		// bundle, or a currency bid, pays none.
		var royaltyCollection *common.Address
		if len(order.Bid) == 1 && !order.Bid[0].Currency() {
			royaltyCollection = &order.Bid[0].Collection
		}
		for _, ask := range order.Ask {
			if !ask.Currency() {
				return nil, fmt.Errorf("sale ask asset must be currency or native, got %s", ask.Kind)
			}
			if err := s.addPayment(flows, scaled(ask, order.Amount), caller, order.Owner, royaltyCollection, caller); err != nil {
				return nil, err
			}
		}
		for _, bid := range order.Bid {
			flows.move(scaled(bid, order.Amount), order.Owner, caller, caller)
		}

	case types.OfferToCurrencyOrMultiCurrency:
		// Roles reversed: the order owner pays the bid currencies for
		// the single unit the counterparty delivers.
		var royaltyCollection *common.Address
		if len(order.Ask) == 1 && !order.Ask[0].Currency() {
			royaltyCollection = &order.Ask[0].Collection
		}
		for _, bid := range order.Bid {
			if bid.Kind != types.FungibleToken {
				return nil, fmt.Errorf("offer bid asset must be a fungible token, got %s", bid.Kind)
			}
			if err := s.addPayment(flows, scaled(bid, order.Amount), order.Owner, caller, royaltyCollection, caller); err != nil {
				return nil, err
			}
		}
		for _, ask := range order.Ask {
			flows.move(scaled(ask, order.Amount), caller, order.Owner, caller)
		}

	default:
		return nil, fmt.Errorf("unsupported order type %d", order.OrderType)
	}

	return flows, nil
}

// addPayment splits one currency payment into the beneficiary fee,
// royalty cuts and the payee remainder. Every cut uses floor division
// on the gross amount; the remainder absorbs rounding.
func (s *Service) addPayment(flows *flowSet, payment types.Asset, payer, payee common.Address, royaltyCollection *common.Address, caller common.Address) error {
	gross := payment.Amount
	remainder := new(big.Int).Set(gross)

	fees, err := s.registry.ResolveFees(payment.Collection)
	if err != nil {
		return err
	}
	beneficiary, err := s.registry.Beneficiary()
	if err != nil {
		return err
	}

	feeCut := new(big.Int).Add(cutOf(gross, fees.BuyerFeeBps), cutOf(gross, fees.SellerFeeBps))
	remainder.Sub(remainder, feeCut)

	var royaltyCuts []transfer.Movement
	royaltyTotal := new(big.Int)
	if royaltyCollection != nil {
		royalties, err := s.registry.ResolveRoyalties(*royaltyCollection)
		if err != nil {
			return err
		}
		for _, r := range royalties {
			cut := cutOf(gross, r.Bps)
			if cut.Sign() == 0 {
				continue
			}
			royaltyTotal.Add(royaltyTotal, cut)
			remainder.Sub(remainder, cut)
			royaltyCuts = append(royaltyCuts, transfer.Movement{
				Asset: withAmount(payment, cut),
				From:  payer,
				To:    common.HexToAddress(r.Recipient),
			})
		}
	}

	if remainder.Sign() < 0 {
		return types.TransferFailed(errors.New("fee and royalty cuts exceed the gross payment"))
	}

	if feeCut.Sign() > 0 {
		flows.move(withAmount(payment, feeCut), payer, beneficiary, caller)
	}
	for _, cut := range royaltyCuts {
		flows.move(cut.Asset, cut.From, cut.To, caller)
	}
	if remainder.Sign() > 0 {
		flows.move(withAmount(payment, remainder), payer, payee, caller)
	}

	flows.gross = flows.gross.Add(decimal.NewFromBigInt(gross, 0))
	flows.fee = flows.fee.Add(decimal.NewFromBigInt(feeCut, 0))
	flows.royalty = flows.royalty.Add(decimal.NewFromBigInt(royaltyTotal, 0))
	return nil
}

var bpsDenominator = big.NewInt(registry.BpsDenominator)

func cutOf(gross *big.Int, bps uint64) *big.Int {
	cut := new(big.Int).Mul(gross, new(big.Int).SetUint64(bps))
	return cut.Quo(cut, bpsDenominator)
}

// scaled multiplies a divisible asset's quantity by the order's
// per-execution amount. Non-fungible units always move whole.
func scaled(asset types.Asset, multiplier uint64) types.Asset {
	out := asset
	amount := asset.Amount
	if amount == nil {
		amount = new(big.Int)
	}
	if asset.Fungible() && multiplier != 1 {
		out.Amount = new(big.Int).Mul(amount, new(big.Int).SetUint64(multiplier))
	} else {
		out.Amount = new(big.Int).Set(amount)
	}
	return out
}

func withAmount(asset types.Asset, amount *big.Int) types.Asset {
	out := asset
	out.Amount = amount
	return out
}
