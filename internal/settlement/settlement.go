// Package settlement orchestrates order settlement end-to-end: batch
// authorization, per-order hash and proof verification, fill
// accounting, fee- and royalty-aware asset flows, and atomic
// execution.
package settlement

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/nmxlabs/marketplace-api/internal/authorizer"
	"github.com/nmxlabs/marketplace-api/internal/events"
	"github.com/nmxlabs/marketplace-api/internal/fills"
	"github.com/nmxlabs/marketplace-api/internal/merkle"
	"github.com/nmxlabs/marketplace-api/internal/orderhash"
	"github.com/nmxlabs/marketplace-api/internal/registry"
	"github.com/nmxlabs/marketplace-api/internal/signer"
	"github.com/nmxlabs/marketplace-api/internal/tokens"
	"github.com/nmxlabs/marketplace-api/internal/transfer"
	"github.com/nmxlabs/marketplace-api/internal/types"
)

// ErrBatchMismatch is a caller error: the orders and hashes arrays
// must correspond index-wise.
var ErrBatchMismatch = errors.New("orders and hashes must have equal length")

// Service is the settlement engine.
type Service struct {
	db         *gorm.DB
	records    *Database
	authorizer *authorizer.Authorizer
	registry   *registry.Service
	helper     *transfer.Helper
	bus        *events.Bus

	// now is injectable for expiry tests.
	now func() time.Time
}

func NewService(gormDB *gorm.DB, auth *authorizer.Authorizer, reg *registry.Service, helper *transfer.Helper, bus *events.Bus) *Service {
	return &Service{
		db:         gormDB,
		records:    NewDatabase(gormDB),
		authorizer: auth,
		registry:   reg,
		helper:     helper,
		bus:        bus,
		now:        time.Now,
	}
}

// Settle processes one batch. Authorization failures reject the whole
// call; every other failure rejects only the affected order, whose
// database transaction rolls back while the rest of the batch stands.
func (s *Service) Settle(caller common.Address, req *SettleRequest) (*SettleResponse, error) {
	if len(req.Orders) != len(req.Hashes) {
		return nil, ErrBatchMismatch
	}

	now := s.now()
	logger := log.With().
		Str("caller", caller.Hex()).
		Int("batch_size", len(req.Orders)).
		Str("service", "settlement").
		Logger()
	logger.Info().Msg("starting settlement batch")

	if err := s.authorizer.Authorize(req.Hashes, req.BatchExpiration, req.BatchSignature, now); err != nil {
		logger.Warn().Err(err).Msg("batch authorization rejected")
		return nil, err
	}

	budget := new(big.Int)
	if req.AttachedValue != nil {
		budget.Set(req.AttachedValue)
	}
	spent := new(big.Int)

	resp := &SettleResponse{
		BatchSize: len(req.Orders),
		Outcomes:  make([]OrderOutcome, len(req.Orders)),
	}
	var settled []events.SettlementEvent

	for i := range req.Orders {
		order := &req.Orders[i]
		outcome := OrderOutcome{OrderHash: req.Hashes[i].Hex()}

		record, nativeSpent, err := s.settleOrder(caller, order, req.Hashes[i], budget, now)
		if err != nil {
			outcome.Code = rejectionCode(err)
			outcome.Error = err.Error()
			resp.Rejected++
			logger.Warn().
				Err(err).
				Str("order_hash", outcome.OrderHash).
				Str("code", outcome.Code).
				Msg("order rejected")
		} else {
			budget.Sub(budget, nativeSpent)
			spent.Add(spent, nativeSpent)
			outcome.Settled = true
			outcome.RecordID = record.RecordID
			resp.Settled++
			settled = append(settled, events.SettlementEvent{
				RecordID:     record.RecordID,
				OrderHash:    record.OrderHash,
				Owner:        record.Owner,
				Counterparty: record.Counterparty,
				Amount:       record.Amount,
				OrderType:    record.OrderType,
				Timestamp:    record.CreatedAt,
			})
		}
		resp.Outcomes[i] = outcome
	}
	resp.NativeSpent = spent.String()

	// Events go out only after the orders are durably committed.
	for _, evt := range settled {
		s.bus.Publish(evt)
	}

	logger.Info().
		Int("settled", resp.Settled).
		Int("rejected", resp.Rejected).
		Str("native_spent", resp.NativeSpent).
		Msg("settlement batch completed")
	return resp, nil
}

// settleOrder verifies and executes a single order inside its own
// transaction. nativeBudget is the caller's remaining attached value.
func (s *Service) settleOrder(caller common.Address, order *types.Order, submitted common.Hash, nativeBudget *big.Int, now time.Time) (*SettlementRecord, *big.Int, error) {
	if order.Expired(now) {
		return nil, nil, types.ErrOrderExpired
	}

	// The recomputed digest must match the authorized hash; a caller
	// substituting a different order than the one the backend approved
	// fails here.
	computed, err := orderhash.Hash(order)
	if err != nil {
		return nil, nil, err
	}
	if computed != submitted {
		return nil, nil, types.ErrHashMismatch
	}

	if !merkle.VerifyInclusion(computed, order.Proof, order.Root) {
		return nil, nil, types.ErrInvalidProof
	}
	if !signer.VerifyRootSignature(order.Root, order.RootSignature, order.Owner) {
		return nil, nil, types.ErrBadRootSignature
	}

	flows, err := s.computeFlows(order, caller)
	if err != nil {
		return nil, nil, err
	}

	record := &SettlementRecord{
		RecordID:     "STL_" + uuid.New().String(),
		OrderHash:    computed.Hex(),
		Owner:        order.Owner.Hex(),
		Counterparty: caller.Hex(),
		OrderType:    order.OrderType.String(),
		Amount:       order.Amount,
		GrossValue:   flows.gross.String(),
		FeeValue:     flows.fee.String(),
		RoyaltyValue: flows.royalty.String(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := fills.NewLedger(tx).Reserve(computed, order.Amount, order.TotalAmount); err != nil {
			return err
		}

		// Checked after the reserve, so a replayed order reports the
		// overfill rather than a value shortfall. A failure here rolls
		// the reservation back with the rest of the transaction.
		if flows.nativeFromCaller.Cmp(nativeBudget) > 0 {
			return types.ErrInsufficientValue
		}

		ledger := tokens.NewLedger(tx)
		for _, m := range flows.movements {
			if err := s.helper.Execute(ledger, m); err != nil {
				return err
			}
		}

		return s.records.CreateRecord(tx, record)
	})
	if err != nil {
		return nil, nil, err
	}

	return record, flows.nativeFromCaller, nil
}

// rejectionCode maps an order failure to its stable code for
// integrators.
func rejectionCode(err error) string {
	var engineErr *types.EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Code
	}
	return "INTERNAL_ERROR"
}

// Fill returns the cumulative executed amount for an order hash.
func (s *Service) Fill(orderHash common.Hash) (uint64, error) {
	return fills.NewLedger(s.db).Filled(orderHash)
}

// GetRecord retrieves a settlement record by ID.
func (s *Service) GetRecord(recordID string) (*SettlementRecord, error) {
	return s.records.GetRecord(recordID)
}

// ListRecords retrieves settlement records filtered by owner and/or
// counterparty.
func (s *Service) ListRecords(owner, counterparty string, limit int) ([]SettlementRecord, error) {
	return s.records.ListRecords(owner, counterparty, limit)
}

// WithClock replaces the engine's time source. Test support.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
