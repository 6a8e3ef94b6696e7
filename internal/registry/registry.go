// Package registry resolves the protocol fee rates and royalty
// recipients applied around a settlement, and exposes the
// administrative surface for changing them.
package registry

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/nmxlabs/marketplace-api/pkg/response"
)

var (
	ErrBpsOutOfRange  = errors.New("rate exceeds 10000 basis points")
	ErrLengthMismatch = errors.New("recipients and rates must have equal length")
)

// Service is the fee/royalty resolver backed by persisted
// configuration.
type Service struct {
	db *Database
}

// NewService creates the resolver and seeds the fees beneficiary when
// no value has been persisted yet.
func NewService(gormDB *gorm.DB, defaultBeneficiary common.Address) (*Service, error) {
	s := &Service{db: NewDatabase(gormDB)}

	current, err := s.db.GetSetting(settingBeneficiary)
	if err != nil {
		return nil, err
	}
	if current == "" {
		if err := s.db.PutSetting(settingBeneficiary, defaultBeneficiary.Hex()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ResolveFees returns the fee pair for a payment asset's collection,
// falling back to the zero-address default row. Collections with no
// configuration at all pay no fee.
func (s *Service) ResolveFees(collection common.Address) (FeeConfig, error) {
	config, err := s.db.GetFeeConfig(collection.Hex())
	if err != nil {
		return FeeConfig{}, err
	}
	if config == nil && collection != (common.Address{}) {
		config, err = s.db.GetFeeConfig(common.Address{}.Hex())
		if err != nil {
			return FeeConfig{}, err
		}
	}
	if config == nil {
		return FeeConfig{Collection: collection.Hex()}, nil
	}
	return *config, nil
}

// ResolveRoyalties returns the registered royalty recipients for a
// collection, possibly empty.
func (s *Service) ResolveRoyalties(collection common.Address) ([]Royalty, error) {
	return s.db.GetRoyalties(collection.Hex())
}

// Beneficiary returns the current marketplace fees beneficiary.
func (s *Service) Beneficiary() (common.Address, error) {
	value, err := s.db.GetSetting(settingBeneficiary)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid beneficiary setting: %q", value)
	}
	return common.HexToAddress(value), nil
}

func (s *Service) SetBeneficiary(beneficiary common.Address) error {
	log.Info().Str("beneficiary", beneficiary.Hex()).Msg("changing fees beneficiary")
	return s.db.PutSetting(settingBeneficiary, beneficiary.Hex())
}

func (s *Service) SetCollectionFee(collection common.Address, buyerBps, sellerBps uint64) error {
	if buyerBps > BpsDenominator || sellerBps > BpsDenominator {
		return ErrBpsOutOfRange
	}

	log.Info().
		Str("collection", collection.Hex()).
		Uint64("buyer_fee_bps", buyerBps).
		Uint64("seller_fee_bps", sellerBps).
		Msg("changing collection fee")

	return s.db.UpsertFeeConfig(&FeeConfig{
		Collection:   collection.Hex(),
		BuyerFeeBps:  buyerBps,
		SellerFeeBps: sellerBps,
	})
}

// SetCollectionRoyalties replaces the collection's registered
// recipients. Recipients and rates correspond index-wise.
func (s *Service) SetCollectionRoyalties(collection common.Address, recipients []common.Address, bps []uint64) error {
	if len(recipients) != len(bps) {
		return ErrLengthMismatch
	}

	royalties := make([]Royalty, len(recipients))
	var total uint64
	for i := range recipients {
		if bps[i] > BpsDenominator {
			return ErrBpsOutOfRange
		}
		total += bps[i]
		royalties[i] = Royalty{
			Collection: collection.Hex(),
			Recipient:  recipients[i].Hex(),
			Bps:        bps[i],
		}
	}
	if total > BpsDenominator {
		return ErrBpsOutOfRange
	}

	log.Info().
		Str("collection", collection.Hex()).
		Int("recipients", len(recipients)).
		Msg("changing collection royalties")

	return s.db.ReplaceRoyalties(collection.Hex(), royalties)
}

// GinHandlers contains HTTP handlers for the administrative
// configuration endpoints.
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

func (h *GinHandlers) UpdateBeneficiaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Beneficiary string `json:"beneficiary" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if !common.IsHexAddress(request.Beneficiary) {
			response.BadRequest(c, "beneficiary must be a hex address")
			return
		}

		err := h.service.SetBeneficiary(common.HexToAddress(request.Beneficiary))
		response.Handle(c, gin.H{"beneficiary": request.Beneficiary}, err)
	}
}

func (h *GinHandlers) UpdateCollectionFeeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Param("collection")
		if !common.IsHexAddress(collection) {
			response.BadRequest(c, "collection must be a hex address")
			return
		}

		var request struct {
			BuyerFeeBps  uint64 `json:"buyer_fee_bps"`
			SellerFeeBps uint64 `json:"seller_fee_bps"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		err := h.service.SetCollectionFee(common.HexToAddress(collection), request.BuyerFeeBps, request.SellerFeeBps)
		if errors.Is(err, ErrBpsOutOfRange) {
			response.BadRequest(c, err.Error())
			return
		}
		response.Handle(c, gin.H{"collection": collection}, err)
	}
}

func (h *GinHandlers) UpdateCollectionRoyaltiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Param("collection")
		if !common.IsHexAddress(collection) {
			response.BadRequest(c, "collection must be a hex address")
			return
		}

		var request struct {
			Recipients []string `json:"recipients"`
			Bps        []uint64 `json:"bps"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		recipients := make([]common.Address, len(request.Recipients))
		for i, r := range request.Recipients {
			if !common.IsHexAddress(r) {
				response.BadRequest(c, "recipients must be hex addresses")
				return
			}
			recipients[i] = common.HexToAddress(r)
		}

		err := h.service.SetCollectionRoyalties(common.HexToAddress(collection), recipients, request.Bps)
		if errors.Is(err, ErrBpsOutOfRange) || errors.Is(err, ErrLengthMismatch) {
			response.BadRequest(c, err.Error())
			return
		}
		response.Handle(c, gin.H{"collection": collection}, err)
	}
}

func (h *GinHandlers) GetCollectionConfigHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Param("collection")
		if !common.IsHexAddress(collection) {
			response.BadRequest(c, "collection must be a hex address")
			return
		}

		fees, err := h.service.ResolveFees(common.HexToAddress(collection))
		if err != nil {
			response.Handle(c, nil, err)
			return
		}
		royalties, err := h.service.ResolveRoyalties(common.HexToAddress(collection))
		response.Handle(c, gin.H{"fees": fees, "royalties": royalties}, err)
	}
}
