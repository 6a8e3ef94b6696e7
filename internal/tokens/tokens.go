package tokens

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/nmxlabs/marketplace-api/internal/types"
	"github.com/nmxlabs/marketplace-api/pkg/response"
)

// Service exposes the seeding and query surface over the ledgers:
// minting, approvals and balance reads used by tests, the simulation
// and operators.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Ledger() *Ledger {
	return NewLedger(s.db)
}

// Mint credits an asset to an account on the matching ledger.
func (s *Service) Mint(kind types.AssetKind, collection common.Address, id *big.Int, account common.Address, amount *big.Int) error {
	ledger := s.Ledger()
	switch kind {
	case types.Native:
		return ledger.NativeMint(account, amount)
	case types.FungibleToken:
		return ledger.FungibleMint(collection, account, amount)
	case types.NonFungibleToken:
		return ledger.NFTMint(collection, id, account)
	case types.SemiFungibleToken:
		return ledger.SFTMint(collection, id, account, amount)
	}
	return fmt.Errorf("unsupported asset kind %d", kind)
}

// GinHandlers contains HTTP handlers for the token seeding endpoints.
type GinHandlers struct {
	service *Service
	// operator is the engine identity approvals are granted to.
	operator common.Address
}

func NewGinHandlers(service *Service, operator common.Address) *GinHandlers {
	return &GinHandlers{service: service, operator: operator}
}

type assetRequest struct {
	Kind       types.AssetKind `json:"kind"`
	Collection string          `json:"collection"`
	Account    string          `json:"account" binding:"required"`
	ID         string          `json:"id"`
	Amount     string          `json:"amount"`
}

func (r *assetRequest) parse() (collection, account common.Address, id, amount *big.Int, err error) {
	if r.Collection != "" && !common.IsHexAddress(r.Collection) {
		return collection, account, nil, nil, fmt.Errorf("collection must be a hex address")
	}
	if !common.IsHexAddress(r.Account) {
		return collection, account, nil, nil, fmt.Errorf("account must be a hex address")
	}
	collection = common.HexToAddress(r.Collection)
	account = common.HexToAddress(r.Account)

	id = new(big.Int)
	if r.ID != "" {
		if _, ok := id.SetString(r.ID, 10); !ok {
			return collection, account, nil, nil, fmt.Errorf("invalid token id %q", r.ID)
		}
	}
	amount = new(big.Int)
	if r.Amount != "" {
		if _, ok := amount.SetString(r.Amount, 10); !ok || amount.Sign() < 0 {
			return collection, account, nil, nil, fmt.Errorf("invalid amount %q", r.Amount)
		}
	}
	return collection, account, id, amount, nil
}

func (h *GinHandlers) MintHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request assetRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		collection, account, id, amount, err := request.parse()
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		if err := h.service.Mint(request.Kind, collection, id, account, amount); err != nil {
			response.Handle(c, nil, err)
			return
		}

		log.Debug().
			Str("kind", request.Kind.String()).
			Str("account", account.Hex()).
			Msg("minted asset")
		response.Success(c, gin.H{"minted": true})
	}
}

// ApproveHandler grants the engine identity authority over the
// account's assets: a token allowance for fungible collections, an
// operator approval otherwise.
func (h *GinHandlers) ApproveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request assetRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		collection, account, _, amount, err := request.parse()
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		ledger := h.service.Ledger()
		switch request.Kind {
		case types.FungibleToken:
			err = ledger.Approve(collection, account, h.operator, amount)
		case types.NonFungibleToken, types.SemiFungibleToken:
			err = ledger.SetOperatorApproval(collection, account, h.operator, true)
		default:
			response.BadRequest(c, "native value needs no approval")
			return
		}
		response.Handle(c, gin.H{"approved": true}, err)
	}
}

func (h *GinHandlers) BalanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		request := assetRequest{
			Kind:       types.Native,
			Collection: c.Query("collection"),
			Account:    c.Query("account"),
			ID:         c.Query("id"),
		}
		if k := c.Query("kind"); k != "" {
			if _, err := fmt.Sscanf(k, "%d", &request.Kind); err != nil {
				response.BadRequest(c, "invalid kind")
				return
			}
		}
		collection, account, id, _, err := request.parse()
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		ledger := h.service.Ledger()
		var balance *big.Int
		switch request.Kind {
		case types.Native:
			balance, err = ledger.NativeBalanceOf(account)
		case types.FungibleToken:
			balance, err = ledger.FungibleBalanceOf(collection, account)
		case types.NonFungibleToken:
			owner, ownerErr := ledger.NFTOwnerOf(collection, id)
			if ownerErr != nil {
				response.Handle(c, nil, ownerErr)
				return
			}
			response.Success(c, gin.H{"owner": owner.Hex()})
			return
		case types.SemiFungibleToken:
			balance, err = ledger.SFTBalanceOf(collection, id, account)
		}
		if err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.Success(c, gin.H{"balance": balance.String()})
	}
}
