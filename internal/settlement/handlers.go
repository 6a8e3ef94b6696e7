package settlement

import (
	"errors"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/nmxlabs/marketplace-api/internal/types"
	"github.com/nmxlabs/marketplace-api/pkg/response"
)

// GinHandlers contains HTTP handlers for settlement endpoints.
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// SettleHandler handles POST requests submitting a settlement batch.
// Batch-level rejections map to an error response; per-order outcomes
// travel in the response body of a successful call.
func (h *GinHandlers) SettleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SettleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if !common.IsHexAddress(req.Caller) {
			response.BadRequest(c, "caller must be a hex address")
			return
		}

		resp, err := h.service.Settle(common.HexToAddress(req.Caller), &req)
		switch {
		case errors.Is(err, ErrBatchMismatch):
			response.BadRequest(c, err.Error())
		case errors.Is(err, types.ErrAuthorizationExpired),
			errors.Is(err, types.ErrBadBatchSignature):
			response.EngineRejection(c, err)
		default:
			response.Handle(c, resp, err)
		}
	}
}

func (h *GinHandlers) GetRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID := c.Param("record_id")

		record, err := h.service.GetRecord(recordID)
		response.Handle(c, record, err)
	}
}

func (h *GinHandlers) ListRecordsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		normalize := func(addr string) string {
			if addr == "" {
				return ""
			}
			if !common.IsHexAddress(addr) {
				return addr // will match nothing
			}
			return common.HexToAddress(addr).Hex()
		}

		records, err := h.service.ListRecords(
			normalize(c.Query("owner")),
			normalize(c.Query("counterparty")),
			limit,
		)
		response.Handle(c, records, err)
	}
}

// GetFillHandler reports the cumulative fill for an order hash.
func (h *GinHandlers) GetFillHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := c.Param("order_hash")
		if len(hash) != 66 || hash[:2] != "0x" {
			response.BadRequest(c, "order hash must be a 32-byte hex string")
			return
		}

		filled, err := h.service.Fill(common.HexToHash(hash))
		response.Handle(c, gin.H{"order_hash": common.HexToHash(hash).Hex(), "filled": filled}, err)
	}
}
