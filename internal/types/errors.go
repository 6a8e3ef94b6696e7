package types

import "fmt"

// Stable rejection codes surfaced to integrators. Batch-level codes
// reject the whole settlement call; order-level codes reject a single
// order.
const (
	CodeAuthorizationExpired = "AUTHORIZATION_EXPIRED"
	CodeBadBatchSignature    = "BAD_BATCH_SIGNATURE"
	CodeOrderExpired         = "ORDER_EXPIRED"
	CodeHashMismatch         = "HASH_MISMATCH"
	CodeInvalidProof         = "INVALID_PROOF"
	CodeBadRootSignature     = "BAD_ROOT_SIGNATURE"
	CodeOverfill             = "OVERFILL"
	CodeInsufficientValue    = "INSUFFICIENT_VALUE"
	CodeTransferFailure      = "TRANSFER_FAILURE"
)

// EngineError is a typed settlement rejection. Two EngineErrors match
// under errors.Is when their codes are equal, so wrapped instances
// still compare against the sentinels below.
type EngineError struct {
	Code    string
	Message string
}

func (e *EngineError) Error() string {
	return e.Message
}

func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	return ok && t.Code == e.Code
}

var (
	ErrAuthorizationExpired = &EngineError{CodeAuthorizationExpired, "batch authorization has expired"}
	ErrBadBatchSignature    = &EngineError{CodeBadBatchSignature, "batch signature does not match the backend authority"}
	ErrOrderExpired         = &EngineError{CodeOrderExpired, "order has expired"}
	ErrHashMismatch         = &EngineError{CodeHashMismatch, "recomputed order hash does not match the submitted hash"}
	ErrInvalidProof         = &EngineError{CodeInvalidProof, "order hash is not included under the claimed root"}
	ErrBadRootSignature     = &EngineError{CodeBadRootSignature, "root signature does not match the order owner"}
	ErrOverfill             = &EngineError{CodeOverfill, "order fill amount exceeded"}
	ErrInsufficientValue    = &EngineError{CodeInsufficientValue, "attached native value does not cover the payment"}
	ErrTransferFailure      = &EngineError{CodeTransferFailure, "asset transfer was refused"}
)

// TransferFailed wraps an asset-contract refusal in the stable
// TRANSFER_FAILURE code while keeping the underlying cause in the
// message.
func TransferFailed(cause error) *EngineError {
	return &EngineError{CodeTransferFailure, fmt.Sprintf("asset transfer was refused: %v", cause)}
}
