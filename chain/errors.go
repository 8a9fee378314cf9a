package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// Error taxonomy surfaced by the binding. Callers match with errors.Is.
var (
	// ErrUnavailable means no network-capable handle exists.
	ErrUnavailable = errors.New("no rpc connection available")
	// ErrRemoteCall is the catch-all for reverted or unreachable calls.
	ErrRemoteCall = errors.New("contract call failed")
	// ErrWriteRejected means the signer declined the transaction.
	ErrWriteRejected = errors.New("transaction rejected by signer")
	// ErrInsufficientFunds means the account cannot cover value plus fee.
	ErrInsufficientFunds = errors.New("insufficient funds for transaction")
	// ErrNonce means stale transaction ordering.
	ErrNonce = errors.New("transaction nonce error")
	// ErrNetwork means the endpoint is unreachable or timed out.
	ErrNetwork = errors.New("network unreachable")
	// ErrTransactionFailed means execution reverted on-chain.
	ErrTransactionFailed = errors.New("transaction reverted on chain")
)

// EIP-1193 code for a user-rejected request.
const codeUserRejected = 4001

// Classify wraps err with the matching sentinel. The structured rpc error
// code is checked first, message substrings are the fallback.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeUserRejected {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "user rejected"), strings.Contains(msg, "user denied"):
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	case strings.Contains(msg, "insufficient funds"):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	case strings.Contains(msg, "nonce too low"),
		strings.Contains(msg, "nonce too high"),
		strings.Contains(msg, "replacement transaction"):
		return fmt.Errorf("%w: %v", ErrNonce, err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "i/o timeout"),
		strings.Contains(msg, "network is unreachable"):
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return fmt.Errorf("%w: %v", ErrRemoteCall, err)
}

// Describe turns a classified error into a single user-displayable message
// with a remediation hint where one exists.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWriteRejected):
		return "Transaction was rejected by user"
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient funds for transaction"
	case errors.Is(err, ErrNonce):
		return "Transaction nonce error. Please try again"
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrUnavailable):
		return "Network error. Check your connection and the active RPC endpoint"
	case errors.Is(err, ErrTransactionFailed):
		return "Transaction failed on chain"
	default:
		return err.Error()
	}
}
