package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeRPCError mimics a structured JSON-RPC error with a code.
type fakeRPCError struct {
	code int
	msg  string
}

func (e *fakeRPCError) Error() string  { return e.msg }
func (e *fakeRPCError) ErrorCode() int { return e.code }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"structured user rejection", &fakeRPCError{code: 4001, msg: "request denied"}, ErrWriteRejected},
		{"user rejected substring", errors.New("user rejected transaction"), ErrWriteRejected},
		{"user denied substring", errors.New("MetaMask Tx Signature: User denied transaction signature"), ErrWriteRejected},
		{"insufficient funds", errors.New("insufficient funds for gas * price + value"), ErrInsufficientFunds},
		{"nonce too low", errors.New("nonce too low"), ErrNonce},
		{"nonce too high", errors.New("nonce too high"), ErrNonce},
		{"replacement underpriced", errors.New("replacement transaction underpriced"), ErrNonce},
		{"connection refused", errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"), ErrNetwork},
		{"dns failure", errors.New("dial tcp: lookup rpc.invalid: no such host"), ErrNetwork},
		{"timeout", fmt.Errorf("request failed: %w", context.DeadlineExceeded), ErrNetwork},
		{"unknown falls back to remote call", errors.New("execution reverted"), ErrRemoteCall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyKeepsCause(t *testing.T) {
	cause := errors.New("nonce too low: next nonce 42")
	got := Classify(cause)

	if !errors.Is(got, ErrNonce) {
		t.Fatalf("Expected ErrNonce, got %v", got)
	}
	if got.Error() == ErrNonce.Error() {
		t.Error("Expected the original message to be preserved in the wrapped error")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: denied", ErrWriteRejected), "Transaction was rejected by user"},
		{fmt.Errorf("%w: broke", ErrInsufficientFunds), "Insufficient funds for transaction"},
		{fmt.Errorf("%w: stale", ErrNonce), "Transaction nonce error. Please try again"},
		{fmt.Errorf("%w: down", ErrNetwork), "Network error. Check your connection and the active RPC endpoint"},
		{ErrUnavailable, "Network error. Check your connection and the active RPC endpoint"},
		{fmt.Errorf("%w: tx 0xabc", ErrTransactionFailed), "Transaction failed on chain"},
		{errors.New("Title: cannot be blank."), "Title: cannot be blank."},
	}

	for _, tt := range tests {
		if got := Describe(tt.err); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
