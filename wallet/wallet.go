// Package wallet tracks the connection lifecycle of the signing account:
// are we connected, as whom, and bound to what.
package wallet

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNoProvider means no wallet provider is available at all.
	ErrNoProvider = errors.New("no wallet provider available")
	// ErrNotConnected means the operation needs an authenticated session.
	ErrNotConnected = errors.New("wallet not connected")
	// ErrConnectRejected means the connect attempt was declined.
	ErrConnectRejected = errors.New("wallet connection rejected")
	// ErrNoAccounts means the provider holds no accounts to connect.
	ErrNoAccounts = errors.New("wallet provider has no accounts")
)

// EventType discriminates provider notifications.
type EventType int

const (
	// EventAccountsChanged reports the new (possibly empty) account set.
	EventAccountsChanged EventType = iota
	// EventChainChanged reports a network switch; all bindings are stale.
	EventChainChanged
)

// Event is a provider notification.
type Event struct {
	Type     EventType
	Accounts []common.Address
	ChainID  *big.Int
}

// Provider abstracts the user's signing agent: account discovery,
// authorization, transactor derivation and change notifications.
type Provider interface {
	// Accounts probes for pre-authorized accounts without prompting.
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts requests authorization and may prompt the user.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Transactor derives an authenticated binding for addr on chainID.
	Transactor(ctx context.Context, addr common.Address, chainID *big.Int) (*bind.TransactOpts, error)
	// Events delivers account and network change notifications.
	Events() <-chan Event
	// Close deregisters provider subscriptions. Safe to call twice.
	Close()
}

// Session is the single source of truth for the wallet connection. Address,
// connected flag and write binding always change together under one lock so
// no caller can observe a torn state.
type Session struct {
	mu       sync.Mutex
	provider Provider
	chainID  *big.Int

	addr      common.Address
	connected bool
	binding   *bind.TransactOpts
	boundTo   common.Address
}

// NewSession creates an uninitialized session over the given provider.
func NewSession(provider Provider, chainID *big.Int) *Session {
	return &Session{provider: provider, chainID: chainID}
}

// Probe looks for a pre-authorized account without prompting. Run once on
// load; the session moves to Connected or Disconnected accordingly.
func (s *Session) Probe(ctx context.Context) (common.Address, bool, error) {
	if s.provider == nil {
		return common.Address{}, false, ErrNoProvider
	}

	accts, err := s.provider.Accounts(ctx)
	if err != nil {
		return common.Address{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(accts) == 0 {
		s.clearLocked()
		return common.Address{}, false, nil
	}
	s.addr = accts[0]
	s.connected = true
	return s.addr, true, nil
}

// Connect explicitly requests authorization, which may prompt the user.
// A decline surfaces as ErrConnectRejected and the session stays disconnected.
func (s *Session) Connect(ctx context.Context) (common.Address, error) {
	if s.provider == nil {
		return common.Address{}, ErrNoProvider
	}

	accts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if len(accts) == 0 {
		return common.Address{}, ErrNoAccounts
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.addr = accts[0]
	s.connected = true
	s.binding = nil
	s.boundTo = common.Address{}
	return s.addr, nil
}

// CurrentAddress returns the connected address, if any.
func (s *Session) CurrentAddress() (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr, s.connected
}

// IsConnected reports whether an authorized account is active.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// BindingForWrites returns an authenticated binding for the connected
// account. The binding is rebuilt lazily: after an account switch the stale
// one is discarded here, on the next write attempt, not eagerly on every
// switch.
func (s *Session) BindingForWrites(ctx context.Context) (*bind.TransactOpts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, ErrNotConnected
	}
	if s.binding != nil && s.boundTo == s.addr {
		return s.binding, nil
	}

	opts, err := s.provider.Transactor(ctx, s.addr, s.chainID)
	if err != nil {
		return nil, err
	}
	s.binding = opts
	s.boundTo = s.addr
	return opts, nil
}

// HandleAccountsChanged applies an external accounts-changed notification.
// Empty forces Disconnected and clears the binding regardless of prior
// state; non-empty connects as the first account and invalidates the binding
// without rebuilding it.
func (s *Session) HandleAccountsChanged(accts []common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(accts) == 0 {
		s.clearLocked()
		return
	}
	if s.addr != accts[0] {
		s.binding = nil
		s.boundTo = common.Address{}
	}
	s.addr = accts[0]
	s.connected = true
}

// Reset tears the session down completely. Used on network change, where no
// cached state from the old network is safe to reuse.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Events exposes the provider's notification channel.
func (s *Session) Events() <-chan Event {
	if s.provider == nil {
		return nil
	}
	return s.provider.Events()
}

func (s *Session) clearLocked() {
	s.addr = common.Address{}
	s.connected = false
	s.binding = nil
	s.boundTo = common.Address{}
}
