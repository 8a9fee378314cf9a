package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
)

// KeystoreProvider implements Provider over a local go-ethereum keystore
// directory. Authorization means a successful passphrase unlock of the first
// account; until then the silent probe reports no accounts.
type KeystoreProvider struct {
	ks *keystore.KeyStore

	mu         sync.Mutex
	passphrase string
	authorized bool

	events    chan Event
	sub       event.Subscription
	done      chan struct{}
	closeOnce sync.Once
}

// NewKeystoreProvider opens (or creates) the keystore at dir and starts
// listening for account arrival and removal.
func NewKeystoreProvider(dir string) *KeystoreProvider {
	ks := keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
	p := &KeystoreProvider{
		ks:     ks,
		events: make(chan Event, 8),
		done:   make(chan struct{}),
	}

	sink := make(chan accounts.WalletEvent, 8)
	p.sub = ks.Subscribe(sink)
	go p.pump(sink)

	return p
}

// SetPassphrase stores the passphrase used by the next RequestAccounts call.
// The TUI collects it from the user right before connecting.
func (p *KeystoreProvider) SetPassphrase(passphrase string) {
	p.mu.Lock()
	p.passphrase = passphrase
	p.mu.Unlock()
}

// Accounts returns the keystore addresses only when a previous unlock
// succeeded. No prompt, no side effects.
func (p *KeystoreProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.authorized {
		return nil, nil
	}
	return p.addressesLocked(), nil
}

// RequestAccounts authorizes the session by unlocking the first keystore
// account with the stored passphrase. A failed unlock is the signer
// declining: ErrConnectRejected.
func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	accts := p.ks.Accounts()
	if len(accts) == 0 {
		return nil, ErrNoAccounts
	}

	if err := p.ks.Unlock(accts[0], p.passphrase); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectRejected, err)
	}

	p.authorized = true
	return p.addressesLocked(), nil
}

// Transactor derives an authenticated binding for addr on chainID.
func (p *KeystoreProvider) Transactor(ctx context.Context, addr common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.authorized {
		return nil, ErrNotConnected
	}

	for _, a := range p.ks.Accounts() {
		if a.Address == addr {
			return bind.NewKeyStoreTransactorWithChainID(p.ks, a, chainID)
		}
	}
	return nil, fmt.Errorf("%w: account %s not in keystore", ErrNotConnected, addr.Hex())
}

// Events delivers account-change notifications derived from the keystore
// backend subscription.
func (p *KeystoreProvider) Events() <-chan Event {
	return p.events
}

// Close deregisters the keystore subscription. Idempotent, so teardown and
// re-initialization never leak or double-remove a handler.
func (p *KeystoreProvider) Close() {
	p.closeOnce.Do(func() {
		p.sub.Unsubscribe()
		close(p.done)
	})
}

func (p *KeystoreProvider) pump(sink chan accounts.WalletEvent) {
	for {
		select {
		case <-p.done:
			return
		case <-p.sub.Err():
			// Backend subscription is gone. Closing the channel tells the
			// listener no further account changes will be observed.
			close(p.events)
			return
		case _, ok := <-sink:
			if !ok {
				return
			}
			p.mu.Lock()
			accts := []common.Address(nil)
			if p.authorized {
				accts = p.addressesLocked()
			}
			p.mu.Unlock()

			select {
			case p.events <- Event{Type: EventAccountsChanged, Accounts: accts}:
			case <-p.done:
				return
			}
		}
	}
}

func (p *KeystoreProvider) addressesLocked() []common.Address {
	accts := p.ks.Accounts()
	addrs := make([]common.Address, 0, len(accts))
	for _, a := range accts {
		addrs = append(addrs, a.Address)
	}
	return addrs
}
