package campaign

import (
	"context"
	"math/big"

	"charm-donate-tui/chain"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Reader is the read side of the contract binding.
type Reader interface {
	ReadCampaigns(ctx context.Context) ([]chain.RawCampaign, error)
	ReadDonors(ctx context.Context, id uint64) ([]common.Address, []*big.Int, error)
}

// Submitter is the write side of the contract binding.
type Submitter interface {
	SubmitCampaign(ctx context.Context, opts *bind.TransactOpts, owner common.Address, title, description, image string) (*types.Transaction, error)
	SubmitDonation(ctx context.Context, opts *bind.TransactOpts, id uint64, amount *big.Int) (*types.Transaction, error)
	AwaitConfirmation(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Wallet is the slice of the session the write path needs.
type Wallet interface {
	CurrentAddress() (common.Address, bool)
	BindingForWrites(ctx context.Context) (*bind.TransactOpts, error)
}

// ImageProber is a single-shot predicate: can url be loaded as an image?
// Implementations fail closed, so a network error counts as not loadable.
type ImageProber interface {
	Probe(ctx context.Context, url string) bool
}
