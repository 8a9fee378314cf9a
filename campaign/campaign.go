// Package campaign turns raw contract tuples into typed, application-ready
// records and owns the validated write path.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"charm-donate-tui/chain"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotFound means the campaign id is out of range of the full list.
	ErrNotFound = errors.New("campaign not found")
	// ErrDataIntegrity means the donor and amount sequences disagree.
	ErrDataIntegrity = errors.New("donor ledger is inconsistent")
)

// Campaign is one fundraising record held by the contract. ID is the
// sequential index the contract assigned; amounts stay in wei as big
// integers end to end.
type Campaign struct {
	ID              uint64
	Owner           common.Address
	Title           string
	Description     string
	Image           string
	AmountCollected *big.Int
	DonationCount   int
}

// Donation is one paired entry of a campaign's donor ledger.
type Donation struct {
	Donor  common.Address
	Amount *big.Int
}

// Repository produces campaign data from binding reads. There is no cache:
// re-fetch is the only invalidation strategy, and every write is followed by
// a fresh read of the affected record.
type Repository struct {
	reader Reader
	logger *log.Logger
}

// NewRepository creates a repository over the given reader.
func NewRepository(reader Reader, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.Default()
	}
	return &Repository{reader: reader, logger: logger}
}

// ListAll fetches every campaign in contract order. The element at position
// i always has ID i; an empty list is a valid result.
func (r *Repository) ListAll(ctx context.Context) ([]Campaign, error) {
	raw, err := r.reader.ReadCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	campaigns := make([]Campaign, 0, len(raw))
	for i, rc := range raw {
		campaigns = append(campaigns, mapCampaign(uint64(i), rc))
	}
	return campaigns, nil
}

// Detail returns a single campaign. The contract exposes no single-record
// read with ledger attached, so detail is fetch-all-and-index; do not
// replace this with a call the contract does not have.
func (r *Repository) Detail(ctx context.Context, id uint64) (Campaign, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return Campaign{}, err
	}
	if id >= uint64(len(all)) {
		return Campaign{}, fmt.Errorf("%w: id %d of %d", ErrNotFound, id, len(all))
	}
	return all[id], nil
}

// DonorLedger pairs the contract's two parallel sequences into donation
// records. A length mismatch is fatal for the read; a failed read is not,
// donor history is non-critical and renders as an empty ledger.
func (r *Repository) DonorLedger(ctx context.Context, id uint64) ([]Donation, error) {
	donors, amounts, err := r.reader.ReadDonors(ctx, id)
	if err != nil {
		r.logger.Warn("donor ledger read failed, rendering empty", "campaign", id, "err", err)
		return []Donation{}, nil
	}

	if len(donors) != len(amounts) {
		return nil, fmt.Errorf("%w: %d donors vs %d amounts for campaign %d",
			ErrDataIntegrity, len(donors), len(amounts), id)
	}

	ledger := make([]Donation, 0, len(donors))
	for i := range donors {
		ledger = append(ledger, Donation{Donor: donors[i], Amount: amounts[i]})
	}
	return ledger, nil
}

func mapCampaign(id uint64, rc chain.RawCampaign) Campaign {
	collected := rc.AmountCollected
	if collected == nil {
		collected = big.NewInt(0)
	}
	return Campaign{
		ID:              id,
		Owner:           rc.Owner,
		Title:           rc.Title,
		Description:     rc.Description,
		Image:           rc.Image,
		AmountCollected: collected,
		DonationCount:   len(rc.Donators),
	}
}
