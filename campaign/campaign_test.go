package campaign

import (
	"context"
	"errors"
	"io"
	"math/big"
	"testing"

	"charm-donate-tui/chain"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves canned contract data.
type fakeReader struct {
	campaigns    []chain.RawCampaign
	campaignsErr error

	donors    []common.Address
	donations []*big.Int
	donorsErr error
}

func (f *fakeReader) ReadCampaigns(ctx context.Context) ([]chain.RawCampaign, error) {
	return f.campaigns, f.campaignsErr
}

func (f *fakeReader) ReadDonors(ctx context.Context, id uint64) ([]common.Address, []*big.Int, error) {
	return f.donors, f.donations, f.donorsErr
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func addr(b byte) common.Address {
	return common.BytesToAddress([]byte{b})
}

func rawCampaign(title string) chain.RawCampaign {
	return chain.RawCampaign{
		Owner:           addr(1),
		Title:           title,
		Description:     "a cause",
		AmountCollected: big.NewInt(100),
		Image:           "https://example.com/img.png",
	}
}

func TestListAllKeepsContractOrder(t *testing.T) {
	reader := &fakeReader{campaigns: []chain.RawCampaign{
		rawCampaign("first"),
		rawCampaign("second"),
		rawCampaign("third"),
	}}
	repo := NewRepository(reader, quietLogger())

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Position i always carries ID i; IDs are donation targets, so any
	// reordering would redirect money.
	for i, c := range got {
		assert.Equal(t, uint64(i), c.ID)
	}
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "third", got[2].Title)
}

func TestListAllEmpty(t *testing.T) {
	repo := NewRepository(&fakeReader{}, quietLogger())

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListAllPropagatesError(t *testing.T) {
	boom := errors.New("rpc down")
	repo := NewRepository(&fakeReader{campaignsErr: boom}, quietLogger())

	_, err := repo.ListAll(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDetailNotFound(t *testing.T) {
	reader := &fakeReader{campaigns: []chain.RawCampaign{rawCampaign("only")}}
	repo := NewRepository(reader, quietLogger())

	_, err := repo.Detail(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repo.Detail(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "only", got.Title)
}

func TestDonorLedgerPairsSequences(t *testing.T) {
	reader := &fakeReader{
		donors:    []common.Address{addr(1), addr(2)},
		donations: []*big.Int{big.NewInt(10), big.NewInt(20)},
	}
	repo := NewRepository(reader, quietLogger())

	ledger, err := repo.DonorLedger(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, addr(1), ledger[0].Donor)
	assert.Equal(t, big.NewInt(10), ledger[0].Amount)
	assert.Equal(t, addr(2), ledger[1].Donor)
	assert.Equal(t, big.NewInt(20), ledger[1].Amount)
}

func TestDonorLedgerLengthMismatch(t *testing.T) {
	reader := &fakeReader{
		donors:    []common.Address{addr(1), addr(2)},
		donations: []*big.Int{big.NewInt(10)},
	}
	repo := NewRepository(reader, quietLogger())

	_, err := repo.DonorLedger(context.Background(), 0)
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestDonorLedgerReadFailureIsNotFatal(t *testing.T) {
	reader := &fakeReader{donorsErr: errors.New("rpc down")}
	repo := NewRepository(reader, quietLogger())

	ledger, err := repo.DonorLedger(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestMapCampaignNilAmount(t *testing.T) {
	rc := rawCampaign("x")
	rc.AmountCollected = nil

	c := mapCampaign(0, rc)
	require.NotNil(t, c.AmountCollected)
	assert.Zero(t, c.AmountCollected.Sign())
}
