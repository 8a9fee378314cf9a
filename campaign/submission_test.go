package campaign

import (
	"context"
	"math/big"
	"testing"

	"charm-donate-tui/chain"
	"charm-donate-tui/wallet"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubmitter records write calls and returns canned results.
type fakeSubmitter struct {
	submitCampaigns int
	submitDonations int
	awaits          int

	submitErr error
	awaitErr  error

	lastValue *big.Int
}

func dummyTx() *types.Transaction {
	to := common.BytesToAddress([]byte{9})
	return types.NewTx(&types.LegacyTx{Nonce: 1, To: &to, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})
}

func (f *fakeSubmitter) SubmitCampaign(ctx context.Context, opts *bind.TransactOpts, owner common.Address, title, description, image string) (*types.Transaction, error) {
	f.submitCampaigns++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return dummyTx(), nil
}

func (f *fakeSubmitter) SubmitDonation(ctx context.Context, opts *bind.TransactOpts, id uint64, amount *big.Int) (*types.Transaction, error) {
	f.submitDonations++
	f.lastValue = amount
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return dummyTx(), nil
}

func (f *fakeSubmitter) AwaitConfirmation(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	f.awaits++
	if f.awaitErr != nil {
		return nil, f.awaitErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

// fakeWallet is a connected or disconnected session stand-in.
type fakeWallet struct {
	addr      common.Address
	connected bool
	bindings  int
}

func (f *fakeWallet) CurrentAddress() (common.Address, bool) {
	return f.addr, f.connected
}

func (f *fakeWallet) BindingForWrites(ctx context.Context) (*bind.TransactOpts, error) {
	if !f.connected {
		return nil, wallet.ErrNotConnected
	}
	f.bindings++
	return &bind.TransactOpts{From: f.addr}, nil
}

// fakeProber answers every probe the same way.
type fakeProber struct {
	ok     bool
	probes int
}

func (f *fakeProber) Probe(ctx context.Context, url string) bool {
	f.probes++
	return f.ok
}

func validForm() CreateForm {
	return CreateForm{
		Title:       "Save the turtles",
		Description: "A very good cause",
		Image:       "https://example.com/turtle.png",
	}
}

func newTestSubmission(w Wallet, sub Submitter, reader Reader, prober ImageProber) *Submission {
	return NewSubmission(w, sub, NewRepository(reader, quietLogger()), prober, quietLogger())
}

func TestCreateCampaignValidationBlocksNetworkCalls(t *testing.T) {
	sub := &fakeSubmitter{}
	prober := &fakeProber{ok: true}
	svc := newTestSubmission(&fakeWallet{connected: true}, sub, &fakeReader{}, prober)

	tests := []CreateForm{
		{},
		{Title: "x", Description: "y"},                               // missing image
		{Title: "   ", Description: "y", Image: "https://a.io/i.png"}, // whitespace-only title
		{Title: "x", Description: "y", Image: "not a url"},
	}

	for _, form := range tests {
		err := svc.CreateCampaign(context.Background(), form)
		assert.Error(t, err, "form %+v", form)
	}

	assert.Zero(t, prober.probes, "invalid forms must not reach the image probe")
	assert.Zero(t, sub.submitCampaigns, "invalid forms must not reach the chain")
}

func TestCreateCampaignImageProbeFailsClosed(t *testing.T) {
	sub := &fakeSubmitter{}
	svc := newTestSubmission(&fakeWallet{connected: true}, sub, &fakeReader{}, &fakeProber{ok: false})

	err := svc.CreateCampaign(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Zero(t, sub.submitCampaigns)
}

func TestCreateCampaignRequiresConnection(t *testing.T) {
	sub := &fakeSubmitter{}
	svc := newTestSubmission(&fakeWallet{connected: false}, sub, &fakeReader{}, &fakeProber{ok: true})

	err := svc.CreateCampaign(context.Background(), validForm())
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	assert.Zero(t, sub.submitCampaigns)
}

func TestCreateCampaignRejectionPropagates(t *testing.T) {
	sub := &fakeSubmitter{submitErr: chain.ErrWriteRejected}
	svc := newTestSubmission(&fakeWallet{addr: addr(7), connected: true}, sub, &fakeReader{}, &fakeProber{ok: true})

	err := svc.CreateCampaign(context.Background(), validForm())
	assert.ErrorIs(t, err, chain.ErrWriteRejected)
	assert.Zero(t, sub.awaits, "a failed submission must not wait for confirmation")
}

func TestCreateCampaignSuccess(t *testing.T) {
	sub := &fakeSubmitter{}
	w := &fakeWallet{addr: addr(7), connected: true}
	svc := newTestSubmission(w, sub, &fakeReader{}, &fakeProber{ok: true})

	err := svc.CreateCampaign(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, 1, sub.submitCampaigns)
	assert.Equal(t, 1, sub.awaits)
	assert.Equal(t, 1, w.bindings)
}

func TestDonateParsesBeforeAnyNetworkCall(t *testing.T) {
	sub := &fakeSubmitter{}
	w := &fakeWallet{addr: addr(7), connected: true}
	svc := newTestSubmission(w, sub, &fakeReader{}, &fakeProber{ok: true})

	for _, amount := range []string{"", "0", "-1", "abc"} {
		_, _, err := svc.Donate(context.Background(), 0, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %q", amount)
	}

	assert.Zero(t, sub.submitDonations)
	assert.Zero(t, w.bindings)
}

func TestDonateSuccessRefreshesCampaign(t *testing.T) {
	rc := rawCampaign("turtles")
	rc.AmountCollected = big.NewInt(42)
	reader := &fakeReader{
		campaigns: []chain.RawCampaign{rc},
		donors:    []common.Address{addr(3)},
		donations: []*big.Int{big.NewInt(42)},
	}

	sub := &fakeSubmitter{}
	svc := newTestSubmission(&fakeWallet{addr: addr(7), connected: true}, sub, reader, &fakeProber{ok: true})

	refreshed, ledger, err := svc.Donate(context.Background(), 0, "0.1")
	require.NoError(t, err)

	// "0.1" ETH travels as exactly 10^17 wei
	require.NotNil(t, sub.lastValue)
	assert.Equal(t, "100000000000000000", sub.lastValue.String())

	assert.Equal(t, "turtles", refreshed.Title)
	assert.Equal(t, big.NewInt(42), refreshed.AmountCollected)
	require.Len(t, ledger, 1)
	assert.Equal(t, addr(3), ledger[0].Donor)
	assert.Equal(t, 1, sub.awaits)
}

func TestDonateFailedConfirmation(t *testing.T) {
	sub := &fakeSubmitter{awaitErr: chain.ErrTransactionFailed}
	svc := newTestSubmission(&fakeWallet{addr: addr(7), connected: true}, sub, &fakeReader{}, &fakeProber{ok: true})

	_, _, err := svc.Donate(context.Background(), 0, "1")
	assert.ErrorIs(t, err, chain.ErrTransactionFailed)
}

func TestTrimmedFieldsAreSubmitted(t *testing.T) {
	form := CreateForm{
		Title:       "  padded  ",
		Description: "\tstory\n",
		Image:       " https://example.com/i.png ",
	}

	trimmed := form.Trimmed()
	assert.Equal(t, "padded", trimmed.Title)
	assert.Equal(t, "story", trimmed.Description)
	assert.Equal(t, "https://example.com/i.png", trimmed.Image)
	assert.NoError(t, trimmed.Validate())
}
