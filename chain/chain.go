package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/event"
)

// Gas estimates get a fixed 1.2x buffer before submission to reduce the
// chance of underpriced execution.
const (
	gasBufferNum = 12
	gasBufferDen = 10
)

// Binding is the single point of contact with the DonationPlatform contract.
// It carries no business logic.
type Binding struct {
	client   *ethclient.Client
	abi      abi.ABI
	contract *bind.BoundContract

	Address common.Address
	ChainID *big.Int
	URL     string
}

// RawCampaign mirrors the getCampaigns tuple layout. Field names must match
// the ABI component names for decoding.
type RawCampaign struct {
	Owner           common.Address
	Title           string
	Description     string
	AmountCollected *big.Int
	Image           string
	Donators        []common.Address
	Donations       []*big.Int
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Binding *Binding
	Error   error
}

// Connect attempts to connect to an Ethereum RPC endpoint and bind the
// donation contract at the given address.
func Connect(url string, contract common.Address) ConnectResult {
	return ConnectWithTimeout(url, contract, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, contract common.Address, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Binding: nil, Error: Classify(err)}
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return ConnectResult{Binding: nil, Error: Classify(err)}
	}

	parsed := parseABI()
	return ConnectResult{
		Binding: &Binding{
			client:   client,
			abi:      parsed,
			contract: bind.NewBoundContract(contract, parsed, client, client, client),
			Address:  contract,
			ChainID:  chainID,
			URL:      url,
		},
		Error: nil,
	}
}

// Close releases the underlying RPC client.
func (b *Binding) Close() {
	if b != nil && b.client != nil {
		b.client.Close()
	}
}

// ReadCampaigns issues the read-only getCampaigns call and returns the raw
// tuples in contract order.
func (b *Binding) ReadCampaigns(ctx context.Context) ([]RawCampaign, error) {
	if b == nil || b.client == nil {
		return nil, ErrUnavailable
	}

	var out []interface{}
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaigns"); err != nil {
		return nil, Classify(err)
	}

	raw := *abi.ConvertType(out[0], new([]RawCampaign)).(*[]RawCampaign)
	return raw, nil
}

// ReadDonors issues the read-only getDonators call for one campaign. The two
// returned sequences are parallel: index i pairs donor i with amount i.
func (b *Binding) ReadDonors(ctx context.Context, id uint64) ([]common.Address, []*big.Int, error) {
	if b == nil || b.client == nil {
		return nil, nil, ErrUnavailable
	}

	var out []interface{}
	err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getDonators", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, nil, Classify(err)
	}

	donors := *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)
	amounts := *abi.ConvertType(out[1], new([]*big.Int)).(*[]*big.Int)
	return donors, amounts, nil
}

// NumberOfCampaigns returns the contract's campaign counter. Used as a cheap
// probe that the contract is reachable on the connected network.
func (b *Binding) NumberOfCampaigns(ctx context.Context) (*big.Int, error) {
	if b == nil || b.client == nil {
		return nil, ErrUnavailable
	}

	var out []interface{}
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, "numberOfCampaigns"); err != nil {
		return nil, Classify(err)
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// SubmitCampaign estimates, buffers and submits a createCampaign transaction.
// opts must come from an authenticated wallet binding.
func (b *Binding) SubmitCampaign(ctx context.Context, opts *bind.TransactOpts, owner common.Address, title, description, image string) (*types.Transaction, error) {
	if b == nil || b.client == nil {
		return nil, ErrUnavailable
	}

	input, err := b.abi.Pack("createCampaign", owner, title, description, image)
	if err != nil {
		return nil, fmt.Errorf("pack createCampaign: %w", err)
	}

	gas, err := b.estimateWithBuffer(ctx, opts.From, nil, input)
	if err != nil {
		return nil, err
	}

	call := *opts
	call.Context = ctx
	call.GasLimit = gas

	tx, err := b.contract.Transact(&call, "createCampaign", owner, title, description, image)
	if err != nil {
		return nil, Classify(err)
	}
	return tx, nil
}

// SubmitDonation submits a payable donateToCampaign transaction carrying
// amount (in wei) as the value transfer.
func (b *Binding) SubmitDonation(ctx context.Context, opts *bind.TransactOpts, id uint64, amount *big.Int) (*types.Transaction, error) {
	if b == nil || b.client == nil {
		return nil, ErrUnavailable
	}

	idArg := new(big.Int).SetUint64(id)
	input, err := b.abi.Pack("donateToCampaign", idArg)
	if err != nil {
		return nil, fmt.Errorf("pack donateToCampaign: %w", err)
	}

	gas, err := b.estimateWithBuffer(ctx, opts.From, amount, input)
	if err != nil {
		return nil, err
	}

	call := *opts
	call.Context = ctx
	call.GasLimit = gas
	call.Value = amount

	tx, err := b.contract.Transact(&call, "donateToCampaign", idArg)
	if err != nil {
		return nil, Classify(err)
	}
	return tx, nil
}

// AwaitConfirmation blocks until the transaction is mined. It is bounded only
// by ctx; the network's finality time is not second-guessed here.
func (b *Binding) AwaitConfirmation(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if b == nil || b.client == nil {
		return nil, ErrUnavailable
	}

	receipt, err := bind.WaitMined(ctx, b.client, tx)
	if err != nil {
		return nil, Classify(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: tx %s", ErrTransactionFailed, tx.Hash().Hex())
	}
	return receipt, nil
}

// WatchCampaignCreated subscribes to CampaignCreated logs. Best-effort: HTTP
// endpoints do not support subscriptions and the caller falls back to manual
// refresh.
func (b *Binding) WatchCampaignCreated(ctx context.Context) (<-chan types.Log, event.Subscription, error) {
	if b == nil || b.client == nil {
		return nil, nil, ErrUnavailable
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{b.Address},
		Topics:    [][]common.Hash{{b.abi.Events["CampaignCreated"].ID}},
	}
	logs := make(chan types.Log, 8)
	sub, err := b.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, nil, Classify(err)
	}
	return logs, sub, nil
}

// DonationURI returns an EIP-681 URI that donates to the given campaign,
// suitable for QR display.
func (b *Binding) DonationURI(id uint64) string {
	if b == nil {
		return ""
	}
	chainID := "1"
	if b.ChainID != nil {
		chainID = b.ChainID.String()
	}
	return fmt.Sprintf("ethereum:%s@%s/donateToCampaign?uint256=%d", b.Address.Hex(), chainID, id)
}

func (b *Binding) estimateWithBuffer(ctx context.Context, from common.Address, value *big.Int, input []byte) (uint64, error) {
	msg := ethereum.CallMsg{
		From:  from,
		To:    &b.Address,
		Value: value,
		Data:  input,
	}
	estimate, err := b.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, Classify(err)
	}
	return estimate * gasBufferNum / gasBufferDen, nil
}
