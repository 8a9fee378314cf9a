package chain

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestParseABI(t *testing.T) {
	parsed := parseABI()

	for _, method := range []string{"createCampaign", "donateToCampaign", "getCampaigns", "getDonators", "numberOfCampaigns", "campaigns"} {
		if _, ok := parsed.Methods[method]; !ok {
			t.Errorf("ABI is missing method %q", method)
		}
	}

	ev, ok := parsed.Events["CampaignCreated"]
	if !ok {
		t.Fatal("ABI is missing event CampaignCreated")
	}
	if ev.ID == (common.Hash{}) {
		t.Error("CampaignCreated event has a zero topic ID")
	}
}

func TestPackArguments(t *testing.T) {
	parsed := parseABI()

	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	if _, err := parsed.Pack("createCampaign", owner, "title", "description", "https://example.com/img.png"); err != nil {
		t.Errorf("Failed to pack createCampaign: %v", err)
	}

	if _, err := parsed.Pack("donateToCampaign", big.NewInt(3)); err != nil {
		t.Errorf("Failed to pack donateToCampaign: %v", err)
	}
}

func TestDonationURI(t *testing.T) {
	b := &Binding{
		Address: common.HexToAddress("0xbb5C516D32c4B4a7df2D0B8FE209df80E8D1db0e"),
		ChainID: big.NewInt(84532),
	}

	got := b.DonationURI(7)
	want := "ethereum:0xbb5C516D32c4B4a7df2D0B8FE209df80E8D1db0e@84532/donateToCampaign?uint256=7"
	if got != want {
		t.Errorf("Expected URI %s, got %s", want, got)
	}

	var nilBinding *Binding
	if uri := nilBinding.DonationURI(0); uri != "" {
		t.Errorf("Expected empty URI for nil binding, got %s", uri)
	}
}

func TestReadsOnNilBinding(t *testing.T) {
	var b *Binding
	ctx := context.Background()

	if _, err := b.ReadCampaigns(ctx); err != ErrUnavailable {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
	if _, _, err := b.ReadDonors(ctx, 0); err != ErrUnavailable {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
	if _, err := b.NumberOfCampaigns(ctx); err != ErrUnavailable {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestConnect(t *testing.T) {
	// Get RPC URL from environment
	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping connection test")
	}
	contract := common.HexToAddress(os.Getenv("DONATION_CONTRACT_ADDRESS"))

	t.Run("successful connection", func(t *testing.T) {
		result := Connect(rpcURL, contract)

		if result.Error != nil {
			t.Fatalf("Failed to connect to RPC: %v", result.Error)
		}
		if result.Binding == nil {
			t.Fatal("Binding is nil despite no error")
		}
		defer result.Binding.Close()

		if result.Binding.URL != rpcURL {
			t.Errorf("Expected URL %s, got %s", rpcURL, result.Binding.URL)
		}
		if result.Binding.ChainID == nil {
			t.Error("Expected chain ID to be populated")
		} else {
			t.Logf("Connected to chain ID: %s", result.Binding.ChainID.String())
		}
	})

	t.Run("contract is reachable", func(t *testing.T) {
		result := ConnectWithTimeout(rpcURL, contract, 10*time.Second)
		if result.Error != nil {
			t.Fatalf("Failed to connect with custom timeout: %v", result.Error)
		}
		defer result.Binding.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		n, err := result.Binding.NumberOfCampaigns(ctx)
		if err != nil {
			t.Errorf("Failed to read campaign counter: %v", err)
		} else {
			t.Logf("Contract reports %s campaigns", n.String())
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		result := Connect("http://127.0.0.1:1", contract)
		if result.Error == nil {
			result.Binding.Close()
			t.Error("Expected an error for an unreachable endpoint")
		}
	})
}
