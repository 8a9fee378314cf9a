package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// DonationPlatform contract ABI. The contract is pre-deployed; this layer
// only consumes its fixed interface.
const donationPlatformABI = `[
  {
    "inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "name": "campaigns",
    "outputs": [
      {"internalType": "address", "name": "owner", "type": "address"},
      {"internalType": "string", "name": "title", "type": "string"},
      {"internalType": "string", "name": "description", "type": "string"},
      {"internalType": "uint256", "name": "amountCollected", "type": "uint256"},
      {"internalType": "string", "name": "image", "type": "string"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "_owner", "type": "address"},
      {"internalType": "string", "name": "_title", "type": "string"},
      {"internalType": "string", "name": "_description", "type": "string"},
      {"internalType": "string", "name": "_image", "type": "string"}
    ],
    "name": "createCampaign",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "_id", "type": "uint256"}],
    "name": "donateToCampaign",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getCampaigns",
    "outputs": [
      {
        "components": [
          {"internalType": "address", "name": "owner", "type": "address"},
          {"internalType": "string", "name": "title", "type": "string"},
          {"internalType": "string", "name": "description", "type": "string"},
          {"internalType": "uint256", "name": "amountCollected", "type": "uint256"},
          {"internalType": "string", "name": "image", "type": "string"},
          {"internalType": "address[]", "name": "donators", "type": "address[]"},
          {"internalType": "uint256[]", "name": "donations", "type": "uint256[]"}
        ],
        "internalType": "struct DonationPlatform.Campaign[]",
        "name": "",
        "type": "tuple[]"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "_id", "type": "uint256"}],
    "name": "getDonators",
    "outputs": [
      {"internalType": "address[]", "name": "", "type": "address[]"},
      {"internalType": "uint256[]", "name": "", "type": "uint256[]"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "numberOfCampaigns",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "id", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "title", "type": "string"}
    ],
    "name": "CampaignCreated",
    "type": "event"
  }
]`

// parseABI panics on a malformed ABI constant; the constant is fixed at
// compile time so a parse failure is a programming error.
func parseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(donationPlatformABI))
	if err != nil {
		panic("chain: invalid DonationPlatform ABI: " + err.Error())
	}
	return parsed
}
