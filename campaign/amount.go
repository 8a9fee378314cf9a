package campaign

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidAmount means the entered donation amount cannot be converted to
// a positive wei value.
var ErrInvalidAmount = errors.New("invalid donation amount")

// etherDecimals is the number of decimal places in the native currency.
const etherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)

// ParseAmount converts a human-entered decimal ETH string to wei without
// ever passing through a float. Zero, negative, malformed and
// over-precision input is rejected before any network call happens.
func ParseAmount(text string) (*big.Int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart = s[:dot]
		fracPart = s[dot+1:]
		if strings.ContainsRune(fracPart, '.') {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if len(fracPart) > etherDecimals {
		return nil, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, etherDecimals)
	}

	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	wei := new(big.Int).Mul(whole, weiPerEther)
	if fracPart != "" {
		padded := fracPart + strings.Repeat("0", etherDecimals-len(fracPart))
		frac, ok := new(big.Int).SetString(padded, 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
		}
		wei.Add(wei, frac)
	}

	if wei.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidAmount)
	}
	return wei, nil
}

// FormatAmount renders wei as a minimal decimal ETH string, the exact
// inverse of ParseAmount for any amount it accepts.
func FormatAmount(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}

	rem := new(big.Int)
	whole, _ := new(big.Int).QuoRem(wei, weiPerEther, rem)

	if rem.Sign() == 0 {
		return whole.String()
	}

	frac := fmt.Sprintf("%0*s", etherDecimals, rem.String())
	frac = strings.TrimRight(frac, "0")
	return whole.String() + "." + frac
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
