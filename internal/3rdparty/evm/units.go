package evm

import (
	"math/big"
	"strings"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// EtherDecimals is the precision of the native EVM unit (wei).
	EtherDecimals int32 = 18
	// PlanckDecimals is the precision of DOT (planck).
	PlanckDecimals int32 = 12
)

var validate = validator.New()

// ParseAmount parses a user-supplied positive decimal amount.
func ParseAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if err := validate.Var(value, "required,numeric"); err != nil {
		return decimal.Zero, errors.Wrapf(strategy.ErrValidation, "invalid amount %q", value)
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errors.Wrapf(strategy.ErrValidation, "invalid amount %q", value)
	}

	if amount.Sign() <= 0 {
		return decimal.Zero, errors.Wrapf(strategy.ErrValidation, "amount must be positive, got %s", amount)
	}

	return amount, nil
}

// ToUnits converts a decimal amount into the fixed-point integer unit with the given precision.
func ToUnits(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, errors.Wrapf(strategy.ErrValidation, "amount must be positive, got %s", amount)
	}

	shifted := amount.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, errors.Wrapf(strategy.ErrValidation, "amount %s has more than %d fractional digits", amount, decimals)
	}

	return shifted.BigInt(), nil
}

func FromUnits(value *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(value, -decimals)
}
