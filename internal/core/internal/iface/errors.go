package iface

import (
	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/pkg/errors"
)

var (
	errDeposit = errors.Wrap(strategy.ErrValidation, ""+
		"Usage: /deposit AMOUNT\n\n"+
		"AMOUNT – positive amount of DOT to deposit, for example 1.5")

	errWithdraw = errors.Wrap(strategy.ErrValidation, ""+
		"Usage: /withdraw AMOUNT\n\n"+
		"AMOUNT – positive amount of DOT to withdraw, for example 1.5")

	errVaultDisabled = errors.New("Vault is not available at the moment.")
	errTryLater      = errors.New("Something went wrong. Please try again later.")
)
