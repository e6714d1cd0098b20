package evm

import (
	"bytes"
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jfk9w-go/flu/logf"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Vault is a client of the deployed vault contract.
type Vault struct {
	Address    common.Address
	Decimals   int32
	Timeout    time.Duration
	contract   *bind.BoundContract
	transactor *bind.TransactOpts
	close      func()
}

// Bind binds the vault contract at address. A nil signer makes the vault read-only.
func Bind(address common.Address, caller bind.ContractCaller, backend bind.ContractTransactor, signer *bind.TransactOpts, decimals int32) (*Vault, error) {
	parsed, err := abi.JSON(bytes.NewReader(vaultABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse abi")
	}

	return &Vault{
		Address:    address,
		Decimals:   decimals,
		contract:   bind.NewBoundContract(address, parsed, caller, backend, nil),
		transactor: signer,
	}, nil
}

func (v *Vault) String() string {
	return "evm.vault"
}

func (v *Vault) CanTransact() bool {
	return v.transactor != nil
}

func (v *Vault) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	var out []any
	if err := v.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBalance"); err != nil {
		return decimal.Zero, errors.Wrap(err, "call getBalance")
	}

	if len(out) != 1 {
		return decimal.Zero, errors.Errorf("getBalance returned %d values", len(out))
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, errors.Errorf("getBalance returned %T", out[0])
	}

	return FromUnits(balance, v.Decimals), nil
}

func (v *Vault) Deposit(ctx context.Context, amount decimal.Decimal) (string, error) {
	value, err := ToUnits(amount, v.Decimals)
	if err != nil {
		return "", err
	}

	return v.transact(ctx, value, "deposit")
}

func (v *Vault) Withdraw(ctx context.Context, amount decimal.Decimal) (string, error) {
	value, err := ToUnits(amount, v.Decimals)
	if err != nil {
		return "", err
	}

	return v.transact(ctx, nil, "withdraw", value)
}

func (v *Vault) transact(ctx context.Context, value *big.Int, method string, params ...any) (string, error) {
	if v.transactor == nil {
		return "", ErrReadOnly
	}

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	opts := *v.transactor
	opts.Context = ctx
	opts.Value = value
	tx, err := v.contract.Transact(&opts, method, params...)
	if err != nil {
		return "", errors.Wrapf(err, "transact %s", method)
	}

	hash := tx.Hash().Hex()
	logf.Get(v).Infof(ctx, "submitted %s: %s", method, hash)
	return hash, nil
}

func (v *Vault) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, v.Timeout)
}

func (v *Vault) Close() error {
	if v.close != nil {
		v.close()
	}

	return nil
}
