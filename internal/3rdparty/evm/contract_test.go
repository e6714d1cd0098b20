package evm_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/axenvault/axenbot/internal/3rdparty/evm"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vaultAddress = common.HexToAddress("0xd9145CCE52D386f254917e481eB44e9943F39138")

type caller struct {
	output []byte
	err    error
	calls  []ethereum.CallMsg
}

func (c *caller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (c *caller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	c.calls = append(c.calls, call)
	return c.output, c.err
}

func packBalance(t *testing.T, value *big.Int) []byte {
	uint256, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)
	data, err := abi.Arguments{{Type: uint256}}.Pack(value)
	require.NoError(t, err)
	return data
}

func TestVault_GetBalance(t *testing.T) {
	balance, ok := new(big.Int).SetString("2500000000000000000", 10)
	require.True(t, ok)

	backend := &caller{output: packBalance(t, balance)}
	vault, err := evm.Bind(vaultAddress, backend, nil, nil, evm.EtherDecimals)
	require.NoError(t, err)

	value, err := vault.GetBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.5").Equal(value), value.String())

	require.Len(t, backend.calls, 1)
	assert.Equal(t, &vaultAddress, backend.calls[0].To)
	// getBalance() selector
	assert.Equal(t, []byte{0x12, 0x06, 0x5f, 0xe0}, backend.calls[0].Data)
}

func TestVault_GetBalance_Error(t *testing.T) {
	vault, err := evm.Bind(vaultAddress, &caller{err: errors.New("rpc down")}, nil, nil, evm.EtherDecimals)
	require.NoError(t, err)

	_, err = vault.GetBalance(context.Background())
	assert.Error(t, err)
}

func TestVault_ReadOnly(t *testing.T) {
	vault, err := evm.Bind(vaultAddress, &caller{}, nil, nil, evm.EtherDecimals)
	require.NoError(t, err)
	assert.False(t, vault.CanTransact())

	_, err = vault.Deposit(context.Background(), decimal.RequireFromString("1"))
	assert.True(t, errors.Is(err, evm.ErrReadOnly))

	_, err = vault.Withdraw(context.Background(), decimal.RequireFromString("0"))
	assert.Error(t, err)
}
