package evm

import (
	"context"
	"crypto/ecdsa"
	_ "embed"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/logf"
	"github.com/pkg/errors"
)

//go:embed vault.abi.json
var vaultABI []byte

var ErrReadOnly = errors.New("no signer configured")

type Config struct {
	RPC        string       `yaml:"rpc,omitempty" doc:"EVM JSON-RPC endpoint. Vault commands are disabled when empty." default:"https://westend-asset-hub-eth-rpc.polkadot.io" validate:"omitempty,url"`
	Address    string       `yaml:"address,omitempty" doc:"Vault contract address." default:"0xd9145CCE52D386f254917e481eB44e9943F39138" validate:"omitempty,eth_addr"`
	PrivateKey string       `yaml:"privateKey,omitempty" doc:"Hex-encoded key for signing deposit and withdraw transactions. Users are sent to the web app when empty." validate:"omitempty,hexadecimal"`
	Decimals   int32        `yaml:"decimals,omitempty" doc:"Decimals of the native currency unit." default:"18" validate:"min=0,max=36"`
	Timeout    flu.Duration `yaml:"timeout,omitempty" doc:"RPC call timeout." default:"30s"`
}

type Context interface {
	VaultConfig() Config
}

type Client[C Context] struct {
	*Vault
}

func (c Client[C]) String() string {
	return "evm.vault"
}

func (c *Client[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if c.Vault != nil {
		return nil
	}

	config := app.Config().VaultConfig()
	if config.RPC == "" || config.Address == "" {
		return apfel.ErrDisabled
	}

	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validate config")
	}

	dialCtx, cancel := context.WithTimeout(ctx, config.Timeout.Value)
	defer cancel()
	backend, err := ethclient.DialContext(dialCtx, config.RPC)
	if err != nil {
		return errors.Wrap(err, "dial rpc")
	}

	var transactor *bind.TransactOpts
	if config.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(config.PrivateKey, "0x"))
		if err != nil {
			backend.Close()
			return errors.Wrap(err, "parse private key")
		}

		transactor, err = newTransactor(dialCtx, backend, key)
		if err != nil {
			backend.Close()
			return err
		}
	}

	vault, err := Bind(common.HexToAddress(config.Address), backend, backend, transactor, config.Decimals)
	if err != nil {
		backend.Close()
		return err
	}

	vault.Timeout = config.Timeout.Value
	vault.close = backend.Close
	if err := app.Manage(ctx, vault); err != nil {
		return err
	}

	c.Vault = vault
	logf.Get(c).Infof(ctx, "bound vault %s (signer: %t)", vault.Address.Hex(), vault.CanTransact())
	return nil
}

func newTransactor(ctx context.Context, backend *ethclient.Client, key *ecdsa.PrivateKey) (*bind.TransactOpts, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get chain id")
	}

	transactor, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "create transactor")
	}

	return transactor, nil
}
