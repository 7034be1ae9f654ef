package eth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/maccessmap/backend/config"
	"github.com/maccessmap/backend/pkg/xcontext"
)

const badgeContractABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "to", "type": "address"},
			{"internalType": "string", "name": "uri", "type": "string"}
		],
		"name": "mintBadge",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// transferTopic is keccak256("Transfer(address,address,uint256)"), emitted by
// every ERC-721 mint.
var transferTopic = common.HexToHash(
	"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")

type ethMinter struct {
	chainID    *big.Int
	rpcs       []string
	useEip1559 bool
	contract   common.Address

	privateKey *ecdsa.PrivateKey
	from       common.Address
	badgeABI   abi.ABI

	// Serializes nonce allocation when mints overlap.
	mutex sync.Mutex
}

func NewMinter(cfg config.EthConfigs) (*ethMinter, error) {
	if cfg.PrivateKey == "" {
		return nil, errors.New("no minter private key configured")
	}

	if cfg.ContractAddress == "" {
		return nil, errors.New("no badge contract address configured")
	}

	if len(cfg.Rpcs) == 0 {
		return nil, errors.New("no rpc endpoint configured")
	}

	privateKey, err := ethcrypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid minter private key: %w", err)
	}

	badgeABI, err := abi.JSON(strings.NewReader(badgeContractABI))
	if err != nil {
		return nil, err
	}

	return &ethMinter{
		chainID:    big.NewInt(cfg.ChainID),
		rpcs:       cfg.Rpcs,
		useEip1559: cfg.UseEip1559,
		contract:   common.HexToAddress(cfg.ContractAddress),
		privateKey: privateKey,
		from:       ethcrypto.PubkeyToAddress(privateKey.PublicKey),
		badgeABI:   badgeABI,
	}, nil
}

func (m *ethMinter) MintBadge(ctx context.Context, recipient, tokenURI string) (*MintReceipt, error) {
	if !common.IsHexAddress(recipient) {
		return nil, fmt.Errorf("invalid recipient address %s", recipient)
	}

	client, err := m.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	data, err := m.badgeABI.Pack("mintBadge", common.HexToAddress(recipient), tokenURI)
	if err != nil {
		return nil, err
	}

	m.mutex.Lock()
	tx, err := m.buildSignedTx(ctx, client, data)
	m.mutex.Unlock()
	if err != nil {
		return nil, err
	}

	if err := client.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("cannot dispatch mint transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return nil, fmt.Errorf("mint transaction %s not confirmed: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("mint transaction %s reverted", tx.Hash().Hex())
	}

	tokenID, err := tokenIDFromLogs(receipt.Logs)
	if err != nil {
		return nil, err
	}

	return &MintReceipt{TxHash: tx.Hash().Hex(), TokenID: tokenID}, nil
}

// dial connects to the configured RPCs in random order and returns the first
// that answers a chain id request.
func (m *ethMinter) dial(ctx context.Context) (*ethclient.Client, error) {
	for _, index := range rand.Perm(len(m.rpcs)) {
		client, err := ethclient.DialContext(ctx, m.rpcs[index])
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot dial rpc %s: %v", m.rpcs[index], err)
			continue
		}

		if _, err := client.ChainID(ctx); err != nil {
			xcontext.Logger(ctx).Warnf("Unhealthy rpc %s: %v", m.rpcs[index], err)
			client.Close()
			continue
		}

		return client, nil
	}

	return nil, errors.New("no healthy rpc endpoint")
}

func (m *ethMinter) buildSignedTx(
	ctx context.Context, client *ethclient.Client, data []byte,
) (*ethtypes.Transaction, error) {
	nonce, err := client.PendingNonceAt(ctx, m.from)
	if err != nil {
		return nil, err
	}

	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From: m.from,
		To:   &m.contract,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot estimate gas: %w", err)
	}

	var tx *ethtypes.Transaction
	if m.useEip1559 {
		tipCap, err := client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, err
		}

		head, err := client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, err
		}

		feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		tx = ethtypes.NewTx(&ethtypes.DynamicFeeTx{
			ChainID:   m.chainID,
			Nonce:     nonce,
			GasTipCap: tipCap,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			To:        &m.contract,
			Data:      data,
		})
	} else {
		gasPrice, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}

		tx = ethtypes.NewTransaction(nonce, m.contract, big.NewInt(0), gasLimit, gasPrice, data)
	}

	return ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(m.chainID), m.privateKey)
}

func tokenIDFromLogs(logs []*ethtypes.Log) (int64, error) {
	for _, l := range logs {
		if len(l.Topics) == 4 && l.Topics[0] == transferTopic {
			return new(big.Int).SetBytes(l.Topics[3].Bytes()).Int64(), nil
		}
	}

	return 0, errors.New("no transfer event in mint receipt")
}
