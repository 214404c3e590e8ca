package decode

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const v2PairABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount0In", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1In", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount0Out", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1Out", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"}
    ],
    "name": "Swap",
    "type": "event"
  }
]`

var (
	v2PairABI     abi.ABI
	v2PairABIOnce sync.Once
	v2PairABIErr  error
)

// V2PairABI returns the parsed Uniswap V2 pair event ABI.
func V2PairABI() (abi.ABI, error) {
	v2PairABIOnce.Do(func() {
		v2PairABI, v2PairABIErr = abi.JSON(strings.NewReader(v2PairABIJSON))
	})
	return v2PairABI, v2PairABIErr
}
