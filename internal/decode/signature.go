package decode

import "github.com/ethereum/go-ethereum/crypto"

// SwapSignature is the Uniswap V2 pair Swap event signature in declaration
// order. Its hash is the topic0 of every pair Swap log.
const SwapSignature = "Swap(address,uint256,uint256,uint256,uint256,address)"

// EventTopic returns the 0x-prefixed Keccak-256 hash of an event signature.
func EventTopic(signature string) string {
	return crypto.Keccak256Hash([]byte(signature)).Hex()
}
