package models

import "strings"

// Asset is a tracked crypto holding key inside wallet.crypto.crypto_assets.
type Asset string

const (
	AssetBTC    Asset = "btc"
	AssetETH    Asset = "eth"
	AssetSolana Asset = "solana"
	AssetTether Asset = "tether"
	AssetXRP    Asset = "xrp"
)

// TrackedAssets maps every wallet asset to its quote provider identifier.
var TrackedAssets = map[Asset]int{
	AssetBTC:    1,
	AssetETH:    1027,
	AssetSolana: 5426,
	AssetTether: 825,
	AssetXRP:    52,
}

// AssetForID resolves a provider identifier back to the wallet asset key.
func AssetForID(id int) (Asset, bool) {
	for asset, assetID := range TrackedAssets {
		if assetID == id {
			return asset, true
		}
	}
	return "", false
}

func ParseAsset(s string) (Asset, bool) {
	a := Asset(strings.ToLower(strings.TrimSpace(s)))
	_, ok := TrackedAssets[a]
	return a, ok
}

func TrackedAssetIDs() []int {
	ids := make([]int, 0, len(TrackedAssets))
	for _, a := range []Asset{AssetBTC, AssetETH, AssetSolana, AssetTether, AssetXRP} {
		ids = append(ids, TrackedAssets[a])
	}
	return ids
}
