// Package valuation converts wallet crypto holdings to fiat using the latest
// stored quotes.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)

	// ZeroBalanceFluctuation is reported when the prior balance is zero and
	// the crypto value moved, since no percentage of zero exists.
	ZeroBalanceFluctuation = hundred
)

// PriceTable holds one USD price per wallet asset. Assets without a quote
// price at zero.
type PriceTable map[models.Asset]decimal.Decimal

func NewPriceTable(prices []*models.LivePrice) PriceTable {
	table := make(PriceTable, len(models.TrackedAssets))
	for asset := range models.TrackedAssets {
		table[asset] = decimal.Zero
	}
	for _, p := range prices {
		if p == nil {
			continue
		}
		asset, ok := models.AssetForID(p.AssetID)
		if !ok {
			continue
		}
		table[asset] = decimal.NewFromFloat(p.Quote.USD.Price)
	}
	return table
}

func (t PriceTable) Price(asset models.Asset) decimal.Decimal {
	if p, ok := t[asset]; ok {
		return p
	}
	return decimal.Zero
}

type Result struct {
	OldCryptoBalance decimal.Decimal
	CryptoBalance    decimal.Decimal
	Delta            decimal.Decimal
	Balance          decimal.Decimal
	Fluctuation      decimal.Decimal
}

// Revalue computes the new crypto value of a wallet, the balance after
// applying the change in that value, and the percentage fluctuation relative
// to the previous balance.
func Revalue(w models.Wallet, prices PriceTable) Result {
	newCrypto := decimal.Zero
	for asset, qty := range w.Crypto.CryptoAssets {
		if qty == 0 {
			continue
		}
		newCrypto = newCrypto.Add(decimal.NewFromFloat(qty).Mul(prices.Price(asset)))
	}

	oldCrypto := decimal.NewFromFloat(w.Crypto.CryptoBalance)
	balance := decimal.NewFromFloat(w.Balance)
	delta := newCrypto.Sub(oldCrypto)

	return Result{
		OldCryptoBalance: oldCrypto,
		CryptoBalance:    newCrypto,
		Delta:            delta,
		Balance:          balance.Add(delta),
		Fluctuation:      Fluctuation(balance, delta),
	}
}

// Fluctuation is delta as a percentage of balance, rounded to 2 places.
func Fluctuation(balance, delta decimal.Decimal) decimal.Decimal {
	if balance.IsZero() {
		if delta.IsZero() {
			return decimal.Zero
		}
		return ZeroBalanceFluctuation
	}
	return delta.Div(balance).Mul(hundred).Round(2)
}

// Valuation converts a result into the document update for one user.
func (r Result) Valuation(user *models.User) models.WalletValuation {
	return models.WalletValuation{
		UserID:           user.ID,
		OldCryptoBalance: user.Wallet.Crypto.CryptoBalance,
		CryptoBalance:    r.CryptoBalance.InexactFloat64(),
		Delta:            r.Delta.InexactFloat64(),
		Fluctuation:      r.Fluctuation.InexactFloat64(),
	}
}
