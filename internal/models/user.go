package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	FullName    string             `json:"full_name" bson:"full_name"`
	Username    string             `json:"username" bson:"username"`
	PhoneNumber string             `json:"phone_number" bson:"phone_number"`
	Country     string             `json:"country" bson:"country"`
	IsVerified  bool               `json:"is_verified" bson:"is_verified"`
	IsSuspended bool               `json:"is_suspended" bson:"is_suspended"`
	Wallet      Wallet             `json:"wallet" bson:"wallet"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Wallet is embedded in the user document and has no lifecycle of its own.
type Wallet struct {
	Balance      float64      `json:"balance" bson:"balance"`
	Profits      float64      `json:"profits" bson:"profits"`
	TotalDeposit float64      `json:"total_deposit" bson:"total_deposit"`
	TotalBonus   float64      `json:"total_bonus" bson:"total_bonus"`
	Withdrawn    float64      `json:"withdrawn" bson:"withdrawn"`
	Referral     float64      `json:"referral" bson:"referral"`
	Topup        float64      `json:"topup" bson:"topup"`
	Crypto       CryptoWallet `json:"crypto" bson:"crypto"`
	Fluctuation  float64      `json:"fluctuation" bson:"fluctuation"`
}

type CryptoWallet struct {
	CryptoBalance float64           `json:"crypto_balance" bson:"crypto_balance"`
	CryptoAssets  map[Asset]float64 `json:"crypto_assets" bson:"crypto_assets"`
}

// WalletValuation is the per-user result of a crypto revaluation. It applies
// only while the stored crypto balance still equals OldCryptoBalance.
type WalletValuation struct {
	UserID           primitive.ObjectID
	OldCryptoBalance float64
	CryptoBalance    float64
	Delta            float64
	Fluctuation      float64
}
