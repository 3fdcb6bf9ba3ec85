package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LivePrice is the latest quote for one tracked asset. At most one document
// exists per AssetID.
type LivePrice struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	AssetID     int                `json:"asset_id" bson:"asset_id"`
	Name        string             `json:"name" bson:"name"`
	Symbol      string             `json:"symbol" bson:"symbol"`
	Slug        string             `json:"slug" bson:"slug"`
	Quote       Quote              `json:"quote" bson:"quote"`
	LastUpdated time.Time          `json:"last_updated" bson:"last_updated"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type Quote struct {
	USD USDQuote `json:"USD" bson:"USD"`
}

type USDQuote struct {
	Price            float64   `json:"price" bson:"price"`
	Volume24h        float64   `json:"volume_24h" bson:"volume_24h"`
	PercentChange1h  float64   `json:"percent_change_1h" bson:"percent_change_1h"`
	PercentChange24h float64   `json:"percent_change_24h" bson:"percent_change_24h"`
	LastUpdated      time.Time `json:"last_updated" bson:"last_updated"`
}
