package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogEntry is an audit record of an admin-initiated mutation.
type LogEntry struct {
	ID          primitive.ObjectID     `json:"_id,omitempty" bson:"_id,omitempty"`
	AdminID     primitive.ObjectID     `json:"admin_id,omitempty" bson:"admin_id,omitempty"`
	Action      string                 `json:"action" bson:"action"`
	Description string                 `json:"description" bson:"description"`
	IPAddress   string                 `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	Timestamp   time.Time              `json:"timestamp" bson:"timestamp"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Marker names written to the job_markers collection.
const (
	MarkerPricesRefreshed = "prices_refreshed_at"
	MarkerWalletsRevalued = "wallets_revalued_for"
)

type JobMarker struct {
	Name      string    `bson:"_id" json:"name"`
	At        time.Time `bson:"at" json:"at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
