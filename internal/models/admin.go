package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminAccount struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

const DefaultRefreshTokenTTL = 30 * 24 * time.Hour

type RefreshToken struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Token      string             `json:"token" bson:"token"`
	AdminID    primitive.ObjectID `json:"admin_id" bson:"admin_id"`
	ExpiryDate time.Time          `json:"expiry_date" bson:"expiry_date"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiryDate.After(now)
}
