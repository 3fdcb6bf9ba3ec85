package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvestmentStatus string

const (
	InvestmentPending InvestmentStatus = "pending"
	InvestmentActive  InvestmentStatus = "active"
	InvestmentFailed  InvestmentStatus = "failed"
	InvestmentExpired InvestmentStatus = "expired"
)

func (s InvestmentStatus) Valid() bool {
	switch s {
	case InvestmentPending, InvestmentActive, InvestmentFailed, InvestmentExpired:
		return true
	}
	return false
}

func (s InvestmentStatus) Terminal() bool {
	return s == InvestmentFailed || s == InvestmentExpired
}

type Plan struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Limits        PlanLimits         `json:"limits" bson:"limits"`
	ROIPercentage float64            `json:"roi_percentage" bson:"roi_percentage"`
	Duration      int                `json:"duration" bson:"duration"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type PlanLimits struct {
	Max float64 `json:"max" bson:"max"`
	Min float64 `json:"min" bson:"min"`
}

// PlanSnapshot is copied into an investment when it is created; later plan
// edits never reach existing investments.
type PlanSnapshot struct {
	Name          string     `json:"name" bson:"name"`
	Limits        PlanLimits `json:"limits" bson:"limits"`
	ROIPercentage float64    `json:"roi_percentage" bson:"roi_percentage"`
	Duration      int        `json:"duration" bson:"duration"`
}

func (p *Plan) Snapshot() PlanSnapshot {
	return PlanSnapshot{
		Name:          p.Name,
		Limits:        p.Limits,
		ROIPercentage: p.ROIPercentage,
		Duration:      p.Duration,
	}
}

type Investment struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user_id"`
	Email      string             `json:"email" bson:"email"`
	Plan       PlanSnapshot       `json:"plan" bson:"plan"`
	Amount     float64            `json:"amount" bson:"amount"`
	Status     InvestmentStatus   `json:"status" bson:"status"`
	StartDate  *time.Time         `json:"start_date" bson:"start_date"`
	ExpiryDate *time.Time         `json:"expiry_date" bson:"expiry_date"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// ActivationWindow returns the start and expiry an investment gets when it
// first becomes active. ok is false when the dates must not be derived:
// either they already exist or the plan carries no duration.
func (inv *Investment) ActivationWindow(now time.Time) (start, expiry time.Time, ok bool) {
	if inv.ExpiryDate != nil || inv.Plan.Duration <= 0 {
		return time.Time{}, time.Time{}, false
	}
	return now, now.AddDate(0, 0, inv.Plan.Duration), true
}
