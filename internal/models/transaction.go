package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusRejected TransactionStatus = "rejected"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

type PaymentMethod string

const (
	PaymentMethodCrypto       PaymentMethod = "crypto"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

type Transaction struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Email           string             `bson:"email" json:"email"`
	TransactionType TransactionType    `bson:"transaction_type" json:"transaction_type"`
	PaymentMethod   PaymentMethod      `bson:"payment_method" json:"payment_method"`
	Amount          float64            `bson:"amount" json:"amount"`
	Bonus           float64            `bson:"bonus" json:"bonus"`
	Address         string             `bson:"address,omitempty" json:"address,omitempty"`
	Status          TransactionStatus  `bson:"status" json:"status"`
	RequestTime     time.Time          `bson:"request_time" json:"request_time"`
	ResponseTime    *time.Time         `bson:"response_time,omitempty" json:"response_time"`
	AdminNote       string             `bson:"admin_note,omitempty" json:"admin_note"`
}
