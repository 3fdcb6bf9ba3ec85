package models

import "fmt"

// BalanceField enumerates the wallet counters an admin may adjust.
type BalanceField int

const (
	FieldBalance BalanceField = iota + 1
	FieldProfits
	FieldTotalDeposit
	FieldTotalBonus
	FieldWithdrawn
	FieldReferral
	FieldTopup
)

var balanceFieldNames = map[BalanceField]string{
	FieldBalance:      "balance",
	FieldProfits:      "profits",
	FieldTotalDeposit: "total_deposit",
	FieldTotalBonus:   "total_bonus",
	FieldWithdrawn:    "withdrawn",
	FieldReferral:     "referral",
	FieldTopup:        "topup",
}

func ParseBalanceField(name string) (BalanceField, error) {
	for f, n := range balanceFieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown wallet field: %q", name)
}

func (f BalanceField) String() string {
	return balanceFieldNames[f]
}

// Path is the dotted document path used in update operators.
func (f BalanceField) Path() string {
	name, ok := balanceFieldNames[f]
	if !ok {
		return ""
	}
	return "wallet." + name
}

// Cumulative counters only ever grow.
func (f BalanceField) Cumulative() bool {
	switch f {
	case FieldTotalDeposit, FieldTotalBonus, FieldWithdrawn, FieldReferral, FieldTopup:
		return true
	}
	return false
}
