package domain

import "github.com/shopspring/decimal"

type ExceptionType string

const (
	ExceptionNone      ExceptionType = "none"
	ExceptionShortTerm ExceptionType = "short_term"
	ExceptionLowValue  ExceptionType = "low_value"
	ExceptionBoth      ExceptionType = "both"
)

type AccountingTreatment string

const (
	TreatmentSimplified AccountingTreatment = "simplified"
	TreatmentFull       AccountingTreatment = "full"
)

type ShortTermCriteria struct {
	TermMonths         int             `json:"term_months" yaml:"term_months"`
	HasPurchaseOption  bool            `json:"has_purchase_option" yaml:"has_purchase_option"`
	RenewalProbability decimal.Decimal `json:"renewal_probability" yaml:"renewal_probability"`
	MeetsCriteria      bool            `json:"meets_criteria" yaml:"meets_criteria"`
}

type LowValueCriteria struct {
	AssetFairValue decimal.Decimal `json:"asset_fair_value" yaml:"asset_fair_value"`
	Threshold      decimal.Decimal `json:"threshold" yaml:"threshold"`
	Currency       string          `json:"currency" yaml:"currency"`
	AssetType      string          `json:"asset_type" yaml:"asset_type"`
	MeetsCriteria  bool            `json:"meets_criteria" yaml:"meets_criteria"`
}

// ExpensePolicy describes how a simplified lease is recognised in profit
// or loss instead of a liability and right-of-use asset.
type ExpensePolicy struct {
	Basis           string          `json:"basis" yaml:"basis"`
	Periods         int             `json:"periods" yaml:"periods"`
	PeriodicExpense decimal.Decimal `json:"periodic_expense" yaml:"periodic_expense"`
	TotalExpense    decimal.Decimal `json:"total_expense" yaml:"total_expense"`
	Disclosure      string          `json:"disclosure" yaml:"disclosure"`
}

type ExceptionAnalysis struct {
	ShortTerm           ShortTermCriteria   `json:"short_term" yaml:"short_term"`
	LowValue            LowValueCriteria    `json:"low_value" yaml:"low_value"`
	ExceptionType       ExceptionType       `json:"exception_type" yaml:"exception_type"`
	AccountingTreatment AccountingTreatment `json:"accounting_treatment" yaml:"accounting_treatment"`
	ExpensePolicy       *ExpensePolicy      `json:"expense_policy,omitempty" yaml:"expense_policy,omitempty"`
}
