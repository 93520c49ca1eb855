package domain

import "github.com/shopspring/decimal"

type PaymentTiming string

const (
	TimingStart PaymentTiming = "start"
	TimingEnd   PaymentTiming = "end"
)

const (
	AssetRealEstate = "real_estate"
	AssetBuilding   = "building"
	AssetEquipment  = "equipment"
	AssetVehicle    = "vehicle"
	AssetMachinery  = "machinery"
	AssetTechnology = "technology"
	AssetOther      = "other"
)

type VariablePayment struct {
	Date   Date            `json:"date" yaml:"date"`
	Amount decimal.Decimal `json:"amount" yaml:"amount" validate:"gte=0"`
}

type PurchaseOption struct {
	Price       decimal.Decimal `json:"price" yaml:"price" validate:"gte=0"`
	Exercisable bool            `json:"exercisable" yaml:"exercisable"`
}

type RenewalOption struct {
	TermMonths  int             `json:"term_months" yaml:"term_months" validate:"gte=0"`
	Probability decimal.Decimal `json:"probability" yaml:"probability" validate:"gte=0,lte=100"` // percentage
}

type ContractOptions struct {
	PurchaseOptions []PurchaseOption `json:"purchase_options,omitempty" yaml:"purchase_options" validate:"dive"`
	RenewalOptions  []RenewalOption  `json:"renewal_options,omitempty" yaml:"renewal_options" validate:"dive"`
}

// LeaseContractInput is the lessee-side view of a lease contract. Money
// fields are decimals; DiscountRate is an annual percentage and is nil
// when the contract does not state one.
type LeaseContractInput struct {
	StartDate               Date              `json:"start_date" yaml:"start_date"`
	EndDate                 Date              `json:"end_date" yaml:"end_date"`
	TermMonths              int               `json:"term_months" yaml:"term_months" validate:"gte=1"`
	PaymentAmount           decimal.Decimal   `json:"payment_amount" yaml:"payment_amount" validate:"gt=0"`
	PaymentTiming           PaymentTiming     `json:"payment_timing" yaml:"payment_timing" validate:"oneof=start end"`
	DiscountRate            *decimal.Decimal  `json:"discount_rate,omitempty" yaml:"discount_rate" validate:"omitempty,gte=0,lte=100"`
	InitialPayment          decimal.Decimal   `json:"initial_payment" yaml:"initial_payment" validate:"gte=0"`
	InitialDirectCosts      decimal.Decimal   `json:"initial_direct_costs" yaml:"initial_direct_costs" validate:"gte=0"`
	LeaseIncentives         decimal.Decimal   `json:"lease_incentives" yaml:"lease_incentives" validate:"gte=0"`
	GuaranteedResidualValue decimal.Decimal   `json:"guaranteed_residual_value" yaml:"guaranteed_residual_value" validate:"gte=0"`
	VariablePayments        []VariablePayment `json:"variable_payments,omitempty" yaml:"variable_payments" validate:"dive"`
	AssetFairValue          decimal.Decimal   `json:"asset_fair_value" yaml:"asset_fair_value" validate:"gte=0"`
	AssetType               string            `json:"asset_type" yaml:"asset_type"`
	Currency                string            `json:"currency" yaml:"currency" validate:"len=3,alpha,uppercase"`
	Options                 ContractOptions   `json:"options" yaml:"options"`
	DependentOnOtherAssets  bool              `json:"dependent_on_other_assets" yaml:"dependent_on_other_assets"`
}

// HasExplicitRate reports whether the contract states its own discount rate.
func (in LeaseContractInput) HasExplicitRate() bool {
	return in.DiscountRate != nil
}
