// Package records exposes read-only access to the financial record
// collections the anomaly engine scans. The underlying tables are owned by
// the CRUD side of the platform; this package never writes them.
package records

import "database/sql"

// Budget is a budget line as stored in the budgets collection. Numeric
// fields are nullable at the source; accessors normalize null to zero so
// detector scoring matches the platform's null-coalescing semantics.
type Budget struct {
	BudgetID          string
	AllocatedAmount   sql.NullFloat64
	ActualExpenditure sql.NullFloat64
	Ministry          string
	Programme         string
	District          string
	FiscalYear        string
}

// Allocated returns the allocated amount, or 0 when unset.
func (b Budget) Allocated() float64 {
	if b.AllocatedAmount.Valid {
		return b.AllocatedAmount.Float64
	}
	return 0
}

// Actual returns the actual expenditure, or 0 when unset.
func (b Budget) Actual() float64 {
	if b.ActualExpenditure.Valid {
		return b.ActualExpenditure.Float64
	}
	return 0
}

// Contract is a contract row joined with its vendor. VendorName carries the
// denormalized column when present, otherwise the joined vendor's name.
type Contract struct {
	ContractID    string
	ContractValue sql.NullFloat64
	VendorName    sql.NullString
	StartDate     sql.NullTime
	TargetEndDate sql.NullTime
	Status        string
	District      string
}

// Value returns the contract value, or 0 when unset.
func (c Contract) Value() float64 {
	if c.ContractValue.Valid {
		return c.ContractValue.Float64
	}
	return 0
}

// Vendor returns the resolved vendor name, or "" when the contract has no
// vendor attached.
func (c Contract) Vendor() string {
	if c.VendorName.Valid {
		return c.VendorName.String
	}
	return ""
}

// Payment is a payment row joined with its contract's value and vendor.
type Payment struct {
	PaymentID     string
	AmountPaid    sql.NullFloat64
	ContractID    sql.NullString
	ContractValue sql.NullFloat64
	VendorName    sql.NullString
	PaymentDate   sql.NullTime
	RiskScore     sql.NullFloat64
	District      string
}

// Amount returns the paid amount, or 0 when unset.
func (p Payment) Amount() float64 {
	if p.AmountPaid.Valid {
		return p.AmountPaid.Float64
	}
	return 0
}

// LinkedContractValue returns the joined contract value, or 0 when the
// payment has no contract.
func (p Payment) LinkedContractValue() float64 {
	if p.ContractValue.Valid {
		return p.ContractValue.Float64
	}
	return 0
}

// Vendor returns the joined vendor name, or "" when absent.
func (p Payment) Vendor() string {
	if p.VendorName.Valid {
		return p.VendorName.String
	}
	return ""
}
