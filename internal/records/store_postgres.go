package records

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresSource reads the record collections from PostgreSQL. Contracts and
// payments come back pre-joined with vendor data so detectors never issue
// follow-up queries.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) ListBudgets(ctx context.Context) ([]Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT budget_id, allocated_amount, actual_expenditure,
		       COALESCE(ministry, ''), COALESCE(programme, ''),
		       COALESCE(district, ''), COALESCE(fiscal_year, '')
		FROM budgets
	`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.BudgetID, &b.AllocatedAmount, &b.ActualExpenditure,
			&b.Ministry, &b.Programme, &b.District, &b.FiscalYear); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *PostgresSource) ListContracts(ctx context.Context) ([]Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.contract_id, c.contract_value,
		       COALESCE(c.vendor_name, v.name),
		       c.contract_start_date, c.contract_target_end_date,
		       COALESCE(c.contract_status, ''), COALESCE(c.district, '')
		FROM contracts c
		LEFT JOIN vendors v ON v.vendor_id = c.vendor_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ContractID, &c.ContractValue, &c.VendorName,
			&c.StartDate, &c.TargetEndDate, &c.Status, &c.District); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (s *PostgresSource) ListPayments(ctx context.Context) ([]Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.payment_id, p.amount_paid, p.contract_id,
		       c.contract_value, c.vendor_name,
		       p.payment_date, p.risk_score, COALESCE(p.district, '')
		FROM payments p
		LEFT JOIN contracts c ON c.contract_id = p.contract_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.PaymentID, &p.AmountPaid, &p.ContractID,
			&p.ContractValue, &p.VendorName, &p.PaymentDate, &p.RiskScore, &p.District); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
