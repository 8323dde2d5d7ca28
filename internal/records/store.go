package records

import "context"

// Sources are interface-driven to keep the detectors testable and to allow
// swapping in-memory and Postgres-backed reads without rewiring the engine.
type BudgetSource interface {
	ListBudgets(ctx context.Context) ([]Budget, error)
}

type ContractSource interface {
	ListContracts(ctx context.Context) ([]Contract, error)
}

type PaymentSource interface {
	ListPayments(ctx context.Context) ([]Payment, error)
}

// Source bundles the three collections for wiring convenience.
type Source interface {
	BudgetSource
	ContractSource
	PaymentSource
}
