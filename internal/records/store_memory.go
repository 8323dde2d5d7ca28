package records

import (
	"context"
	"sync"
)

// InMemorySource serves record collections from seeded slices. Used in tests
// and when no DATABASE_URL is configured.
type InMemorySource struct {
	mu        sync.RWMutex
	budgets   []Budget
	contracts []Contract
	payments  []Payment

	// optional error injection for detector failure-path tests
	budgetErr   error
	contractErr error
	paymentErr  error
}

func NewInMemorySource() *InMemorySource {
	return &InMemorySource{}
}

// Seed replaces the stored collections.
func (s *InMemorySource) Seed(budgets []Budget, contracts []Contract, payments []Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = budgets
	s.contracts = contracts
	s.payments = payments
}

// FailBudgets makes ListBudgets return err until called with nil.
func (s *InMemorySource) FailBudgets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgetErr = err
}

// FailContracts makes ListContracts return err until called with nil.
func (s *InMemorySource) FailContracts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contractErr = err
}

// FailPayments makes ListPayments return err until called with nil.
func (s *InMemorySource) FailPayments(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentErr = err
}

func (s *InMemorySource) ListBudgets(_ context.Context) ([]Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.budgetErr != nil {
		return nil, s.budgetErr
	}
	return append([]Budget{}, s.budgets...), nil
}

func (s *InMemorySource) ListContracts(_ context.Context) ([]Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contractErr != nil {
		return nil, s.contractErr
	}
	return append([]Contract{}, s.contracts...), nil
}

func (s *InMemorySource) ListPayments(_ context.Context) ([]Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	return append([]Payment{}, s.payments...), nil
}
