package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Transaction runs steps in order. When a step fails, the compensations of
// the steps that already succeeded run in reverse order.
type Transaction struct {
	steps []step
	log   logrus.FieldLogger
}

type step struct {
	name       string
	run        func(context.Context) error
	compensate func(context.Context) error
}

func NewTransaction(log logrus.FieldLogger) *Transaction {
	return &Transaction{log: log}
}

// AddStep registers a step. compensate may be nil.
func (t *Transaction) AddStep(name string, run, compensate func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, run: run, compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.run(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("step %q failed: %w (rolled back %d steps)", s.name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.compensate == nil {
			continue
		}
		if err := s.compensate(ctx); err != nil {
			t.log.WithFields(logrus.Fields{"step": s.name, "error": err}).
				Warn("compensation failed, state may be inconsistent")
		}
	}
}
