package hub

import (
	"fmt"
	"time"
)

const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 500
)

type ReadingQuery struct {
	Limit int
	From  *time.Time
	To    *time.Time
}

func (q *ReadingQuery) Validate() error {
	if q.Limit <= 0 || q.Limit > MaxQueryLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxQueryLimit)
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return fmt.Errorf("%w: 'from' must be less than or equal to 'to'", ErrValidation)
	}
	return nil
}
