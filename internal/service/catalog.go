package service

import (
	"context"
	"errors"

	"alcyxob/sports-library/internal/domain"
	"alcyxob/sports-library/internal/repository"

	"go.uber.org/zap"
)

// SeedCatalog inserts the default training and movement types that are not
// stored yet. Existing entries, possibly edited by the user, are kept.
// It returns the number of entries inserted.
func (l *Library) SeedCatalog(ctx context.Context) (int, error) {
	var defaults []domain.Entity
	for _, t := range domain.DefaultTrainingTypes() {
		defaults = append(defaults, t)
	}
	for _, m := range domain.DefaultMovementTypes() {
		defaults = append(defaults, m)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	inserted := 0
	for _, e := range defaults {
		raw, err := l.codec.Marshal(e)
		if err != nil {
			return inserted, opError("seed", e.Kind(), e.ID().String(), err)
		}
		err = l.store.Insert(ctx, string(e.Kind()), e.ID().String(), raw)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return inserted, opError("seed", e.Kind(), e.ID().String(), err)
		}
		inserted++
	}
	if inserted > 0 {
		l.logger.Info("catalog seeded", zap.Int("inserted", inserted))
	}
	return inserted, nil
}
