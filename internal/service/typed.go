package service

import (
	"context"
	"fmt"

	"alcyxob/sports-library/internal/domain"
)

// kindOf reads the kind from the zero value; entity Kind methods never
// dereference their receiver.
func kindOf[T domain.Entity]() domain.Kind {
	var zero T
	return zero.Kind()
}

// Find loads one entity of type T by identity key.
func Find[T domain.Entity](ctx context.Context, l *Library, id string) (T, bool, error) {
	var zero T
	e, found, err := l.FindByID(ctx, kindOf[T](), id)
	if err != nil || !found {
		return zero, found, err
	}
	typed, ok := e.(T)
	if !ok {
		return zero, false, fmt.Errorf("find %s %s: decoded %T", kindOf[T](), id, e)
	}
	return typed, true, nil
}

// FindAllOf loads every entity of type T in insertion order.
func FindAllOf[T domain.Entity](ctx context.Context, l *Library) ([]T, error) {
	all, err := l.FindAll(ctx, kindOf[T]())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, e := range all {
		if typed, ok := e.(T); ok {
			out = append(out, typed)
		}
	}
	return out, nil
}
