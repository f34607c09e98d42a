package services

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

const defaultTransactionLimit = 50

// order compares two records for sorting.
type order func(a, b store.Record) int

func newestFirst(field string) order {
	return func(a, b store.Record) int {
		return store.ParseTime(b.String(field)).Compare(store.ParseTime(a.String(field)))
	}
}

func oldestFirst(field string) order {
	return func(a, b store.Record) int {
		return store.ParseTime(a.String(field)).Compare(store.ParseTime(b.String(field)))
	}
}

// periodDesc orders "YYYY-MM" style strings newest first.
func periodDesc(field string) order {
	return func(a, b store.Record) int {
		return cmp.Compare(b.String(field), a.String(field))
	}
}

func ascending(field string) order {
	return func(a, b store.Record) int {
		return cmp.Compare(a.String(field), b.String(field))
	}
}

func thenBy(orders ...order) order {
	return func(a, b store.Record) int {
		for _, o := range orders {
			if c := o(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// table gives typed, user-scoped access to one store table behind the
// simulated network.
type table[T any] struct {
	store *store.Store
	net   *netsim.Network
	name  store.Table
	order order
}

func newTable[T any](st *store.Store, net *netsim.Network, name store.Table, o order) table[T] {
	return table[T]{store: st, net: net, name: name, order: o}
}

// records returns the rows owned by userID in table order. Must be called
// inside a network call.
func (t table[T]) records(userID string) ([]store.Record, error) {
	rows, err := t.store.GetTable(t.name)
	if err != nil {
		return nil, err
	}
	owned := rows[:0]
	for _, r := range rows {
		if r.UserID() == userID {
			owned = append(owned, r)
		}
	}
	if t.order != nil {
		slices.SortStableFunc(owned, t.order)
	}
	return owned, nil
}

func (t table[T]) list(userID string, limit int, keep func(store.Record) bool) ([]T, error) {
	return netsim.Do(t.net, func() ([]T, error) {
		rows, err := t.records(userID)
		if err != nil {
			return nil, err
		}
		if keep != nil {
			rows = slices.DeleteFunc(rows, func(r store.Record) bool { return !keep(r) })
		}
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}
		return decodeAll[T](rows), nil
	})
}

func (t table[T]) first(userID string, match func(store.Record) bool) (*T, error) {
	return netsim.Do(t.net, func() (*T, error) {
		rows, err := t.records(userID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if match(r) {
				return decodeOne[T](r)
			}
		}
		return nil, nil
	})
}

// create stores v with server-assigned id and timestamps.
func (t table[T]) create(v T) (*T, error) {
	record, err := store.ToRecord(v)
	if err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	delete(record, "id")
	delete(record, "created_at")
	delete(record, "updated_at")

	return netsim.Do(t.net, func() (*T, error) {
		stored, err := t.store.Insert(t.name, record)
		if err != nil {
			return nil, err
		}
		return decodeOne[T](stored)
	})
}

// update merges updates into the record with id. It returns nil when no
// such record exists.
func (t table[T]) update(id string, updates map[string]any) (*T, error) {
	return netsim.Do(t.net, func() (*T, error) {
		stored, err := t.store.Update(t.name, id, store.Record(updates))
		if err != nil {
			return nil, errors.Join(ErrInvalidInput, err)
		}
		if stored == nil {
			return nil, nil
		}
		return decodeOne[T](stored)
	})
}

func (t table[T]) delete(id string) error {
	return netsim.Run(t.net, func() error {
		_, err := t.store.Delete(t.name, id)
		return err
	})
}

// sum adds field over the owned rows accepted by keep.
func (t table[T]) sum(userID string, keep func(store.Record) bool, value func(store.Record) decimal.Decimal) (decimal.Decimal, error) {
	return netsim.Do(t.net, func() (decimal.Decimal, error) {
		rows, err := t.store.GetTable(t.name)
		if err != nil {
			return decimal.Zero, err
		}
		total := decimal.Zero
		for _, r := range rows {
			if r.UserID() != userID || (keep != nil && !keep(r)) {
				continue
			}
			total = total.Add(value(r))
		}
		return total, nil
	})
}

func decodeOne[T any](r store.Record) (*T, error) {
	v, err := store.Decode[T](r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeAll skips rows that no longer fit the entity shape.
func decodeAll[T any](rows []store.Record) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := store.Decode[T](r)
		if err != nil {
			zap.L().Warn("Skipping malformed record", zap.String("id", r.ID()), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

// amount coerces a stored numeric field. Numbers and numeric strings are
// accepted; anything else counts as zero.
func amount(r store.Record, field string) decimal.Decimal {
	switch v := r[field].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func field(name string) func(store.Record) decimal.Decimal {
	return func(r store.Record) decimal.Decimal { return amount(r, name) }
}
