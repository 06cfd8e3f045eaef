// file: internals/store/memory_store.go
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =========================================================
// IMPLEMENTASI IN-MEMORY
// =========================================================
//
// Mengevaluasi predikat yang sama dengan implementasi GORM, di atas slice.
// Dipakai test engine dan mode dev tanpa Postgres. Nilai kolom diambil lewat
// Schema supaya tidak perlu reflection.

// Schema describes how to read/write one relation's rows without reflection.
type Schema[T any] struct {
	PK      func(*T) uuid.UUID
	SetPK   func(*T, uuid.UUID)
	Columns func(*T) map[string]any
	Apply   func(*T, map[string]any)
	Clone   func(*T) *T
	// Unique lists columns enforced unik (meniru unique index Postgres).
	Unique []string
}

type MemoryRepository[T any] struct {
	mu     sync.RWMutex
	rows   []*T
	schema Schema[T]
}

func NewMemoryRepository[T any](schema Schema[T]) *MemoryRepository[T] {
	return &MemoryRepository[T]{schema: schema}
}

func (r *MemoryRepository[T]) Find(ctx context.Context, pred Predicate, s Sort, page Pagination) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*T
	for _, row := range r.rows {
		if evalPredicate(pred, r.schema.Columns(row)) {
			matched = append(matched, row)
		}
	}
	if s.Column != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			a := r.schema.Columns(matched[i])[s.Column]
			b := r.schema.Columns(matched[j])[s.Column]
			if s.Desc {
				return compareValues(b, a) < 0
			}
			return compareValues(a, b) < 0
		})
	}
	if page.Limit > 0 {
		if page.Offset >= len(matched) {
			matched = nil
		} else {
			end := page.Offset + page.Limit
			if end > len(matched) {
				end = len(matched)
			}
			matched = matched[page.Offset:end]
		}
	}
	out := make([]T, 0, len(matched))
	for _, row := range matched {
		out = append(out, *r.schema.Clone(row))
	}
	return out, nil
}

func (r *MemoryRepository[T]) Count(ctx context.Context, pred Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, row := range r.rows {
		if evalPredicate(pred, r.schema.Columns(row)) {
			total++
		}
	}
	return total, nil
}

func (r *MemoryRepository[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if r.schema.PK(row) == id {
			return r.schema.Clone(row), nil
		}
	}
	return nil, ErrRowNotFound
}

func (r *MemoryRepository[T]) Insert(ctx context.Context, row *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.schema.PK(row) == uuid.Nil {
		r.schema.SetPK(row, uuid.New())
	}
	cols := r.schema.Columns(row)
	for _, uc := range r.schema.Unique {
		val := cols[uc]
		if val == nil || val == "" {
			continue
		}
		for _, existing := range r.rows {
			if valuesEqual(r.schema.Columns(existing)[uc], val) {
				return ErrDuplicate
			}
		}
	}
	r.rows = append(r.rows, r.schema.Clone(row))
	return nil
}

func (r *MemoryRepository[T]) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if r.schema.PK(row) == id {
			r.schema.Apply(row, values)
			return r.schema.Clone(row), nil
		}
	}
	return nil, ErrRowNotFound
}

func (r *MemoryRepository[T]) UpdateWhere(ctx context.Context, id uuid.UUID, pred Predicate, values map[string]any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if r.schema.PK(row) != id {
			continue
		}
		if !evalPredicate(pred, r.schema.Columns(row)) {
			return 0, nil
		}
		r.schema.Apply(row, values)
		return 1, nil
	}
	return 0, nil
}

func (r *MemoryRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if r.schema.PK(row) == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return ErrRowNotFound
}

// =========================================================
// EVALUASI PREDIKAT
// =========================================================

func evalPredicate(pred Predicate, cols map[string]any) bool {
	switch p := pred.(type) {
	case nil:
		return true
	case Eq:
		return valuesEqual(cols[p.Column], p.Value)
	case ILike:
		s, ok := cols[p.Column].(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(p.Value))
	case Gte:
		return compareValues(cols[p.Column], p.Value) >= 0
	case Lt:
		return compareValues(cols[p.Column], p.Value) < 0
	case In:
		for _, v := range p.Values {
			if valuesEqual(cols[p.Column], v) {
				return true
			}
		}
		return false
	case And:
		for _, sub := range p {
			if sub != nil && !evalPredicate(sub, cols) {
				return false
			}
		}
		return true
	case Or:
		any := false
		for _, sub := range p {
			if sub == nil {
				continue
			}
			any = true
			if evalPredicate(sub, cols) {
				return true
			}
		}
		return !any
	default:
		return false
	}
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
	}
	return normalize(a) == normalize(b)
}

// normalize menyamakan representasi nilai umum (uuid → string, angka → int64).
func normalize(v any) any {
	switch t := v.(type) {
	case uuid.UUID:
		return t.String()
	case *uuid.UUID:
		if t == nil {
			return nil
		}
		return t.String()
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	default:
		return v
	}
}

func compareValues(a, b any) int {
	switch at := normalize(a).(type) {
	case int64:
		bt, ok := normalize(b).(int64)
		if !ok {
			return 0
		}
		switch {
		case at < bt:
			return -1
		case at > bt:
			return 1
		}
		return 0
	case string:
		bt, _ := normalize(b).(string)
		return strings.Compare(at, bt)
	case time.Time:
		bt, ok := b.(time.Time)
		if !ok {
			return 0
		}
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	default:
		return 0
	}
}
