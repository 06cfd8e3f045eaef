// file: internals/store/gorm_store.go
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// IMPLEMENTASI GORM (PostgreSQL)
// =========================================================
//
// Predikat dikompilasi ke fragmen WHERE satu tabel. Perlu gorm.Config
// TranslateError aktif supaya unique violation terpetakan ke ErrDuplicate.

type GormRepository[T any] struct {
	db *gorm.DB
	pk string
}

func NewGormRepository[T any](db *gorm.DB, pkColumn string) *GormRepository[T] {
	return &GormRepository[T]{db: db, pk: pkColumn}
}

func (r *GormRepository[T]) Find(ctx context.Context, pred Predicate, sort Sort, page Pagination) ([]T, error) {
	var model T
	q := r.db.WithContext(ctx).Model(&model)
	q = applyPredicate(q, pred)
	if sort.Column != "" {
		dir := "ASC"
		if sort.Desc {
			dir = "DESC"
		}
		q = q.Order(sort.Column + " " + dir)
	}
	// tie-breaker stabil
	q = q.Order(r.pk + " DESC")
	if page.Limit > 0 {
		q = q.Offset(page.Offset).Limit(page.Limit)
	}
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepository[T]) Count(ctx context.Context, pred Predicate) (int64, error) {
	var model T
	q := applyPredicate(r.db.WithContext(ctx).Model(&model), pred)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepository[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).Where(r.pk+" = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRowNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormRepository[T]) Insert(ctx context.Context, row *T) error {
	err := r.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *GormRepository[T]) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error) {
	var model T
	res := r.db.WithContext(ctx).Model(&model).Where(r.pk+" = ?", id).Updates(values)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRowNotFound
	}
	return r.Get(ctx, id)
}

func (r *GormRepository[T]) UpdateWhere(ctx context.Context, id uuid.UUID, pred Predicate, values map[string]any) (int64, error) {
	var model T
	q := r.db.WithContext(ctx).Model(&model).Where(r.pk+" = ?", id)
	q = applyPredicate(q, pred)
	res := q.Updates(values)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *GormRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var model T
	res := r.db.WithContext(ctx).Where(r.pk+" = ?", id).Delete(&model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}

// =========================================================
// KOMPILASI PREDIKAT → WHERE
// =========================================================

func applyPredicate(q *gorm.DB, pred Predicate) *gorm.DB {
	if pred == nil {
		return q
	}
	clause, args := CompileClause(pred)
	if clause == "" {
		return q
	}
	return q.Where(clause, args...)
}

// CompileClause turns a predicate into a WHERE fragment plus its args.
// Diekspos supaya bisa diuji tanpa koneksi database.
func CompileClause(pred Predicate) (string, []any) {
	switch p := pred.(type) {
	case nil:
		return "", nil
	case Eq:
		return p.Column + " = ?", []any{p.Value}
	case ILike:
		return p.Column + " ILIKE ?", []any{"%" + escapeLike(p.Value) + "%"}
	case Gte:
		return p.Column + " >= ?", []any{p.Value}
	case Lt:
		return p.Column + " < ?", []any{p.Value}
	case In:
		if len(p.Values) == 0 {
			// himpunan kosong: tidak pernah match
			return "1 = 0", nil
		}
		return p.Column + " IN ?", []any{p.Values}
	case And:
		return compileGroup([]Predicate(p), " AND ")
	case Or:
		return compileGroup([]Predicate(p), " OR ")
	default:
		return "", nil
	}
}

func compileGroup(preds []Predicate, sep string) (string, []any) {
	parts := make([]string, 0, len(preds))
	var args []any
	for _, p := range preds {
		if p == nil {
			continue
		}
		c, a := CompileClause(p)
		if c == "" {
			continue
		}
		parts = append(parts, "("+c+")")
		args = append(args, a...)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, sep), args
}

// escapeLike menetralkan wildcard LIKE di input user.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
