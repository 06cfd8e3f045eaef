package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoice struct {
	ID      uuid.UUID
	Ref     string
	Owner   uuid.UUID
	Amount  int64
	Status  string
	DueDate time.Time
}

func invoiceSchema() Schema[invoice] {
	return Schema[invoice]{
		PK:    func(r *invoice) uuid.UUID { return r.ID },
		SetPK: func(r *invoice, id uuid.UUID) { r.ID = id },
		Columns: func(r *invoice) map[string]any {
			return map[string]any{
				"id":       r.ID,
				"ref":      r.Ref,
				"owner":    r.Owner,
				"amount":   r.Amount,
				"status":   r.Status,
				"due_date": r.DueDate,
			}
		},
		Apply: func(r *invoice, values map[string]any) {
			if v, ok := values["amount"].(int64); ok {
				r.Amount = v
			}
			if v, ok := values["status"].(string); ok {
				r.Status = v
			}
		},
		Clone:  func(r *invoice) *invoice { c := *r; return &c },
		Unique: []string{"ref"},
	}
}

func seedInvoices(t *testing.T, repo *MemoryRepository[invoice], rows ...invoice) {
	t.Helper()
	for i := range rows {
		require.NoError(t, repo.Insert(context.Background(), &rows[i]))
	}
}

func TestCompileClause(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name       string
		pred       Predicate
		wantClause string
		wantArgs   int
	}{
		{"eq", Eq{Column: "status", Value: "unpaid"}, "status = ?", 1},
		{"ilike escapes wildcards", ILike{Column: "ref", Value: "50%_off"}, "ref ILIKE ?", 1},
		{"gte", Gte{Column: "amount", Value: int64(10)}, "amount >= ?", 1},
		{"lt", Lt{Column: "amount", Value: int64(10)}, "amount < ?", 1},
		{"in", In{Column: "owner", Values: []any{owner}}, "owner IN ?", 1},
		{"empty in never matches", In{Column: "owner"}, "1 = 0", 0},
		{
			"or of terms",
			Or{Eq{Column: "a", Value: 1}, Eq{Column: "b", Value: 2}},
			"(a = ?) OR (b = ?)", 2,
		},
		{
			"and skips nil members",
			And{nil, Eq{Column: "a", Value: 1}},
			"(a = ?)", 1,
		},
		{"empty group", And{nil}, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := CompileClause(tt.pred)
			assert.Equal(t, tt.wantClause, clause)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestCompileClauseILikeArgWrapsValue(t *testing.T) {
	_, args := CompileClause(ILike{Column: "ref", Value: "abc"})
	require.Len(t, args, 1)
	assert.Equal(t, "%abc%", args[0])
}

func TestMemoryRepositoryFindCountAgree(t *testing.T) {
	repo := NewMemoryRepository(invoiceSchema())
	owner := uuid.New()
	other := uuid.New()
	seedInvoices(t, repo,
		invoice{Ref: "A-1", Owner: owner, Amount: 100, Status: "unpaid"},
		invoice{Ref: "A-2", Owner: owner, Amount: 200, Status: "paid"},
		invoice{Ref: "B-1", Owner: other, Amount: 300, Status: "unpaid"},
	)

	pred := And{
		Eq{Column: "status", Value: "unpaid"},
		In{Column: "owner", Values: []any{owner, other}},
	}
	total, err := repo.Count(context.Background(), pred)
	require.NoError(t, err)
	rows, err := repo.Find(context.Background(), pred, Sort{}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, total, int64(len(rows)))
	assert.Equal(t, int64(2), total)
}

func TestMemoryRepositoryILikeCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository(invoiceSchema())
	seedInvoices(t, repo, invoice{Ref: "SPP-Ganjil", Amount: 1, Status: "unpaid"})

	total, err := repo.Count(context.Background(), ILike{Column: "ref", Value: "spp"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMemoryRepositoryPaginationWindow(t *testing.T) {
	repo := NewMemoryRepository(invoiceSchema())
	for i := 0; i < 5; i++ {
		seedInvoices(t, repo, invoice{Ref: string(rune('A' + i)), Amount: int64(i), Status: "unpaid"})
	}

	rows, err := repo.Find(context.Background(), nil, Sort{Column: "amount"}, Pagination{Offset: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].Amount)

	rows, err = repo.Find(context.Background(), nil, Sort{}, Pagination{Offset: 99, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryRepositoryUniqueViolation(t *testing.T) {
	repo := NewMemoryRepository(invoiceSchema())
	seedInvoices(t, repo, invoice{Ref: "DUP", Amount: 1, Status: "unpaid"})

	dup := invoice{Ref: "DUP", Amount: 2, Status: "unpaid"}
	err := repo.Insert(context.Background(), &dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryRepositoryUpdateWhereGuard(t *testing.T) {
	repo := NewMemoryRepository(invoiceSchema())
	row := invoice{Ref: "G-1", Amount: 100, Status: "unpaid"}
	require.NoError(t, repo.Insert(context.Background(), &row))

	// guard cocok
	rows, err := repo.UpdateWhere(context.Background(), row.ID,
		Eq{Column: "amount", Value: int64(100)}, map[string]any{"amount": int64(150)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// guard basi
	rows, err = repo.UpdateWhere(context.Background(), row.ID,
		Eq{Column: "amount", Value: int64(100)}, map[string]any{"amount": int64(999)})
	require.NoError(t, err)
	assert.Zero(t, rows)

	got, err := repo.Get(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.Amount)
}

func TestMemoryRepositoryGetMissing(t *testing.T) {
	repo := NewMemoryRepository(invoiceSchema())
	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestMemoryRepositoryContextCancelled(t *testing.T) {
	repo := NewMemoryRepository(invoiceSchema())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Find(ctx, nil, Sort{}, Pagination{})
	assert.ErrorIs(t, err, context.Canceled)
}
