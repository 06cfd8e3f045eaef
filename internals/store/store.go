// file: internals/store/store.go
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// =========================================================
// KONTRAK STORE — akses per tabel, tanpa join & tanpa
// transaksi lintas tabel
// =========================================================

var (
	// ErrRowNotFound: baris dengan id tsb tidak ada (atau sudah soft-delete).
	ErrRowNotFound = errors.New("store: row not found")
	// ErrDuplicate: pelanggaran unique index (mis. receipt_number).
	ErrDuplicate = errors.New("store: duplicate key")
)

// Pagination is an offset window. Limit <= 0 means no limit (full fetch,
// dipakai engine agregasi).
type Pagination struct {
	Offset int
	Limit  int
}

// Sort is a single-column order. Kolom wajib dari whitelist pemanggil.
type Sort struct {
	Column string
	Desc   bool
}

// Repository is the narrow per-relation contract. Setiap call hanya atomic
// untuk tabelnya sendiri; konsistensi lintas tabel diurus pemanggil
// (lihat reconciliation engine).
type Repository[T any] interface {
	// Find returns the page window matching pred.
	Find(ctx context.Context, pred Predicate, sort Sort, page Pagination) ([]T, error)
	// Count returns the exact match count for pred (no rows fetched).
	Count(ctx context.Context, pred Predicate) (int64, error)
	// Get returns the row by primary key, ErrRowNotFound if absent.
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	// Insert persists a new row; ErrDuplicate on unique violation.
	Insert(ctx context.Context, row *T) error
	// Update patches the row by primary key and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error)
	// UpdateWhere patches the row only while pred still holds (conditional
	// update). Returns rows affected; 0 berarti guard gagal (data berubah
	// di tengah jalan), bukan error.
	UpdateWhere(ctx context.Context, id uuid.UUID, pred Predicate, values map[string]any) (int64, error)
	// Delete soft-deletes the row.
	Delete(ctx context.Context, id uuid.UUID) error
}
