// file: internals/store/predicate.go
package store

// =========================================================
// PREDICATE — representasi filter single-table, store-agnostic
// =========================================================
//
// Semua filter yang boleh dikirim ke store dinyatakan lewat varian di bawah.
// Tidak ada varian lintas tabel: join difederasikan di layer service dengan
// meresolve kandidat ID lebih dulu, lalu diturunkan jadi In{...} di sini.

type Predicate interface {
	pred()
}

// Eq: kolom = nilai (exact match).
type Eq struct {
	Column string
	Value  any
}

// ILike: substring match case-insensitive pada kolom teks.
type ILike struct {
	Column string
	Value  string
}

// Gte: kolom >= nilai (angka, waktu, atau string).
type Gte struct {
	Column string
	Value  any
}

// Lt: kolom < nilai.
type Lt struct {
	Column string
	Value  any
}

// In: kolom ∈ himpunan nilai. Himpunan kosong tidak pernah match.
type In struct {
	Column string
	Values []any
}

// And / Or: komposisi. Elemen nil di-skip.
type And []Predicate

type Or []Predicate

func (Eq) pred()    {}
func (ILike) pred() {}
func (Gte) pred()   {}
func (Lt) pred()    {}
func (In) pred()    {}
func (And) pred()   {}
func (Or) pred()    {}

// InUUIDs builds an In predicate from a resolved candidate-ID set.
func InUUIDs[ID comparable](column string, ids []ID) In {
	vals := make([]any, 0, len(ids))
	for _, id := range ids {
		vals = append(vals, id)
	}
	return In{Column: column, Values: vals}
}
