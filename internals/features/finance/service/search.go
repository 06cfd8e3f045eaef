// file: internals/features/finance/service/search.go
package service

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	amodel "kampusku_backend/internals/features/academics/model"
	fmodel "kampusku_backend/internals/features/finance/model"
	"kampusku_backend/internals/store"
)

// =========================================================
// SEARCH FEDERATION ENGINE
// =========================================================
//
// Store hanya bisa memfilter satu tabel, jadi pencarian lintas relasi
// dikerjakan dua fase: (1) fan-out paralel meresolve kandidat ID di relasi
// terkait (dibatasi candidateCap baris), (2) satu predikat gabungan — ILIKE
// kolom lokal ∪ "fk IN himpunan" — dieksekusi dua kali dengan instance
// predikat yang SAMA: sekali Count, sekali window halaman.
//
// Lookup kandidat yang gagal tidak menggagalkan pencarian; entri itu dicatat
// di Degraded dan hasil turun ke match kolom lokal saja.

const (
	candidateCap    = 200
	fanoutLimit     = 4
	defaultPageSize = 20
	maxPageSize     = 200
)

type SearchService struct {
	repos Repos
}

func NewSearchService(repos Repos) *SearchService {
	return &SearchService{repos: repos}
}

// Page is the uniform paged result envelope.
type Page[T any] struct {
	Rows       []T      `json:"rows"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
	Degraded   []string `json:"degraded,omitempty"`
}

// SanitizeQuery membersihkan free-text: trim, rapatkan whitespace, buang
// karakter yang struktural di layer predikat. Hasil kosong = tanpa filter teks.
func SanitizeQuery(q string) string {
	var b strings.Builder
	for _, r := range q {
		switch r {
		case '%', '_', ',', ';':
			// delimiter struktural — buang
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// =========================================================
// FAN-OUT KANDIDAT
// =========================================================

type candidateLookup struct {
	// nama relasi terkait, untuk pelaporan Degraded
	entity string
	// kolom FK di entitas utama
	fkColumn string
	resolve  func(ctx context.Context) ([]uuid.UUID, error)
}

// resolveCandidates menjalankan semua lookup paralel (fan-out terbatas).
// Union hasil bersifat komutatif, urutan selesai tidak berpengaruh.
func resolveCandidates(ctx context.Context, lookups []candidateLookup) (terms []store.Predicate, degraded []string) {
	results := make([][]uuid.UUID, len(lookups))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanoutLimit)
	for i, lk := range lookups {
		g.Go(func() error {
			ids, err := lk.resolve(gctx)
			if err != nil {
				log.Printf("[SEARCH] candidate lookup %s failed: %v", lk.entity, err)
				mu.Lock()
				degraded = append(degraded, lk.entity)
				mu.Unlock()
				return nil // degradasi, bukan abort
			}
			results[i] = ids
			return nil
		})
	}
	_ = g.Wait()

	for i, ids := range results {
		if len(ids) == 0 {
			continue
		}
		terms = append(terms, store.InUUIDs(lookups[i].fkColumn, ids))
	}
	sort.Strings(degraded)
	return terms, degraded
}

// =========================================================
// PENCARIAN PER ENTITAS
// =========================================================

type StudentFilters struct {
	Status    string
	ProgramID *uuid.UUID
}

func (s *SearchService) SearchStudents(ctx context.Context, freeText string, f StudentFilters, page, pageSize int) (*Page[amodel.Student], error) {
	text := SanitizeQuery(freeText)

	var textPred store.Predicate
	var degraded []string
	if text != "" {
		local := store.Or{
			store.ILike{Column: "student_name", Value: text},
			store.ILike{Column: "student_nim", Value: text},
			store.ILike{Column: "student_email", Value: text},
			store.ILike{Column: "student_program_text", Value: text},
		}
		terms, deg := resolveCandidates(ctx, []candidateLookup{
			{
				entity:   "programs",
				fkColumn: "student_program_id",
				resolve:  s.programCandidates(text),
			},
		})
		degraded = deg
		textPred = store.Or(append([]store.Predicate(local), terms...))
	}

	pred := store.And{textPred}
	if f.Status != "" {
		pred = append(pred, store.Eq{Column: "student_status", Value: f.Status})
	}
	if f.ProgramID != nil {
		pred = append(pred, store.Eq{Column: "student_program_id", Value: *f.ProgramID})
	}

	return Paginate(ctx, s.repos.Students, pred,
		store.Sort{Column: "student_created_at", Desc: true}, page, pageSize, degraded)
}

type BillFilters struct {
	Status     string
	StudentID  *uuid.UUID
	CategoryID *uuid.UUID
	DueFrom    *time.Time
	DueTo      *time.Time
}

func (s *SearchService) SearchBills(ctx context.Context, freeText string, f BillFilters, page, pageSize int) (*Page[fmodel.Bill], error) {
	text := SanitizeQuery(freeText)

	var textPred store.Predicate
	var degraded []string
	if text != "" {
		local := store.Or{
			store.ILike{Column: "bill_title", Value: text},
			store.ILike{Column: "bill_note", Value: text},
		}
		terms, deg := resolveCandidates(ctx, []candidateLookup{
			{
				entity:   "students",
				fkColumn: "bill_student_id",
				resolve:  s.studentCandidates(text),
			},
			{
				entity:   "bill_categories",
				fkColumn: "bill_category_id",
				resolve:  s.categoryCandidates(text),
			},
		})
		degraded = deg
		textPred = store.Or(append([]store.Predicate(local), terms...))
	}

	pred := store.And{textPred}
	if f.Status != "" {
		pred = append(pred, store.Eq{Column: "bill_status", Value: f.Status})
	}
	if f.StudentID != nil {
		pred = append(pred, store.Eq{Column: "bill_student_id", Value: *f.StudentID})
	}
	if f.CategoryID != nil {
		pred = append(pred, store.Eq{Column: "bill_category_id", Value: *f.CategoryID})
	}
	if f.DueFrom != nil {
		pred = append(pred, store.Gte{Column: "bill_due_date", Value: *f.DueFrom})
	}
	if f.DueTo != nil {
		pred = append(pred, store.Lt{Column: "bill_due_date", Value: *f.DueTo})
	}

	return Paginate(ctx, s.repos.Bills, pred,
		store.Sort{Column: "bill_due_date", Desc: false}, page, pageSize, degraded)
}

type PaymentFilters struct {
	Status    string
	Method    string
	StudentID *uuid.UUID
	BillID    *uuid.UUID
	DateFrom  *time.Time
	DateTo    *time.Time
}

func (s *SearchService) SearchPayments(ctx context.Context, freeText string, f PaymentFilters, page, pageSize int) (*Page[fmodel.Payment], error) {
	text := SanitizeQuery(freeText)

	var textPred store.Predicate
	var degraded []string
	if text != "" {
		local := store.Or{
			store.ILike{Column: "payment_receipt_number", Value: text},
			store.ILike{Column: "payment_note", Value: text},
		}
		terms, deg := resolveCandidates(ctx, []candidateLookup{
			{
				entity:   "students",
				fkColumn: "payment_student_id",
				resolve:  s.studentCandidates(text),
			},
			{
				entity:   "bills",
				fkColumn: "payment_bill_id",
				resolve:  s.billCandidates(text),
			},
		})
		degraded = deg
		textPred = store.Or(append([]store.Predicate(local), terms...))
	}

	pred := store.And{textPred}
	if f.Status != "" {
		pred = append(pred, store.Eq{Column: "payment_status", Value: f.Status})
	}
	if f.Method != "" {
		pred = append(pred, store.Eq{Column: "payment_method", Value: f.Method})
	}
	if f.StudentID != nil {
		pred = append(pred, store.Eq{Column: "payment_student_id", Value: *f.StudentID})
	}
	if f.BillID != nil {
		pred = append(pred, store.Eq{Column: "payment_bill_id", Value: *f.BillID})
	}
	if f.DateFrom != nil {
		pred = append(pred, store.Gte{Column: "payment_date", Value: *f.DateFrom})
	}
	if f.DateTo != nil {
		pred = append(pred, store.Lt{Column: "payment_date", Value: *f.DateTo})
	}

	return Paginate(ctx, s.repos.Payments, pred,
		store.Sort{Column: "payment_date", Desc: true}, page, pageSize, degraded)
}

// =========================================================
// RESOLVER KANDIDAT (query ILIKE ter-cap di relasi terkait)
// =========================================================

func (s *SearchService) programCandidates(text string) func(context.Context) ([]uuid.UUID, error) {
	return func(ctx context.Context) ([]uuid.UUID, error) {
		rows, err := s.repos.Programs.Find(ctx, store.Or{
			store.ILike{Column: "program_name", Value: text},
			store.ILike{Column: "program_code", Value: text},
		}, store.Sort{}, store.Pagination{Limit: candidateCap})
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ProgramID)
		}
		return ids, nil
	}
}

func (s *SearchService) studentCandidates(text string) func(context.Context) ([]uuid.UUID, error) {
	return func(ctx context.Context) ([]uuid.UUID, error) {
		rows, err := s.repos.Students.Find(ctx, store.Or{
			store.ILike{Column: "student_name", Value: text},
			store.ILike{Column: "student_nim", Value: text},
		}, store.Sort{}, store.Pagination{Limit: candidateCap})
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.StudentID)
		}
		return ids, nil
	}
}

func (s *SearchService) categoryCandidates(text string) func(context.Context) ([]uuid.UUID, error) {
	return func(ctx context.Context) ([]uuid.UUID, error) {
		rows, err := s.repos.Categories.Find(ctx,
			store.ILike{Column: "category_name", Value: text},
			store.Sort{}, store.Pagination{Limit: candidateCap})
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.CategoryID)
		}
		return ids, nil
	}
}

func (s *SearchService) billCandidates(text string) func(context.Context) ([]uuid.UUID, error) {
	return func(ctx context.Context) ([]uuid.UUID, error) {
		rows, err := s.repos.Bills.Find(ctx,
			store.ILike{Column: "bill_title", Value: text},
			store.Sort{}, store.Pagination{Limit: candidateCap})
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.BillID)
		}
		return ids, nil
	}
}

// =========================================================
// EKSEKUSI COUNT + WINDOW
// =========================================================

// Paginate menjalankan Count lalu Find dengan INSTANCE predikat yang sama.
// Tulisan yang menyelinap di antara keduanya bisa membuat total/rows sedikit
// basi — diterima sebagai bounded staleness.
func Paginate[T any](ctx context.Context, repo store.Repository[T], pred store.Predicate, s store.Sort, page, pageSize int, degraded []string) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, err := repo.Count(ctx, pred)
	if err != nil {
		return nil, err
	}
	rows, err := repo.Find(ctx, pred, s, store.Pagination{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}

	return &Page[T]{
		Rows:       rows,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		Degraded:   degraded,
	}, nil
}
