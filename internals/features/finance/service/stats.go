// file: internals/features/finance/service/stats.go
package service

import (
	"context"
	"math"
	"sort"
	"time"

	amodel "kampusku_backend/internals/features/academics/model"
	fmodel "kampusku_backend/internals/features/finance/model"
	"kampusku_backend/internals/store"
)

// =========================================================
// AGGREGATION ENGINE
// =========================================================
//
// Kontrak store tidak punya GROUP BY, jadi statistik dihitung dengan fetch
// (full atau ter-window tanggal) lalu fold in-memory. "Hari ini" dibandingkan
// per hari kalender terhadap waktu query, bukan rolling 24 jam.

type StatsService struct {
	repos Repos

	// injeksi untuk test
	now func() time.Time
}

func NewStatsService(repos Repos) *StatsService {
	return &StatsService{repos: repos, now: time.Now}
}

// =========================================================
// STATISTIK GLOBAL PER ENTITAS
// =========================================================

type StudentStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Graduated int64 `json:"graduated"`
}

func (s *StatsService) GetStudentStats(ctx context.Context) (*StudentStats, error) {
	rows, err := s.repos.Students.Find(ctx, nil, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, err
	}
	out := &StudentStats{Total: int64(len(rows))}
	for _, r := range rows {
		switch r.StudentStatus {
		case amodel.StudentStatusActive:
			out.Active++
		case amodel.StudentStatusInactive:
			out.Inactive++
		case amodel.StudentStatusGraduated:
			out.Graduated++
		}
	}
	return out, nil
}

type BillStats struct {
	Total          int64 `json:"total"`
	Unpaid         int64 `json:"unpaid"`
	Partial        int64 `json:"partial"`
	Paid           int64 `json:"paid"`
	TotalAmountIDR int64 `json:"total_amount_idr"`
	PaidAmountIDR  int64 `json:"paid_amount_idr"`
	OutstandingIDR int64 `json:"outstanding_idr"`
	TodayAmountIDR int64 `json:"today_amount_idr"` // tagihan dibuat hari ini
}

func (s *StatsService) GetBillStats(ctx context.Context) (*BillStats, error) {
	rows, err := s.repos.Bills.Find(ctx, nil, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, err
	}
	today := s.now()
	out := &BillStats{Total: int64(len(rows))}
	for _, r := range rows {
		switch r.BillStatus {
		case fmodel.BillStatusUnpaid:
			out.Unpaid++
		case fmodel.BillStatusPartial:
			out.Partial++
		case fmodel.BillStatusPaid:
			out.Paid++
		}
		out.TotalAmountIDR += r.BillAmountIDR
		out.PaidAmountIDR += r.BillPaidAmountIDR
		out.OutstandingIDR += r.RemainingIDR()
		if sameCalendarDay(r.BillCreatedAt, today) {
			out.TodayAmountIDR += r.BillAmountIDR
		}
	}
	return out, nil
}

type PaymentStats struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	Pending        int64 `json:"pending"`
	Failed         int64 `json:"failed"`
	TotalAmountIDR int64 `json:"total_amount_idr"` // completed saja
	TodayAmountIDR int64 `json:"today_amount_idr"` // completed, hari kalender ini
}

func (s *StatsService) GetPaymentStats(ctx context.Context) (*PaymentStats, error) {
	rows, err := s.repos.Payments.Find(ctx, nil, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, err
	}
	today := s.now()
	out := &PaymentStats{Total: int64(len(rows))}
	for _, r := range rows {
		switch r.PaymentStatus {
		case fmodel.PaymentStatusCompleted:
			out.Completed++
		case fmodel.PaymentStatusPending:
			out.Pending++
		case fmodel.PaymentStatusFailed:
			out.Failed++
		}
		if r.PaymentStatus != fmodel.PaymentStatusCompleted {
			continue
		}
		out.TotalAmountIDR += r.PaymentAmountIDR
		if sameCalendarDay(r.PaymentDate, today) {
			out.TodayAmountIDR += r.PaymentAmountIDR
		}
	}
	return out, nil
}

// =========================================================
// PENDAPATAN BULANAN
// =========================================================

type MonthlyIncome struct {
	MonthLabel string `json:"month_label"` // "Jan 2026"
	IncomeIDR  int64  `json:"income_idr"`
}

// GetMonthlyIncome returns N bucket bulan kalender berurutan yang berakhir di
// bulan berjalan, tertua dulu, pre-alokasi nol. Baris di luar window diabaikan
// (tidak ditumpuk ke bucket tepi). Urutan output selalu kronologis.
func (s *StatsService) GetMonthlyIncome(ctx context.Context, months int) ([]MonthlyIncome, error) {
	if months < 1 {
		months = 1
	}
	now := s.now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	windowStart := currentMonth.AddDate(0, -(months - 1), 0)

	buckets := make([]MonthlyIncome, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		m := windowStart.AddDate(0, i, 0)
		key := m.Format("2006-01")
		buckets[i] = MonthlyIncome{MonthLabel: m.Format("Jan 2006")}
		index[key] = i
	}

	rows, err := s.repos.Payments.Find(ctx, store.And{
		store.Eq{Column: "payment_status", Value: string(fmodel.PaymentStatusCompleted)},
		store.Gte{Column: "payment_date", Value: windowStart},
	}, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if i, ok := index[r.PaymentDate.Format("2006-01")]; ok {
			buckets[i].IncomeIDR += r.PaymentAmountIDR
		}
	}
	return buckets, nil
}

// =========================================================
// DISTRIBUSI METODE PEMBAYARAN
// =========================================================

type MethodShare struct {
	Method     string `json:"method"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

// GetPaymentMethodDistribution group-counts completed payments dalam window
// `days` hari. Total dihitung dari fetch yang sama (bukan query ulang) supaya
// tidak ada window race kedua. Persentase dibulatkan independen per metode.
func (s *StatsService) GetPaymentMethodDistribution(ctx context.Context, days int) ([]MethodShare, error) {
	if days < 1 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)

	rows, err := s.repos.Payments.Find(ctx, store.And{
		store.Eq{Column: "payment_status", Value: string(fmodel.PaymentStatusCompleted)},
		store.Gte{Column: "payment_date", Value: since},
	}, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, r := range rows {
		counts[r.PaymentMethod]++
	}
	total := int64(len(rows))

	out := make([]MethodShare, 0, len(counts))
	for method, n := range counts {
		out = append(out, MethodShare{
			Method:     method,
			Count:      n,
			Percentage: int(math.Round(float64(n) / float64(total) * 100)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}

// =========================================================
// PROGRAM DENGAN PENDAPATAN TERTINGGI
// =========================================================

type ProgramRevenue struct {
	Program      string `json:"program"`
	StudentCount int    `json:"student_count"`
	RevenueIDR   int64  `json:"revenue_idr"`
}

// GetTopPrograms melipat pembayaran completed dalam window ke pendapatan per
// prodi. Nama prodi diresolve dengan presedensi: relasi ternormalisasi menang,
// teks legacy hanya saat FK kosong. Seri pendapatan dipecah nama prodi naik.
func (s *StatsService) GetTopPrograms(ctx context.Context, limit, days int) ([]ProgramRevenue, error) {
	if limit < 1 {
		limit = 5
	}
	if days < 1 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)

	students, err := s.repos.Students.Find(ctx, nil, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, err
	}
	programs, err := s.repos.Programs.Find(ctx, nil, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, err
	}
	programNames := make(map[string]string, len(programs))
	for _, p := range programs {
		programNames[p.ProgramID.String()] = p.ProgramName
	}
	studentProgram := make(map[string]string, len(students))
	for _, st := range students {
		studentProgram[st.StudentID.String()] = resolveProgramName(&st, programNames)
	}

	payments, err := s.repos.Payments.Find(ctx, store.And{
		store.Eq{Column: "payment_status", Value: string(fmodel.PaymentStatusCompleted)},
		store.Gte{Column: "payment_date", Value: since},
	}, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, err
	}

	revenue := map[string]int64{}
	payers := map[string]map[string]struct{}{}
	for _, p := range payments {
		name, ok := studentProgram[p.PaymentStudentID.String()]
		if !ok || name == "" {
			continue
		}
		revenue[name] += p.PaymentAmountIDR
		if payers[name] == nil {
			payers[name] = map[string]struct{}{}
		}
		payers[name][p.PaymentStudentID.String()] = struct{}{}
	}

	out := make([]ProgramRevenue, 0, len(revenue))
	for name, rev := range revenue {
		out = append(out, ProgramRevenue{
			Program:      name,
			StudentCount: len(payers[name]),
			RevenueIDR:   rev,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RevenueIDR != out[j].RevenueIDR {
			return out[i].RevenueIDR > out[j].RevenueIDR
		}
		return out[i].Program < out[j].Program
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// resolveProgramName: FK → Program.Name menang; teks legacy hanya fallback.
func resolveProgramName(st *amodel.Student, programNames map[string]string) string {
	if st.StudentProgramID != nil {
		if name, ok := programNames[st.StudentProgramID.String()]; ok && name != "" {
			return name
		}
	}
	return st.StudentProgramText
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
