package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amodel "kampusku_backend/internals/features/academics/model"
	fmodel "kampusku_backend/internals/features/finance/model"
)

func newStatsFixture(t *testing.T) (*testEnv, *StatsService) {
	t.Helper()
	env := newTestEnv()
	svc := NewStatsService(env.repos)
	svc.now = func() time.Time {
		return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return env, svc
}

func TestGetStudentStats(t *testing.T) {
	env, svc := newStatsFixture(t)
	env.addStudent(t, "001", "A", nil, "")
	env.addStudent(t, "002", "B", nil, "")
	c := env.addStudent(t, "003", "C", nil, "")
	_, err := env.students.Update(context.Background(), c.StudentID,
		map[string]any{"student_status": string(amodel.StudentStatusGraduated)})
	require.NoError(t, err)

	out, err := svc.GetStudentStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, int64(2), out.Active)
	assert.Equal(t, int64(1), out.Graduated)
	assert.Zero(t, out.Inactive)
}

func TestGetBillStats(t *testing.T) {
	env, svc := newStatsFixture(t)
	st := env.addStudent(t, "001", "Budi", nil, "")
	env.addBill(t, st.StudentID, "Unpaid", 1_000, 0)
	env.addBill(t, st.StudentID, "Partial", 1_000, 400)
	env.addBill(t, st.StudentID, "Paid", 1_000, 1_000)

	out, err := svc.GetBillStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, int64(1), out.Unpaid)
	assert.Equal(t, int64(1), out.Partial)
	assert.Equal(t, int64(1), out.Paid)
	assert.Equal(t, int64(3_000), out.TotalAmountIDR)
	assert.Equal(t, int64(1_400), out.PaidAmountIDR)
	assert.Equal(t, int64(1_600), out.OutstandingIDR)
}

func TestGetPaymentStatsCompletedOnly(t *testing.T) {
	env, svc := newStatsFixture(t)
	st := env.addStudent(t, "001", "Budi", nil, "")
	bill := env.addBill(t, st.StudentID, "SPP", 10_000, 0)

	today := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	env.addPayment(t, bill, 100, "cash", today, fmodel.PaymentStatusCompleted)
	env.addPayment(t, bill, 200, "cash", yesterday, fmodel.PaymentStatusCompleted)
	env.addPayment(t, bill, 999, "cash", today, fmodel.PaymentStatusPending)
	env.addPayment(t, bill, 999, "cash", today, fmodel.PaymentStatusFailed)

	out, err := svc.GetPaymentStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), out.Total)
	assert.Equal(t, int64(2), out.Completed)
	assert.Equal(t, int64(1), out.Pending)
	assert.Equal(t, int64(1), out.Failed)
	// pending/failed tidak pernah masuk jumlah uang
	assert.Equal(t, int64(300), out.TotalAmountIDR)
	// "hari ini" = hari kalender, bukan rolling 24 jam
	assert.Equal(t, int64(100), out.TodayAmountIDR)
}

func TestGetMonthlyIncomeBuckets(t *testing.T) {
	env, svc := newStatsFixture(t)
	st := env.addStudent(t, "001", "Budi", nil, "")
	bill := env.addBill(t, st.StudentID, "SPP", 10_000_000, 0)

	pay := func(y int, m time.Month, d int, amount int64, status fmodel.PaymentStatus) {
		env.addPayment(t, bill, amount, "cash", time.Date(y, m, d, 10, 0, 0, 0, time.UTC), status)
	}
	pay(2026, time.June, 1, 500, fmodel.PaymentStatusCompleted)
	pay(2026, time.June, 20, 250, fmodel.PaymentStatusCompleted)
	pay(2026, time.April, 5, 100, fmodel.PaymentStatusCompleted)
	pay(2026, time.January, 5, 999, fmodel.PaymentStatusCompleted) // di luar window 6 bulan? Jan masih masuk (Jan..Jun)
	pay(2025, time.December, 31, 777, fmodel.PaymentStatusCompleted)
	pay(2026, time.June, 2, 999, fmodel.PaymentStatusPending) // bukan completed

	out, err := svc.GetMonthlyIncome(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, out, 6)

	labels := make([]string, len(out))
	for i, b := range out {
		labels[i] = b.MonthLabel
	}
	assert.Equal(t, []string{"Jan 2026", "Feb 2026", "Mar 2026", "Apr 2026", "May 2026", "Jun 2026"}, labels)

	assert.Equal(t, int64(999), out[0].IncomeIDR) // Jan
	assert.Zero(t, out[1].IncomeIDR)              // Feb pre-alokasi nol
	assert.Equal(t, int64(100), out[3].IncomeIDR) // Apr
	assert.Equal(t, int64(750), out[5].IncomeIDR) // Jun

	var sum int64
	for _, b := range out {
		sum += b.IncomeIDR
	}
	assert.Equal(t, int64(500+250+100+999), sum) // Des 2025 tidak ditumpuk ke bucket tepi
}

func TestGetMonthlyIncomeMinimumOneBucket(t *testing.T) {
	_, svc := newStatsFixture(t)
	out, err := svc.GetMonthlyIncome(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Jun 2026", out[0].MonthLabel)
}

func TestGetPaymentMethodDistribution(t *testing.T) {
	env, svc := newStatsFixture(t)
	st := env.addStudent(t, "001", "Budi", nil, "")
	bill := env.addBill(t, st.StudentID, "SPP", 10_000_000, 0)

	recent := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		env.addPayment(t, bill, 100, "transfer", recent, fmodel.PaymentStatusCompleted)
	}
	env.addPayment(t, bill, 100, "cash", recent, fmodel.PaymentStatusCompleted)
	// di luar window 30 hari
	env.addPayment(t, bill, 100, "qris", recent.AddDate(0, -3, 0), fmodel.PaymentStatusCompleted)

	out, err := svc.GetPaymentMethodDistribution(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, MethodShare{Method: "transfer", Count: 2, Percentage: 67}, out[0])
	assert.Equal(t, MethodShare{Method: "cash", Count: 1, Percentage: 33}, out[1])
}

func TestGetPaymentMethodDistributionTieAlphabetical(t *testing.T) {
	env, svc := newStatsFixture(t)
	st := env.addStudent(t, "001", "Budi", nil, "")
	bill := env.addBill(t, st.StudentID, "SPP", 10_000_000, 0)

	recent := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	env.addPayment(t, bill, 100, "transfer", recent, fmodel.PaymentStatusCompleted)
	env.addPayment(t, bill, 100, "cash", recent, fmodel.PaymentStatusCompleted)

	out, err := svc.GetPaymentMethodDistribution(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "cash", out[0].Method)
	assert.Equal(t, "transfer", out[1].Method)
	assert.Equal(t, 50, out[0].Percentage)
}

func TestGetTopProgramsResolutionAndOrdering(t *testing.T) {
	env, svc := newStatsFixture(t)

	ti := env.addProgram(t, "TI", "Teknik Informatika")
	// FK menang atas teks legacy yang beda
	fkStudent := env.addStudent(t, "001", "Budi", &ti.ProgramID, "Nama Lama Prodi")
	textStudent := env.addStudent(t, "002", "Siti", nil, "Manajemen")
	orphan := env.addStudent(t, "003", "Andi", nil, "") // tak teresolve → dilewati

	billA := env.addBill(t, fkStudent.StudentID, "SPP", 10_000_000, 0)
	billB := env.addBill(t, textStudent.StudentID, "SPP", 10_000_000, 0)
	billC := env.addBill(t, orphan.StudentID, "SPP", 10_000_000, 0)

	recent := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	env.addPayment(t, billA, 5_000, "cash", recent, fmodel.PaymentStatusCompleted)
	env.addPayment(t, billA, 2_000, "cash", recent, fmodel.PaymentStatusCompleted)
	env.addPayment(t, billB, 4_000, "cash", recent, fmodel.PaymentStatusCompleted)
	env.addPayment(t, billC, 9_999, "cash", recent, fmodel.PaymentStatusCompleted)

	out, err := svc.GetTopPrograms(context.Background(), 5, 30)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Teknik Informatika", out[0].Program)
	assert.Equal(t, int64(7_000), out[0].RevenueIDR)
	assert.Equal(t, 1, out[0].StudentCount)

	assert.Equal(t, "Manajemen", out[1].Program)
	assert.Equal(t, int64(4_000), out[1].RevenueIDR)
}

func TestGetTopProgramsTieBreakAndLimit(t *testing.T) {
	env, svc := newStatsFixture(t)

	recent := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	for _, name := range []string{"Zoologi", "Akuntansi", "Biologi"} {
		st := env.addStudent(t, "NIM-"+name, "Mahasiswa "+name, nil, name)
		bill := env.addBill(t, st.StudentID, "SPP", 1_000_000, 0)
		env.addPayment(t, bill, 3_000, "cash", recent, fmodel.PaymentStatusCompleted)
	}

	out, err := svc.GetTopPrograms(context.Background(), 2, 30)
	require.NoError(t, err)
	require.Len(t, out, 2)
	// seri pendapatan → nama prodi naik, lalu dipotong limit
	assert.Equal(t, "Akuntansi", out[0].Program)
	assert.Equal(t, "Biologi", out[1].Program)
}
