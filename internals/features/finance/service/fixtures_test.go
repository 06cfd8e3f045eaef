package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	amodel "kampusku_backend/internals/features/academics/model"
	fmodel "kampusku_backend/internals/features/finance/model"
	"kampusku_backend/internals/store"
)

// =========================================================
// Schema memory-store untuk kelima relasi
// =========================================================

func studentSchema() store.Schema[amodel.Student] {
	return store.Schema[amodel.Student]{
		PK:    func(m *amodel.Student) uuid.UUID { return m.StudentID },
		SetPK: func(m *amodel.Student, id uuid.UUID) { m.StudentID = id },
		Columns: func(m *amodel.Student) map[string]any {
			return map[string]any{
				"student_id":           m.StudentID,
				"student_nim":          m.StudentNIM,
				"student_name":         m.StudentName,
				"student_email":        m.StudentEmail,
				"student_program_id":   m.StudentProgramID,
				"student_program_text": m.StudentProgramText,
				"student_status":       string(m.StudentStatus),
				"student_created_at":   m.StudentCreatedAt,
			}
		},
		Apply: func(m *amodel.Student, values map[string]any) {
			if v, ok := values["student_name"].(string); ok {
				m.StudentName = v
			}
			if v, ok := values["student_status"].(string); ok {
				m.StudentStatus = amodel.StudentStatus(v)
			}
		},
		Clone:  func(m *amodel.Student) *amodel.Student { c := *m; return &c },
		Unique: []string{"student_nim"},
	}
}

func programSchema() store.Schema[amodel.Program] {
	return store.Schema[amodel.Program]{
		PK:    func(m *amodel.Program) uuid.UUID { return m.ProgramID },
		SetPK: func(m *amodel.Program, id uuid.UUID) { m.ProgramID = id },
		Columns: func(m *amodel.Program) map[string]any {
			return map[string]any{
				"program_id":     m.ProgramID,
				"program_code":   m.ProgramCode,
				"program_name":   m.ProgramName,
				"program_status": string(m.ProgramStatus),
			}
		},
		Apply:  func(m *amodel.Program, values map[string]any) {},
		Clone:  func(m *amodel.Program) *amodel.Program { c := *m; return &c },
		Unique: []string{"program_code"},
	}
}

func categorySchema() store.Schema[fmodel.BillCategory] {
	return store.Schema[fmodel.BillCategory]{
		PK:    func(m *fmodel.BillCategory) uuid.UUID { return m.CategoryID },
		SetPK: func(m *fmodel.BillCategory, id uuid.UUID) { m.CategoryID = id },
		Columns: func(m *fmodel.BillCategory) map[string]any {
			return map[string]any{
				"category_id":   m.CategoryID,
				"category_name": m.CategoryName,
			}
		},
		Apply: func(m *fmodel.BillCategory, values map[string]any) {},
		Clone: func(m *fmodel.BillCategory) *fmodel.BillCategory { c := *m; return &c },
	}
}

func billSchema() store.Schema[fmodel.Bill] {
	return store.Schema[fmodel.Bill]{
		PK:    func(m *fmodel.Bill) uuid.UUID { return m.BillID },
		SetPK: func(m *fmodel.Bill, id uuid.UUID) { m.BillID = id },
		Columns: func(m *fmodel.Bill) map[string]any {
			return map[string]any{
				"bill_id":              m.BillID,
				"bill_student_id":      m.BillStudentID,
				"bill_category_id":     m.BillCategoryID,
				"bill_title":           m.BillTitle,
				"bill_amount_idr":      m.BillAmountIDR,
				"bill_paid_amount_idr": m.BillPaidAmountIDR,
				"bill_status":          string(m.BillStatus),
				"bill_due_date":        m.BillDueDate,
				"bill_note":            m.BillNote,
				"bill_created_at":      m.BillCreatedAt,
			}
		},
		Apply: func(m *fmodel.Bill, values map[string]any) {
			if v, ok := values["bill_paid_amount_idr"].(int64); ok {
				m.BillPaidAmountIDR = v
			}
			switch v := values["bill_status"].(type) {
			case fmodel.BillStatus:
				m.BillStatus = v
			case string:
				m.BillStatus = fmodel.BillStatus(v)
			}
			if v, ok := values["bill_updated_at"].(time.Time); ok {
				m.BillUpdatedAt = v
			}
		},
		Clone: func(m *fmodel.Bill) *fmodel.Bill { c := *m; return &c },
	}
}

func paymentSchema() store.Schema[fmodel.Payment] {
	return store.Schema[fmodel.Payment]{
		PK:    func(m *fmodel.Payment) uuid.UUID { return m.PaymentID },
		SetPK: func(m *fmodel.Payment, id uuid.UUID) { m.PaymentID = id },
		Columns: func(m *fmodel.Payment) map[string]any {
			return map[string]any{
				"payment_id":             m.PaymentID,
				"payment_bill_id":        m.PaymentBillID,
				"payment_student_id":     m.PaymentStudentID,
				"payment_amount_idr":     m.PaymentAmountIDR,
				"payment_method":         m.PaymentMethod,
				"payment_date":           m.PaymentDate,
				"payment_receipt_number": m.PaymentReceiptNumber,
				"payment_status":         string(m.PaymentStatus),
				"payment_note":           m.PaymentNote,
				"payment_created_at":     m.PaymentCreatedAt,
			}
		},
		Apply: func(m *fmodel.Payment, values map[string]any) {
			if v, ok := values["payment_method"].(string); ok {
				m.PaymentMethod = v
			}
			if v, ok := values["payment_note"].(string); ok {
				m.PaymentNote = v
			}
			if v, ok := values["payment_meta"].(datatypes.JSONMap); ok {
				m.PaymentMeta = v
			}
			if v, ok := values["payment_updated_at"].(time.Time); ok {
				m.PaymentUpdatedAt = v
			}
		},
		Clone:  func(m *fmodel.Payment) *fmodel.Payment { c := *m; return &c },
		Unique: []string{"payment_receipt_number"},
	}
}

// =========================================================
// Lingkungan test
// =========================================================

type testEnv struct {
	repos Repos

	students   *store.MemoryRepository[amodel.Student]
	programs   *store.MemoryRepository[amodel.Program]
	categories *store.MemoryRepository[fmodel.BillCategory]
	bills      *store.MemoryRepository[fmodel.Bill]
	payments   *store.MemoryRepository[fmodel.Payment]
}

func newTestEnv() *testEnv {
	env := &testEnv{
		students:   store.NewMemoryRepository(studentSchema()),
		programs:   store.NewMemoryRepository(programSchema()),
		categories: store.NewMemoryRepository(categorySchema()),
		bills:      store.NewMemoryRepository(billSchema()),
		payments:   store.NewMemoryRepository(paymentSchema()),
	}
	env.repos = Repos{
		Students:   env.students,
		Programs:   env.programs,
		Categories: env.categories,
		Bills:      env.bills,
		Payments:   env.payments,
	}
	return env
}

func (e *testEnv) addProgram(t *testing.T, code, name string) *amodel.Program {
	t.Helper()
	p := &amodel.Program{ProgramCode: code, ProgramName: name, ProgramStatus: amodel.ProgramStatusActive}
	require.NoError(t, e.programs.Insert(context.Background(), p))
	return p
}

func (e *testEnv) addStudent(t *testing.T, nim, name string, programID *uuid.UUID, programText string) *amodel.Student {
	t.Helper()
	s := &amodel.Student{
		StudentNIM:         nim,
		StudentName:        name,
		StudentProgramID:   programID,
		StudentProgramText: programText,
		StudentStatus:      amodel.StudentStatusActive,
		StudentCreatedAt:   time.Now(),
	}
	require.NoError(t, e.students.Insert(context.Background(), s))
	return s
}

func (e *testEnv) addBill(t *testing.T, studentID uuid.UUID, title string, amount, paid int64) *fmodel.Bill {
	t.Helper()
	b := &fmodel.Bill{
		BillStudentID:     studentID,
		BillTitle:         title,
		BillAmountIDR:     amount,
		BillPaidAmountIDR: paid,
		BillStatus:        fmodel.BillStatusFor(paid, amount),
		BillDueDate:       time.Now().AddDate(0, 1, 0),
		BillCreatedAt:     time.Now(),
	}
	require.NoError(t, e.bills.Insert(context.Background(), b))
	return b
}

func (e *testEnv) addPayment(t *testing.T, bill *fmodel.Bill, amount int64, method string, date time.Time, status fmodel.PaymentStatus) *fmodel.Payment {
	t.Helper()
	p := &fmodel.Payment{
		PaymentBillID:        bill.BillID,
		PaymentStudentID:     bill.BillStudentID,
		PaymentAmountIDR:     amount,
		PaymentMethod:        method,
		PaymentDate:          date,
		PaymentReceiptNumber: "KWT-TEST-" + uuid.NewString()[:8],
		PaymentStatus:        status,
		PaymentCreatedAt:     date,
	}
	require.NoError(t, e.payments.Insert(context.Background(), p))
	return p
}

// =========================================================
// Repository dengan injeksi kegagalan
// =========================================================

type failingRepo[T any] struct {
	store.Repository[T]

	findErr        error
	countErr       error
	getErr         error
	insertErr      error
	updateErr      error
	updateWhereErr error
}

func (f *failingRepo[T]) Find(ctx context.Context, pred store.Predicate, s store.Sort, page store.Pagination) ([]T, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Repository.Find(ctx, pred, s, page)
}

func (f *failingRepo[T]) Count(ctx context.Context, pred store.Predicate) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.Repository.Count(ctx, pred)
}

func (f *failingRepo[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.Get(ctx, id)
}

func (f *failingRepo[T]) Insert(ctx context.Context, row *T) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.Repository.Insert(ctx, row)
}

func (f *failingRepo[T]) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.Repository.Update(ctx, id, values)
}

func (f *failingRepo[T]) UpdateWhere(ctx context.Context, id uuid.UUID, pred store.Predicate, values map[string]any) (int64, error) {
	if f.updateWhereErr != nil {
		return 0, f.updateWhereErr
	}
	return f.Repository.UpdateWhere(ctx, id, pred, values)
}
