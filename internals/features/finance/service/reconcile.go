// file: internals/features/finance/service/reconcile.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	fmodel "kampusku_backend/internals/features/finance/model"
	"kampusku_backend/internals/store"
)

// =========================================================
// LEDGER RECONCILIATION ENGINE
// =========================================================
//
// Satu-satunya jalur tulis yang penting: mencatat Payment lalu memutakhirkan
// paid_amount/status Bill pemiliknya. Store tidak menyediakan transaksi lintas
// tabel, jadi dua tulisan itu diserialisasi per bill lewat keyed mutex dan
// update bill dijaga conditional (guard di paid_amount lama). Begitu insert
// payment sukses, urutan tulis tidak boleh dibatalkan di tengah.

const (
	receiptMaxAttempts    = 3
	billUpdateMaxAttempts = 3
)

type ReconcileService struct {
	repos Repos

	// mutex per bill_id; entry dibiarkan hidup (jumlah bill aktif kecil)
	billLocks sync.Map

	// injeksi untuk test
	now        func() time.Time
	randSuffix func() int
}

func NewReconcileService(repos Repos) *ReconcileService {
	return &ReconcileService{
		repos:      repos,
		now:        time.Now,
		randSuffix: func() int { return rand.IntN(10000) },
	}
}

type ApplyPaymentRequest struct {
	AmountIDR int64
	Method    string
	Date      time.Time
	Note      string
	Meta      map[string]any
}

// ApplyPaymentResult memuat requested vs applied supaya pemanggil tahu persis
// berapa yang TIDAK tercatat saat kena capping (kelebihan dibuang diam-diam,
// tidak jadi kredit terpisah).
type ApplyPaymentResult struct {
	Payment      *fmodel.Payment `json:"payment"`
	Bill         *fmodel.Bill    `json:"bill"`
	RequestedIDR int64           `json:"requested_idr"`
	AppliedIDR   int64           `json:"applied_idr"`
	DiscardedIDR int64           `json:"discarded_idr"`
}

func (s *ReconcileService) ApplyPayment(ctx context.Context, billID uuid.UUID, req ApplyPaymentRequest) (*ApplyPaymentResult, error) {
	if req.AmountIDR <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if strings.TrimSpace(req.Method) == "" {
		return nil, fmt.Errorf("%w: payment method required", ErrValidation)
	}
	date := req.Date
	if date.IsZero() {
		date = s.now()
	}

	unlock := s.lockBill(billID)
	defer unlock()

	// Selalu baca ulang state bill di dalam critical section; tidak ada
	// cache lintas pemanggilan.
	bill, err := s.repos.Bills.Get(ctx, billID)
	if errors.Is(err, store.ErrRowNotFound) {
		return nil, fmt.Errorf("%w: bill %s", ErrNotFound, billID)
	}
	if err != nil {
		return nil, err
	}

	remaining := bill.RemainingIDR()
	if remaining <= 0 {
		return nil, fmt.Errorf("%w: bill %s", ErrAlreadySettled, billID)
	}

	// Capping policy: kelebihan dipotong ke sisa tagihan.
	applied := req.AmountIDR
	if applied > remaining {
		applied = remaining
	}

	student, err := s.repos.Students.Get(ctx, bill.BillStudentID)
	if errors.Is(err, store.ErrRowNotFound) {
		return nil, fmt.Errorf("%w: student %s for bill %s", ErrNotFound, bill.BillStudentID, billID)
	}
	if err != nil {
		return nil, err
	}

	// Mulai dari sini urutan tulis harus tuntas walau caller cancel.
	wctx := context.WithoutCancel(ctx)

	payment := &fmodel.Payment{
		PaymentBillID:    bill.BillID,
		PaymentStudentID: bill.BillStudentID,
		PaymentAmountIDR: applied,
		PaymentMethod:    strings.TrimSpace(req.Method),
		PaymentDate:      date,
		PaymentStatus:    fmodel.PaymentStatusCompleted,
		PaymentNote:      req.Note,
		PaymentMeta:      datatypes.JSONMap(req.Meta),
	}
	if err := s.insertWithReceipt(wctx, payment, student.NIMSuffix(), date); err != nil {
		// Gagal sebelum bill disentuh: tidak ada mutasi apa pun.
		return nil, err
	}

	updated, err := s.settleBill(wctx, bill, applied)
	if err != nil {
		log.Printf("[LEDGER] FATAL payment=%s receipt=%s bill=%s: %v",
			payment.PaymentID, payment.PaymentReceiptNumber, bill.BillID, err)
		return nil, fmt.Errorf("%w: payment %s (receipt %s): %v",
			ErrLedgerInconsistent, payment.PaymentID, payment.PaymentReceiptNumber, err)
	}

	return &ApplyPaymentResult{
		Payment:      payment,
		Bill:         updated,
		RequestedIDR: req.AmountIDR,
		AppliedIDR:   applied,
		DiscardedIDR: req.AmountIDR - applied,
	}, nil
}

// insertWithReceipt generates KWT-{YYYYMMDD}-{nim4}{rand4} dan retry terbatas
// saat nomor tabrakan dengan unique index.
func (s *ReconcileService) insertWithReceipt(ctx context.Context, p *fmodel.Payment, nimSuffix string, date time.Time) error {
	var err error
	for attempt := 0; attempt < receiptMaxAttempts; attempt++ {
		p.PaymentReceiptNumber = fmt.Sprintf("KWT-%s-%s%04d",
			date.Format("20060102"), nimSuffix, s.randSuffix())
		err = s.repos.Payments.Insert(ctx, p)
		if !errors.Is(err, store.ErrDuplicate) {
			return err
		}
	}
	return fmt.Errorf("receipt number collision persists: %w", err)
}

// settleBill applies the delta dengan conditional update (guard paid_amount
// lama). Guard gagal berarti ada tulisan lain menyelinap (mis. edit admin);
// baca ulang dan hitung ulang, dibatasi billUpdateMaxAttempts.
func (s *ReconcileService) settleBill(ctx context.Context, bill *fmodel.Bill, applied int64) (*fmodel.Bill, error) {
	var lastErr error
	for attempt := 0; attempt < billUpdateMaxAttempts; attempt++ {
		if attempt > 0 {
			fresh, err := s.repos.Bills.Get(ctx, bill.BillID)
			if err != nil {
				lastErr = err
				continue
			}
			bill = fresh
		}
		newPaid := bill.BillPaidAmountIDR + applied
		if newPaid > bill.BillAmountIDR {
			// drift dari luar jalur pembayaran; jaga invariant paid <= amount
			newPaid = bill.BillAmountIDR
		}
		rows, err := s.repos.Bills.UpdateWhere(ctx, bill.BillID,
			store.Eq{Column: "bill_paid_amount_idr", Value: bill.BillPaidAmountIDR},
			map[string]any{
				"bill_paid_amount_idr": newPaid,
				"bill_status":          fmodel.BillStatusFor(newPaid, bill.BillAmountIDR),
				"bill_updated_at":      s.now(),
			})
		if err != nil {
			lastErr = err
			continue
		}
		if rows == 0 {
			lastErr = fmt.Errorf("paid_amount changed underneath (attempt %d)", attempt+1)
			continue
		}
		return s.repos.Bills.Get(ctx, bill.BillID)
	}
	return nil, lastErr
}

// =========================================================
// DELETE PAYMENT — inverse reconciliation
// =========================================================

// DeletePayment removes a payment and recomputes the bill from the surviving
// completed payments. Recompute penuh, bukan pengurangan, supaya drift lama
// ikut sembuh.
func (s *ReconcileService) DeletePayment(ctx context.Context, paymentID uuid.UUID) (*fmodel.Bill, error) {
	payment, err := s.repos.Payments.Get(ctx, paymentID)
	if errors.Is(err, store.ErrRowNotFound) {
		return nil, fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
	}
	if err != nil {
		return nil, err
	}

	unlock := s.lockBill(payment.PaymentBillID)
	defer unlock()

	bill, err := s.repos.Bills.Get(ctx, payment.PaymentBillID)
	if errors.Is(err, store.ErrRowNotFound) {
		return nil, fmt.Errorf("%w: bill %s", ErrNotFound, payment.PaymentBillID)
	}
	if err != nil {
		return nil, err
	}

	wctx := context.WithoutCancel(ctx)
	if err := s.repos.Payments.Delete(wctx, paymentID); err != nil {
		return nil, err
	}

	survivors, err := s.repos.Payments.Find(wctx, store.And{
		store.Eq{Column: "payment_bill_id", Value: bill.BillID},
		store.Eq{Column: "payment_status", Value: string(fmodel.PaymentStatusCompleted)},
	}, store.Sort{}, store.Pagination{})
	if err != nil {
		return nil, fmt.Errorf("%w: payment deleted, recompute failed: %v", ErrLedgerInconsistent, err)
	}

	var paid int64
	for _, p := range survivors {
		paid += p.PaymentAmountIDR
	}
	if paid > bill.BillAmountIDR {
		paid = bill.BillAmountIDR
	}

	updated, err := s.repos.Bills.Update(wctx, bill.BillID, map[string]any{
		"bill_paid_amount_idr": paid,
		"bill_status":          fmodel.BillStatusFor(paid, bill.BillAmountIDR),
		"bill_updated_at":      s.now(),
	})
	if err != nil {
		log.Printf("[LEDGER] FATAL delete payment=%s bill=%s: %v", paymentID, bill.BillID, err)
		return nil, fmt.Errorf("%w: payment deleted, bill not updated: %v", ErrLedgerInconsistent, err)
	}
	return updated, nil
}

// =========================================================
// KOREKSI ADMINISTRATIF
// =========================================================

type CorrectPaymentRequest struct {
	Method *string
	Note   *string
	Meta   map[string]any
}

// CorrectPayment hanya menyentuh method/note/meta. Amount tidak pernah ikut
// dan TIDAK memicu reconciliation ulang (asimetri yang disengaja).
func (s *ReconcileService) CorrectPayment(ctx context.Context, paymentID uuid.UUID, req CorrectPaymentRequest) (*fmodel.Payment, error) {
	values := map[string]any{}
	if req.Method != nil {
		m := strings.TrimSpace(*req.Method)
		if m == "" {
			return nil, fmt.Errorf("%w: payment method cannot be empty", ErrValidation)
		}
		values["payment_method"] = m
	}
	if req.Note != nil {
		values["payment_note"] = *req.Note
	}
	if req.Meta != nil {
		values["payment_meta"] = datatypes.JSONMap(req.Meta)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: nothing to correct", ErrValidation)
	}
	values["payment_updated_at"] = s.now()

	updated, err := s.repos.Payments.Update(ctx, paymentID, values)
	if errors.Is(err, store.ErrRowNotFound) {
		return nil, fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ReconcileService) lockBill(id uuid.UUID) func() {
	v, _ := s.billLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
