// file: internals/features/finance/service/errors.go
package service

import "errors"

// =========================================================
// TAKSONOMI ERROR CORE
// =========================================================
//
// Terminal (tidak di-retry): ErrNotFound, ErrAlreadySettled, ErrValidation.
// ErrLedgerInconsistent khusus: payment SUDAH tercatat tapi update bill gagal
// total — pemanggil harus bisa membedakannya dari "tidak terjadi apa-apa".

var (
	ErrNotFound       = errors.New("referenced entity not found")
	ErrAlreadySettled = errors.New("bill already fully paid")
	ErrValidation     = errors.New("invalid input")

	// ErrLedgerInconsistent: kondisi fatal, butuh perhatian operator.
	ErrLedgerInconsistent = errors.New("payment recorded but bill not reconciled")
)
