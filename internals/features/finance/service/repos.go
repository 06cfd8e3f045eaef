// file: internals/features/finance/service/repos.go
package service

import (
	amodel "kampusku_backend/internals/features/academics/model"
	fmodel "kampusku_backend/internals/features/finance/model"
	"kampusku_backend/internals/store"
)

// Repos bundles the five per-relation stores that every engine shares.
// Engine hanya bergantung pada kontrak store, bukan GORM langsung.
type Repos struct {
	Students   store.Repository[amodel.Student]
	Programs   store.Repository[amodel.Program]
	Categories store.Repository[fmodel.BillCategory]
	Bills      store.Repository[fmodel.Bill]
	Payments   store.Repository[fmodel.Payment]
}
