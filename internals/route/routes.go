// file: internals/route/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	academics "kampusku_backend/internals/features/academics/controller"
	amodel "kampusku_backend/internals/features/academics/model"
	finance "kampusku_backend/internals/features/finance/controller"
	fmodel "kampusku_backend/internals/features/finance/model"
	"kampusku_backend/internals/features/finance/service"
	"kampusku_backend/internals/store"
)

// SetupRoutes merakit store adapter → engine → controller, lalu daftarkan
// semua endpoint di bawah /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	repos := service.Repos{
		Students:   store.NewGormRepository[amodel.Student](db, "student_id"),
		Programs:   store.NewGormRepository[amodel.Program](db, "program_id"),
		Categories: store.NewGormRepository[fmodel.BillCategory](db, "category_id"),
		Bills:      store.NewGormRepository[fmodel.Bill](db, "bill_id"),
		Payments:   store.NewGormRepository[fmodel.Payment](db, "payment_id"),
	}

	searchSvc := service.NewSearchService(repos)
	reconcileSvc := service.NewReconcileService(repos)
	statsSvc := service.NewStatsService(repos)

	studentCtl := &academics.StudentController{Repos: repos, Search: searchSvc}
	programCtl := &academics.ProgramController{Repos: repos}
	categoryCtl := &finance.BillCategoryController{Repos: repos}
	billCtl := &finance.BillController{Repos: repos, Search: searchSvc}
	paymentCtl := &finance.PaymentController{Repos: repos, Reconcile: reconcileSvc, Search: searchSvc}
	statsCtl := &finance.StatsController{Stats: statsSvc}

	api := app.Group("/api")

	students := api.Group("/students")
	students.Post("/", studentCtl.Create)
	students.Get("/", studentCtl.List)
	students.Get("/:id", studentCtl.GetByID)
	students.Put("/:id", studentCtl.Update)
	students.Delete("/:id", studentCtl.Delete)

	programs := api.Group("/programs")
	programs.Post("/", programCtl.Create)
	programs.Get("/", programCtl.List)
	programs.Get("/:id", programCtl.GetByID)
	programs.Put("/:id", programCtl.Update)

	categories := api.Group("/bill-categories")
	categories.Post("/", categoryCtl.Create)
	categories.Get("/", categoryCtl.List)
	categories.Get("/:id", categoryCtl.GetByID)
	categories.Put("/:id", categoryCtl.Update)

	bills := api.Group("/bills")
	bills.Post("/", billCtl.Create)
	bills.Get("/", billCtl.List)
	bills.Get("/:id", billCtl.GetByID)
	bills.Put("/:id", billCtl.Update)
	bills.Post("/:id/payments", paymentCtl.Apply)

	payments := api.Group("/payments")
	payments.Get("/", paymentCtl.List)
	payments.Get("/:id", paymentCtl.GetByID)
	payments.Put("/:id", paymentCtl.Correct)
	payments.Delete("/:id", paymentCtl.Delete)

	stats := api.Group("/stats")
	stats.Get("/students", statsCtl.Students)
	stats.Get("/bills", statsCtl.Bills)
	stats.Get("/payments", statsCtl.Payments)
	stats.Get("/monthly-income", statsCtl.MonthlyIncome)
	stats.Get("/payment-methods", statsCtl.MethodDistribution)
	stats.Get("/top-programs", statsCtl.TopPrograms)
}
