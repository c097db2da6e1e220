package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"valvequote/collections"
	"valvequote/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateNestedCageFacts(app); err != nil {
			log.Printf("Warning: cage fact migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Quote CRUD ───────────────────────────────────────────
		se.Router.GET("/api/quotes", handlers.HandleQuoteList(app))
		se.Router.POST("/api/quotes", handlers.HandleQuoteCreate(app))
		se.Router.GET("/api/quotes/{id}", handlers.HandleQuoteView(app))
		se.Router.PATCH("/api/quotes/{id}", handlers.HandleQuoteUpdate(app))
		se.Router.PATCH("/api/quotes/{id}/status", handlers.HandleQuoteStatus(app))
		se.Router.DELETE("/api/quotes/{id}", handlers.HandleQuoteDelete(app))

		// ── Quote exports ────────────────────────────────────────
		se.Router.GET("/api/quotes/{id}/export/excel", handlers.HandleQuoteExcelExport(app))
		se.Router.GET("/api/quotes/{id}/export/pdf", handlers.HandleQuotePDFExport(app))

		// ── Quote products ───────────────────────────────────────
		se.Router.POST("/api/quotes/{id}/products", handlers.HandleProductAdd(app))
		se.Router.GET("/api/products/{id}/options", handlers.HandleProductOptions(app))
		se.Router.PATCH("/api/products/{id}/selection", handlers.HandleProductSelection(app))
		se.Router.PATCH("/api/products/{id}/items", handlers.HandleProductItems(app))
		se.Router.PATCH("/api/products/{id}/profit", handlers.HandleProductProfit(app))
		se.Router.PATCH("/api/products/{id}/quantity", handlers.HandleProductQuantity(app))
		se.Router.POST("/api/products/{id}/calculate", handlers.HandleProductCalculate(app))
		se.Router.DELETE("/api/products/{id}", handlers.HandleProductDelete(app))

		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/api/customers", handlers.HandleCustomerList(app))
		se.Router.POST("/api/customers", handlers.HandleCustomerCreate(app))
		se.Router.PATCH("/api/customers/{id}", handlers.HandleCustomerUpdate(app))
		se.Router.DELETE("/api/customers/{id}", handlers.HandleCustomerDelete(app))

		// ── Dropdown sources ─────────────────────────────────────
		se.Router.GET("/api/options/dropdowns", handlers.HandleDropdowns(app))
		se.Router.GET("/api/options/series", handlers.HandleSeriesList(app))
		se.Router.GET("/api/options/materials/{group}", handlers.HandleMaterialOptions(app))
		se.Router.GET("/api/options/actuators", handlers.HandleActuatorOptions(app))
		se.Router.GET("/api/options/accessories", handlers.HandleItemCatalog(app, "accessories"))
		se.Router.GET("/api/options/testing-items", handlers.HandleItemCatalog(app, "testing_items"))
		se.Router.GET("/api/options/tubing-items", handlers.HandleItemCatalog(app, "tubing_items"))

		// ── Pricing data administration ──────────────────────────
		se.Router.GET("/api/pricing/datasets", handlers.HandlePricingDatasets(app))
		se.Router.GET("/api/pricing/{dataset}/template", handlers.HandlePricingTemplate(app))
		se.Router.POST("/api/pricing/{dataset}/import", handlers.HandlePricingValidate(app))
		se.Router.POST("/api/pricing/{dataset}/import/commit", handlers.HandlePricingCommit(app))
		se.Router.POST("/api/pricing/errors/report", handlers.HandlePricingErrorReport(app))
		se.Router.GET("/api/pricing/export", handlers.HandlePricingWorkbook(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
