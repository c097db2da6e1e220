package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type customerPayload struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	GSTIN       string `json:"gstin"`
}

func (p *customerPayload) trim() {
	p.Name = strings.TrimSpace(p.Name)
	p.City = strings.TrimSpace(p.City)
	p.ContactName = strings.TrimSpace(p.ContactName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.GSTIN = strings.TrimSpace(p.GSTIN)
}

func (p *customerPayload) applyTo(rec *core.Record) {
	rec.Set("name", p.Name)
	rec.Set("city", p.City)
	rec.Set("contact_name", p.ContactName)
	rec.Set("phone", p.Phone)
	rec.Set("email", p.Email)
	rec.Set("gstin", p.GSTIN)
}

func customerToResponse(rec *core.Record) map[string]any {
	return map[string]any{
		"id":           rec.Id,
		"name":         rec.GetString("name"),
		"city":         rec.GetString("city"),
		"contact_name": rec.GetString("contact_name"),
		"phone":        rec.GetString("phone"),
		"email":        rec.GetString("email"),
		"gstin":        rec.GetString("gstin"),
	}
}

// HandleCustomerList returns all customers sorted by name.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		customers, err := app.FindRecordsByFilter("customers", "id != ''", "name", 0, 0, nil)
		if err != nil {
			log.Printf("customers: HandleCustomerList: query failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load customers")
		}

		resp := make([]map[string]any, 0, len(customers))
		for _, c := range customers {
			resp = append(resp, customerToResponse(c))
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleCustomerCreate creates a customer. Name is required.
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body customerPayload
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		body.trim()
		if body.Name == "" {
			return e.String(http.StatusBadRequest, "Customer name is required")
		}

		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			return e.String(http.StatusInternalServerError, "Customers collection missing")
		}

		rec := core.NewRecord(col)
		body.applyTo(rec)
		if err := app.Save(rec); err != nil {
			log.Printf("customers: HandleCustomerCreate: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to create customer")
		}
		return e.JSON(http.StatusCreated, customerToResponse(rec))
	}
}

// HandleCustomerUpdate replaces the customer fields.
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Customer not found")
		}

		var body customerPayload
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		body.trim()
		if body.Name == "" {
			return e.String(http.StatusBadRequest, "Customer name is required")
		}

		body.applyTo(rec)
		if err := app.Save(rec); err != nil {
			log.Printf("customers: HandleCustomerUpdate: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to update customer")
		}
		return e.JSON(http.StatusOK, customerToResponse(rec))
	}
}

// HandleCustomerDelete removes a customer unless a quote still references it.
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Customer not found")
		}

		quotes, err := app.FindRecordsByFilter(
			"quotes", "customer = {:customerId}", "", 1, 0,
			map[string]any{"customerId": rec.Id},
		)
		if err != nil {
			log.Printf("customers: HandleCustomerDelete: quote check failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to check customer quotes")
		}
		if len(quotes) > 0 {
			return e.String(http.StatusConflict, "Customer has quotes and cannot be deleted")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("customers: HandleCustomerDelete: delete failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to delete customer")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": rec.Id})
	}
}
