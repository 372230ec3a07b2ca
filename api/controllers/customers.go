package controllers

import (
	"net/http"

	"github.com/fsenterprise/billing-backend/api/responses"
	"github.com/fsenterprise/billing-backend/internal/customers"
	"github.com/fsenterprise/billing-backend/pkg/logger"
)

// CustomersRecent returns recently billed customer names for autocomplete.
func CustomersRecent(cache *customers.Cache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := cache.Recent(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if names == nil {
			names = []string{}
		}
		responses.WriteSuccess(w, names)
	}
}
