package plan

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gardenplan/planner/internal/auth"
)

// Mount registers the plan API on api. Plan-scoped routes need a share
// token for that plan; writes need the edit role.
func (h *Handler) Mount(api *mux.Router, tokens *auth.Service) {
	api.HandleFunc("/plans", h.Create).Methods("POST")
	api.HandleFunc("/plans", h.List).Methods("GET")

	view := api.PathPrefix("/plans/{planId}").Subrouter()
	view.Use(tokens.RequirePlan(auth.RoleView))
	view.HandleFunc("", h.Get).Methods("GET")
	view.HandleFunc("/document", h.GetDocument).Methods("GET")

	edit := api.PathPrefix("/plans/{planId}").Subrouter()
	edit.Use(tokens.RequirePlan(auth.RoleEdit))
	edit.HandleFunc("", h.Delete).Methods("DELETE")
	edit.HandleFunc("/document", h.PutDocument).Methods("PUT")
	edit.Handle("/share", http.HandlerFunc(auth.NewHandler(tokens).Share)).Methods("POST")
}
