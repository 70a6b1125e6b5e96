package routes

import (
	"net/http"

	"cryptofunds/internal/handlers"
	"cryptofunds/internal/middleware"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Page      *handlers.PageHandler
	Section   *handlers.SectionHandler
	Directory *handlers.DirectoryHandler
}

func InitRoutes(router *mux.Router, h Handlers, jwtSecret string) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/pages", h.Page.ListPages).Methods("GET")
	api.HandleFunc("/pages/{slug}", h.Page.GetPublicPage).Methods("GET")
	api.HandleFunc("/sections/{id:[0-9]+}", h.Section.GetComposedSection).Methods("GET")

	api.HandleFunc("/projects", h.Directory.ListProjects).Methods("GET")
	api.HandleFunc("/projects/{slug}", h.Directory.GetProject).Methods("GET")
	api.HandleFunc("/investors", h.Directory.ListInvestors).Methods("GET")
	api.HandleFunc("/investors/{slug}", h.Directory.GetInvestor).Methods("GET")

	// --- Админка ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(jwtSecret))

	admin.HandleFunc("/pages", h.Page.CreatePage).Methods("POST")
	admin.HandleFunc("/pages/{id:[0-9]+}", h.Page.UpdatePage).Methods("PATCH")
	admin.HandleFunc("/pages/{id:[0-9]+}", h.Page.DeletePage).Methods("DELETE")

	admin.HandleFunc("/sections/preview", h.Section.PreviewSection).Methods("POST")
	admin.HandleFunc("/sections", h.Section.CreateSection).Methods("POST")
	admin.HandleFunc("/sections/{id:[0-9]+}", h.Section.GetSection).Methods("GET")
	admin.HandleFunc("/sections/{id:[0-9]+}", h.Section.UpdateSection).Methods("PUT")
	admin.HandleFunc("/sections/{id:[0-9]+}", h.Section.DeleteSection).Methods("DELETE")

	admin.HandleFunc("/projects", h.Directory.CreateProject).Methods("POST")
	admin.HandleFunc("/projects/{id:[0-9]+}", h.Directory.UpdateProject).Methods("PATCH")
	admin.HandleFunc("/projects/{id:[0-9]+}", h.Directory.DeleteProject).Methods("DELETE")

	admin.HandleFunc("/investors", h.Directory.CreateInvestor).Methods("POST")
	admin.HandleFunc("/investors/{id:[0-9]+}", h.Directory.UpdateInvestor).Methods("PATCH")
	admin.HandleFunc("/investors/{id:[0-9]+}", h.Directory.DeleteInvestor).Methods("DELETE")

	admin.HandleFunc("/rounds", h.Directory.CreateRound).Methods("POST")
	admin.HandleFunc("/rounds/{id:[0-9]+}", h.Directory.UpdateRound).Methods("PATCH")
	admin.HandleFunc("/rounds/{id:[0-9]+}", h.Directory.DeleteRound).Methods("DELETE")

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
}
