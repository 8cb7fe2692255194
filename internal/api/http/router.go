package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"asset-ledger-backend/internal/security"
	"asset-ledger-backend/internal/service"
)

// Services bundles everything the router exposes.
type Services struct {
	Purchases     service.PurchaseService
	Transfers     service.TransferService
	Assignments   service.AssignmentService
	Expenditures  service.ExpenditureService
	Assets        service.AssetService
	Catalog       service.CatalogService
	Notifications service.NotificationService
}

// NewRouter builds the REST surface. Everything under /api/v1 requires a
// valid bearer token; /healthz does not.
func NewRouter(svcs Services, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	purchases := NewPurchaseHandler(svcs.Purchases)
	api.HandleFunc("/purchases", purchases.Create).Methods("POST")
	api.HandleFunc("/purchases", purchases.List).Methods("GET")
	api.HandleFunc("/purchases/{id}", purchases.Get).Methods("GET")
	api.HandleFunc("/purchases/{id}/deliver", purchases.MarkDelivered).Methods("POST")
	api.HandleFunc("/purchases/{id}/cancel", purchases.Cancel).Methods("POST")

	transfers := NewTransferHandler(svcs.Transfers)
	api.HandleFunc("/transfers", transfers.Initiate).Methods("POST")
	api.HandleFunc("/transfers", transfers.List).Methods("GET")
	api.HandleFunc("/transfers/{id}", transfers.Get).Methods("GET")
	api.HandleFunc("/transfers/{id}/approve", transfers.Approve).Methods("POST")
	api.HandleFunc("/transfers/{id}/complete", transfers.Complete).Methods("POST")
	api.HandleFunc("/transfers/{id}/cancel", transfers.Cancel).Methods("POST")

	assignments := NewAssignmentHandler(svcs.Assignments)
	api.HandleFunc("/assignments", assignments.Create).Methods("POST")
	api.HandleFunc("/assignments", assignments.List).Methods("GET")
	api.HandleFunc("/assignments/{id}", assignments.Get).Methods("GET")
	api.HandleFunc("/assignments/{id}/return", assignments.Return).Methods("POST")
	api.HandleFunc("/assignments/{id}/report", assignments.MarkLostOrDamaged).Methods("POST")

	expenditures := NewExpenditureHandler(svcs.Expenditures)
	api.HandleFunc("/expenditures", expenditures.Create).Methods("POST")
	api.HandleFunc("/expenditures", expenditures.List).Methods("GET")
	api.HandleFunc("/expenditures/{id}", expenditures.Get).Methods("GET")
	api.HandleFunc("/expenditures/{id}/approve", expenditures.Approve).Methods("POST")
	api.HandleFunc("/expenditures/{id}/complete", expenditures.Complete).Methods("POST")
	api.HandleFunc("/expenditures/{id}/cancel", expenditures.Cancel).Methods("POST")

	assets := NewAssetHandler(svcs.Assets)
	api.HandleFunc("/assets", assets.List).Methods("GET")
	api.HandleFunc("/assets/{id}", assets.Get).Methods("GET")
	api.HandleFunc("/assets/{id}/available-quantity", assets.AvailableQuantity).Methods("GET")
	api.HandleFunc("/assets/{id}/maintenance", assets.SetMaintenance).Methods("POST")
	api.HandleFunc("/assets/{id}/return-to-service", assets.ReturnToService).Methods("POST")
	api.HandleFunc("/bases/{baseID}/summary", assets.BaseSummary).Methods("GET")

	catalog := NewCatalogHandler(svcs.Catalog)
	api.HandleFunc("/bases", catalog.CreateBase).Methods("POST")
	api.HandleFunc("/bases", catalog.ListBases).Methods("GET")
	api.HandleFunc("/bases/{id}", catalog.GetBase).Methods("GET")
	api.HandleFunc("/equipment-types", catalog.CreateEquipmentType).Methods("POST")
	api.HandleFunc("/equipment-types", catalog.ListEquipmentTypes).Methods("GET")
	api.HandleFunc("/equipment-types/{id}", catalog.GetEquipmentType).Methods("GET")

	notifications := NewNotificationHandler(svcs.Notifications)
	api.HandleFunc("/notifications", notifications.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notifications.MarkRead).Methods("POST")

	return router
}
