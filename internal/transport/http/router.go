package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Sales     SaleService
	Orders    OrderFinalizer
	Items     ItemService
	Users     UserService
	Auth      Authenticator
	Reports   ReportService
	Dashboard DashboardService
	Activity  ActivityLister
	Recorder  ActivityRecorder
	Tokens    interface {
		TokenIssuer
		TokenVerifier
	}
}

// NewRouter assembles the HTTP surface. Everything except health, login,
// register and refresh sits behind the access-token check.
func NewRouter(svcs Services, corsOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(CORS(corsOrigins))

	r.Get("/health", HealthHandler)
	r.Post("/register", HandleRegister(svcs.Auth, svcs.Recorder))
	r.Post("/login", HandleLogin(svcs.Auth, svcs.Tokens, svcs.Recorder))
	r.Post("/refresh", HandleRefresh(svcs.Auth, svcs.Tokens))

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(svcs.Tokens))

		r.Post("/logout", HandleLogout(svcs.Recorder))
		r.Get("/me", HandleMe(svcs.Auth))

		r.Route("/api/sales", func(r chi.Router) {
			r.Post("/", HandleCreateSale(svcs.Sales, svcs.Recorder))
			r.Get("/catalog", HandleListCatalog(svcs.Items))
			r.Get("/{id}", HandleGetSale(svcs.Sales))
		})

		r.Route("/orders/{id}", func(r chi.Router) {
			r.Post("/receipt", HandleAssignReceipt(svcs.Orders, svcs.Recorder))
			r.Post("/complete", HandleCompleteJobOrder(svcs.Orders, svcs.Recorder))
			r.Delete("/", HandleDeleteOrder(svcs.Orders, svcs.Recorder))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", HandleListItems(svcs.Items))
			r.Post("/", HandleCreateItem(svcs.Items, svcs.Recorder))
			r.Put("/{id}", HandleUpdateItem(svcs.Items, svcs.Recorder))
			r.Delete("/{id}", HandleDeleteItem(svcs.Items, svcs.Recorder))
			r.Post("/{id}/stock", HandleAddStock(svcs.Items, svcs.Recorder))
		})

		r.Get("/users", HandleListUsers(svcs.Users))
		r.Get("/users/{id}", HandleGetUser(svcs.Users))
		r.Put("/users/{id}", HandleUpdateUser(svcs.Users, svcs.Recorder))
		r.Delete("/users/{id}", HandleDeleteUser(svcs.Users, svcs.Recorder))
		r.Get("/roles", HandleListRoles(svcs.Users))

		r.Get("/transactions", HandleTransactions(svcs.Reports))
		r.Get("/job-orders/transactions", HandleJobOrderTransactions(svcs.Reports))
		r.Get("/monthly-report", HandleMonthlyReport(svcs.Reports))
		r.Get("/monthly-report/job-orders", HandleMonthlyJobOrderReport(svcs.Reports))
		r.Get("/reports/monthly", HandleMonthlyCombinedReport(svcs.Reports))

		r.Get("/dashboard", HandleDashboard(svcs.Dashboard))
		r.Get("/dashboard/top-items", HandleTopItems(svcs.Dashboard))
		r.Get("/dashboard/sales", HandleMonthlySales(svcs.Dashboard))

		r.Get("/activity-logs", HandleListActivityLogs(svcs.Activity))
		r.Get("/activity-logs/highlights", HandleActivityHighlights(svcs.Activity))
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	return r
}
