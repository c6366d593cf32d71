package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/controllers"
	"github.com/pattarapol-dev/srisawat-pos-backend/api/middleware"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/auth"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/billing"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/catalog"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/checkout"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/customers"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/dashboard"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/documents"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/orders"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/settings"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/shifts"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/storecredit"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/suppliers"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/transactions"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/users"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/assistant"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/auth/session"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/metrics"
)

// Deps carries everything the router wires into handlers. All services
// are required; AssistantClient may be nil when the feature is disabled.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	SessionChecker  session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer
	HealthStores    map[string]controllers.Pinger

	Auth         auth.Service
	Users        users.Service
	Catalog      catalog.Service
	Checkout     checkout.Service
	Transactions transactions.Service
	Billing      billing.Service
	Customers    customers.Service
	Suppliers    suppliers.Service
	StoreCredit  storecredit.Service
	Orders       orders.Service
	Shifts       shifts.Service
	Settings     settings.Service
	Dashboard    dashboard.Service
	Documents    documents.Service

	AssistantClient *assistant.Client
}

func NewRouter(d Deps) http.Handler {
	logg := d.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(d.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Liveness())
		r.Get("/ready", controllers.Readiness(logg, d.HealthStores))
	})
	if d.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(d.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Config.JWT, d.SessionChecker, logg))
			r.Post("/refresh", controllers.Refresh(d.Auth, logg))
			r.Post("/logout", controllers.Logout(d.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Config.JWT, d.SessionChecker, logg))

		manager := middleware.RequireRole(enums.UserRoleManager, logg)
		ceo := middleware.RequireRole(enums.UserRoleCEO, logg)

		r.Get("/me", controllers.Me(logg))
		r.Post("/me/password", controllers.ChangePassword(d.Users, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(manager)
			r.Get("/", controllers.ListUsers(d.Users, logg))
			r.Post("/", controllers.CreateUser(d.Users, logg))
			r.Patch("/{userID}", controllers.UpdateUser(d.Users, logg))
			r.Delete("/{userID}", controllers.DeleteUser(d.Users, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", controllers.ListCategories(d.Catalog, logg))
			r.With(manager).Post("/categories", controllers.CreateCategory(d.Catalog, logg))
			r.With(manager).Delete("/categories/{categoryID}", controllers.DeleteCategory(d.Catalog, logg))

			r.Get("/products", controllers.ListProducts(d.Catalog, logg))
			r.Get("/products/{productID}", controllers.GetProduct(d.Catalog, logg))
			r.With(manager).Post("/products", controllers.CreateProduct(d.Catalog, logg))
			r.With(manager).Patch("/products/{productID}", controllers.UpdateProduct(d.Catalog, logg))
			r.With(manager).Delete("/products/{productID}", controllers.DeleteProduct(d.Catalog, logg))
			r.With(manager).Post("/products/{productID}/variants", controllers.CreateVariant(d.Catalog, logg))

			r.Get("/variants/lookup", controllers.LookupVariant(d.Catalog, logg))
			r.Get("/variants/{variantID}/history", controllers.VariantHistory(d.Catalog, logg))
			r.With(manager).Patch("/variants/{variantID}", controllers.UpdateVariant(d.Catalog, logg))
			r.With(manager).Delete("/variants/{variantID}", controllers.DeleteVariant(d.Catalog, logg))
			r.With(manager).Post("/variants/{variantID}/stock", controllers.AdjustStock(d.Catalog, logg))

			r.Get("/stock/low", controllers.ListLowStock(d.Catalog, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/quote", controllers.QuoteCart(d.Checkout, logg))
			r.Post("/commit", controllers.CommitCart(d.Checkout, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.ListTransactions(d.Transactions, logg))
			r.Get("/{transactionID}", controllers.GetTransaction(d.Transactions, logg))
			r.Post("/{transactionID}/payments", controllers.RecordTransactionPayment(d.Transactions, logg))
			r.Post("/{transactionID}/returns", controllers.ReturnTransaction(d.Transactions, logg))
			r.Get("/{transactionID}/documents/{kind}", controllers.RenderDocument(d.Documents, logg))
			r.With(ceo).Post("/consolidate", controllers.ConsolidateTransactions(d.Transactions, logg))
			r.With(ceo).Post("/{transactionID}/unconsolidate", controllers.UnconsolidateTransaction(d.Transactions, logg))
			r.With(manager).Delete("/{transactionID}", controllers.DeleteTransaction(d.Transactions, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(d.Customers, logg))
			r.Post("/", controllers.CreateCustomer(d.Customers, logg))
			r.Get("/{customerID}", controllers.GetCustomer(d.Customers, logg))
			r.Patch("/{customerID}", controllers.UpdateCustomer(d.Customers, logg))
			r.Get("/{customerID}/balance", controllers.CustomerBalance(d.Customers, logg))
			r.Get("/{customerID}/credits", controllers.ListCustomerCredits(d.StoreCredit, logg))
			r.With(manager).Delete("/{customerID}", controllers.DeleteCustomer(d.Customers, logg))
		})

		r.Route("/credits", func(r chi.Router) {
			r.Get("/{creditID}", controllers.GetCredit(d.StoreCredit, logg))
			r.With(manager).Post("/", controllers.GrantCredit(d.StoreCredit, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Use(manager)
			r.Get("/", controllers.ListSuppliers(d.Suppliers, logg))
			r.Post("/", controllers.CreateSupplier(d.Suppliers, logg))
			r.Get("/{supplierID}", controllers.GetSupplier(d.Suppliers, logg))
			r.Patch("/{supplierID}", controllers.UpdateSupplier(d.Suppliers, logg))
			r.Delete("/{supplierID}", controllers.DeleteSupplier(d.Suppliers, logg))
		})

		r.Route("/bills", func(r chi.Router) {
			r.Use(manager)
			r.Get("/", controllers.ListBills(d.Billing, logg))
			r.Post("/", controllers.CreateBill(d.Billing, logg))
			r.Get("/{billID}", controllers.GetBill(d.Billing, logg))
			r.Post("/{billID}/payments", controllers.RecordBillPayment(d.Billing, logg))
			r.Delete("/{billID}", controllers.DeleteBill(d.Billing, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(manager)
			r.Get("/", controllers.ListOrders(d.Orders, logg))
			r.Post("/", controllers.CreateOrder(d.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(d.Orders, logg))
			r.Post("/{orderID}/order", controllers.MarkOrderOrdered(d.Orders, logg))
			r.Post("/{orderID}/receive", controllers.ReceiveOrder(d.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.CancelOrder(d.Orders, logg))
			r.Delete("/{orderID}", controllers.DeleteOrder(d.Orders, logg))
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", controllers.OpenShift(d.Shifts, logg))
			r.Get("/current", controllers.CurrentShift(d.Shifts, logg))
			r.Get("/", controllers.ShiftHistory(d.Shifts, logg))
			r.Post("/{shiftID}/close", controllers.CloseShift(d.Shifts, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(d.Settings, logg))
			r.With(manager).Patch("/", controllers.UpdateSettings(d.Settings, logg))
			r.With(manager).Post("/logo", controllers.UploadLogo(d.Settings, logg))
		})

		r.With(ceo).Get("/dashboard", controllers.DashboardSummary(d.Dashboard, logg))

		r.Post("/assistant", controllers.AskAssistant(d.AssistantClient, logg))
	})

	return r
}
