package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/alice"

	"vendorpay/internal/app/handler"
	mw "vendorpay/internal/app/middleware"
)

func (a *App) Router() http.Handler {

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(mw.Log(a.logger))

	actor := alice.New(mw.Actor())

	wuh := handler.NewWorkUnitHandler(a.taskflow, a.sweeper)
	wh := handler.NewWalletHandler(a.ledger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/work-units", func(r chi.Router) {
			r.Get("/{id}", wuh.Get)
			r.Get("/{id}/history", wuh.History)
			r.Post("/", wuh.Create)
			r.Post("/{id}/confirm-payment", wuh.ConfirmPayment)

			r.Method(http.MethodPost, "/{id}/assign", actor.ThenFunc(wuh.Assign))
			r.Method(http.MethodPost, "/{id}/accept", actor.ThenFunc(wuh.Accept))
			r.Method(http.MethodPost, "/{id}/decline", actor.ThenFunc(wuh.Decline))
			r.Method(http.MethodPost, "/{id}/complete", actor.ThenFunc(wuh.Complete))
			r.Method(http.MethodPost, "/{id}/cancel", actor.ThenFunc(wuh.Cancel))
		})

		r.Route("/vendors/{id}/wallet", func(r chi.Router) {
			r.Get("/", wh.Balance)
			r.Get("/transactions", wh.Transactions)
			r.Get("/monthly", wh.Monthly)
			r.Post("/deposit", wh.Deposit)
			r.Post("/withdrawal", wh.Withdrawal)
			r.Post("/refund", wh.Refund)
			r.Post("/adjustment", wh.Adjustment)
			r.Post("/rebuild", wh.Rebuild)
		})

		r.Post("/admin/auto-reject/sweep", wuh.Sweep)
	})

	return r
}
