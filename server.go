package main

import (
	"budgetbe/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type server struct {
	expenses   store.ExpenseStore
	currencies store.CurrencyStore
	users      store.UserStore
	tokens     store.TokenStore
	receipts   store.ReceiptStore
	jwtSecret  []byte
	uploadBase string
	log        zerolog.Logger
}

func newServer(stores *store.Stores, jwtSecret []byte, uploadBase string, log zerolog.Logger) *server {
	return &server{
		expenses:   stores.Expenses,
		currencies: stores.Currencies,
		users:      stores.Users,
		tokens:     stores.Tokens,
		receipts:   stores.Receipts,
		jwtSecret:  jwtSecret,
		uploadBase: uploadBase,
		log:        log,
	}
}

func (s *server) setupRoutes(r *gin.Engine) {
	r.POST("/register", s.registerHandler)
	r.POST("/login", s.loginHandler)
	r.POST("/refresh", s.refreshHandler)
	r.POST("/revoke_refresh", s.revokeRefreshHandler)

	api := r.Group("/api")
	api.Use(s.jwtAuthMiddleware())
	api.GET("/expenses", s.listExpensesHandler)
	api.POST("/expenses/add", s.addExpenseHandler)
	api.POST("/expenses/edit", s.editExpenseHandler)
	api.GET("/expenses/delete", s.deleteExpenseHandler)
	api.POST("/expenses/:id/receipt", s.uploadReceiptHandler)
	api.GET("/expenses/:id/receipt", s.getReceiptHandler)
	api.POST("/profile", s.saveProfileHandler)
	api.GET("/profile", s.getProfileHandler)
	api.POST("/family", s.createFamilyHandler)
	api.POST("/family/join", s.joinFamilyHandler)
}
