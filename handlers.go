package main

import (
	"errors"
	"net/http"
	"strconv"

	"budgetbe/models"
	"budgetbe/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// expenseView is the shape listings return: dates pre-formatted and the owner
// collapsed to a display label.
type expenseView struct {
	ID       uint            `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Currency models.Currency `json:"currency"`
	Comment  string          `json:"comment,omitempty"`
	User     string          `json:"user"`
}

// formatExpenses resolves the display label for each record's owner: profile
// name, else email, with the literal "Me" overriding both for the caller's own
// records.
func formatExpenses(expenses []models.Expense, callerID uint) []expenseView {
	views := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		user := e.User.Email
		if e.User.Profile != nil && e.User.Profile.Name != "" {
			user = e.User.Profile.Name
		}
		if e.UserID == callerID {
			user = "Me"
		}
		views = append(views, expenseView{
			ID:       e.ID,
			Amount:   e.Amount,
			Date:     formatDisplayDate(e.Date),
			Category: e.Category,
			Currency: e.Currency,
			Comment:  e.Comment,
			User:     user,
		})
	}
	return views
}

// listExpensesHandler returns the caller's and their family members' expenses,
// newest first, together with the full currency reference list.
func (s *server) listExpensesHandler(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	owners := append([]uint{uid}, familyMemberIDs(c)...)
	expenses, err := s.expenses.ListByOwners(c.Request.Context(), owners)
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", uid).Msg("expense list query failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"msg": "Can not get expenses"}})
		return
	}
	currencies, err := s.currencies.All(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("currency query failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"msg": "Can not get currencies"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"expenses":   formatExpenses(expenses, uid),
		"currencies": currencies,
	})
}

// addExpenseHandler creates an expense owned by the caller. The owner always
// comes from the session, never from the body.
func (s *server) addExpenseHandler(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	var req struct {
		Amount   decimal.Decimal `json:"amount" binding:"required"`
		Date     string          `json:"date" binding:"required"`
		Category string          `json:"category" binding:"required"`
		Currency uint            `json:"currency" binding:"required"`
		Comment  string          `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	date, err := parseWireDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": []fieldError{{Param: "date", Msg: "Date must be a valid DD-MM-YYYY date"}}})
		return
	}
	expense := models.Expense{
		UserID:     uid,
		Amount:     req.Amount,
		Date:       date,
		Category:   req.Category,
		CurrencyID: req.Currency,
		Comment:    req.Comment,
	}
	if err := s.expenses.Create(c.Request.Context(), &expense); err != nil {
		s.log.Error().Err(err).Uint("user_id", uid).Msg("expense create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "Can not save expense"}})
		return
	}
	c.JSON(http.StatusOK, expense)
}

// editExpenseHandler replaces all editable fields of an expense. Mutation is
// allowed for the record's owner or anyone in the caller's family set.
func (s *server) editExpenseHandler(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	var req struct {
		ID       uint            `json:"id" binding:"required"`
		Amount   decimal.Decimal `json:"amount" binding:"required"`
		Date     string          `json:"date" binding:"required"`
		Category string          `json:"category" binding:"required"`
		Currency uint            `json:"currency" binding:"required"`
		Comment  string          `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	date, err := parseWireDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": []fieldError{{Param: "date", Msg: "Date must be a valid DD-MM-YYYY date"}}})
		return
	}
	expense, err := s.expenses.ByID(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"msg": "Expense not found"}})
			return
		}
		s.log.Error().Err(err).Uint("id", req.ID).Msg("expense lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "Can not update expense"}})
		return
	}
	if !s.canModify(c, expense) {
		c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"msg": "Not allowed"}})
		return
	}
	// Wholesale replace: comment is cleared when absent, and ownership is
	// re-derived from the session.
	expense.Amount = req.Amount
	expense.Date = date
	expense.Category = req.Category
	expense.CurrencyID = req.Currency
	expense.Comment = req.Comment
	expense.UserID = uid
	if err := s.expenses.Update(c.Request.Context(), expense); err != nil {
		s.log.Error().Err(err).Uint("id", req.ID).Msg("expense update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "Can not update expense"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "msg": "Expense updated"})
}

// deleteExpenseHandler removes an expense by id (query parameter). Deleting an
// id that no longer exists is treated as success.
func (s *server) deleteExpenseHandler(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	rawID := c.Query("id")
	if rawID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": []fieldError{blankError("id")}})
		return
	}
	id64, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": []fieldError{{Param: "id", Msg: "Id must be a number"}}})
		return
	}
	id := uint(id64)
	expense, err := s.expenses.ByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"id": id, "msg": "Expense deleted"})
			return
		}
		s.log.Error().Err(err).Uint("id", id).Msg("expense lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "Can not delete expense"}})
		return
	}
	if !s.canModify(c, expense) {
		c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"msg": "Not allowed"}})
		return
	}
	if err := s.expenses.Delete(c.Request.Context(), id); err != nil {
		s.log.Error().Err(err).Uint("id", id).Msg("expense delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "Can not delete expense"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "msg": "Expense deleted"})
}

// canModify implements the mutation policy: the record's owner, or anyone
// whose expenses the caller can already see (the family set), may edit or
// delete it. Everyone else gets 403.
func (s *server) canModify(c *gin.Context, e *models.Expense) bool {
	uid, ok := callerID(c)
	if !ok {
		return false
	}
	if e.UserID == uid {
		return true
	}
	for _, id := range familyMemberIDs(c) {
		if e.UserID == id {
			return true
		}
	}
	return false
}
