package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// transactionRequest is the JSON body of POST /api/transactions
type transactionRequest struct {
	Date     string              `json:"date"`
	CardName string              `json:"cardName"`
	Type     TransactionType     `json:"type"`
	Amount   decimal.NullDecimal `json:"amount"`
}

func (r transactionRequest) draft() (TransactionDraft, error) {
	if !r.Amount.Valid {
		return TransactionDraft{}, errMissingAmount
	}
	return TransactionDraft{Date: r.Date, CardName: r.CardName, Type: r.Type, Amount: r.Amount.Decimal}, nil
}

// errorStatus maps domain errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoSession), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidDraft), errors.Is(err, ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// requireSession rejects API calls without a signed-in user
func requireSession(c *gin.Context) {
	if !sessionFrom(c).Active() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrNoSession.Error()})
		return
	}
	c.Next()
}

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := s.storeContext(c)
	defer cancel()

	if err := s.health(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "sports-card-tracker",
	})
}

// getTransactions returns the signed-in user's transactions
func (s *Server) getTransactions(c *gin.Context) {
	ctx, cancel := s.storeContext(c)
	defer cancel()

	transactions, err := s.ledger.List(ctx, sessionFrom(c))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// addTransaction records a transaction and answers with the refreshed list
func (s *Server) addTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := req.draft()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := s.storeContext(c)
	defer cancel()

	transactions, err := s.ledger.Submit(ctx, sessionFrom(c), draft)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, transactions)
}

// getChart returns the cumulative profit/loss series
func (s *Server) getChart(c *gin.Context) {
	ctx, cancel := s.storeContext(c)
	defer cancel()

	transactions, err := s.ledger.List(ctx, sessionFrom(c))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, buildChart(transactions))
}
