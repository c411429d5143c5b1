package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

const dateLayout = "2006-01-02"

// TransactionHandler handles transaction CRUD and the summary endpoint.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the payload for creating a
// transaction. There is no user field: ownership always comes from the
// authenticated caller, and any client-supplied user value is ignored
// by the decoder.
type CreateTransactionRequest struct {
	Type        models.TransactionType     `json:"type" binding:"required,transaction_type"`
	Category    models.TransactionCategory `json:"category" binding:"required,transaction_category"`
	Amount      decimal.Decimal            `json:"amount"`
	Description string                     `json:"description" binding:"max=255"`
	Date        string                     `json:"date" binding:"required,datetime=2006-01-02"`
}

// UpdateTransactionRequest represents a partial transaction update.
// Omitted fields are left untouched; PUT requests go through the same
// shape with every field supplied.
type UpdateTransactionRequest struct {
	Type        *models.TransactionType     `json:"type" binding:"omitempty,transaction_type"`
	Category    *models.TransactionCategory `json:"category" binding:"omitempty,transaction_category"`
	Amount      *decimal.Decimal            `json:"amount"`
	Description *string                     `json:"description" binding:"omitempty,max=255"`
	Date        *string                     `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// TransactionResponse represents a transaction in responses.
type TransactionResponse struct {
	ID          string                     `json:"id"`
	Type        models.TransactionType     `json:"type"`
	Category    models.TransactionCategory `json:"category"`
	Amount      decimal.Decimal            `json:"amount"`
	Description string                     `json:"description"`
	Date        string                     `json:"date"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

func transactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date.Format(dateLayout),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func transactionResponses(items []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(items))
	for i := range items {
		out = append(out, transactionResponse(&items[i]))
	}
	return out
}

// CreateTransaction creates a transaction owned by the caller
// @Summary     Create a transaction
// @Description Create an income or expense entry for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/ [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithFields(apperrors.ErrValidation,
			map[string]string{"date": "must be a date in YYYY-MM-DD format"}))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID, req.Type, req.Category, req.Amount, req.Description, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "category": req.Category, "amount": req.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"transaction": transactionResponse(transaction)})
}

// GetUserTransactions lists the caller's transactions
// @Summary     List transactions
// @Description List the authenticated user's transactions, most recent first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[TransactionResponse] "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/ [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(
		transactionResponses(result.Data), result.Page, result.PageSize, result.TotalItems))
}

// GetTransactionByID returns one owned transaction
// @Summary     Get a transaction
// @Description Get a single transaction owned by the authenticated user
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id}/ [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transactionResponse(transaction)})
}

func (h *TransactionHandler) applyUpdate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.TransactionUpdate{
		Type:        req.Type,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		date, parseErr := time.Parse(dateLayout, *req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithFields(apperrors.ErrValidation,
				map[string]string{"date": "must be a date in YYYY-MM-DD format"}))
			return
		}
		update.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transactionResponse(transaction)})
}

// UpdateTransaction replaces an owned transaction
// @Summary     Update a transaction
// @Description Update a transaction owned by the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Updated transaction details"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id}/ [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	h.applyUpdate(c)
}

// PatchTransaction partially updates an owned transaction
// @Summary     Patch a transaction
// @Description Partially update a transaction owned by the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id}/ [patch]
func (h *TransactionHandler) PatchTransaction(c *gin.Context) {
	h.applyUpdate(c)
}

// DeleteTransaction removes an owned transaction
// @Summary     Delete a transaction
// @Description Delete a transaction owned by the authenticated user
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id}/ [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetSummary aggregates the caller's transactions
// @Summary     Transaction summary
// @Description Total income, total expenses, balance, and count over the caller's transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.TransactionSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary/ [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
