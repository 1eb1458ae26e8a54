package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/efeltrin/cash-machine/internal/service"
	"github.com/efeltrin/cash-machine/internal/service/money"
)

type CashHandler struct {
	svs LedgerServicer
}

func NewCashHandler(svs LedgerServicer) *CashHandler {
	return &CashHandler{
		svs: svs,
	}
}

// CashRequest uses pointer fields so an absent field is distinguishable
// from a zero value.
type CashRequest struct {
	Account *string  `json:"account" binding:"required"`
	Value   *float64 `json:"value" binding:"required"`
}

// Envelope mirrors the response contract: the payload (or an error object)
// under data, plus the status code repeated in the body.
type Envelope struct {
	Data       any `json:"data"`
	StatusCode int `json:"statusCode"`
}

type ReceiptResponse struct {
	AccountType     string `json:"accountType"`
	Account         string `json:"account"`
	OldBalance      string `json:"oldBalance"`
	Deposit         string `json:"deposit,omitempty"`
	Withdraw        string `json:"withdraw,omitempty"`
	DiscontedAmount string `json:"discontedAmount"`
	Balance         string `json:"balance"`
}

// Deposit POST DepositCurrentRoute / DepositSavingsRoute.
func (h *CashHandler) Deposit(class domain.AccountClass) gin.HandlerFunc {
	return h.operation(class, func(ctx context.Context, args service.OperationArgs) (*domain.Receipt, error) {
		return h.svs.Deposit(ctx, args)
	})
}

// Withdraw POST WithdrawCurrentRoute / WithdrawSavingsRoute.
func (h *CashHandler) Withdraw(class domain.AccountClass) gin.HandlerFunc {
	return h.operation(class, func(ctx context.Context, args service.OperationArgs) (*domain.Receipt, error) {
		return h.svs.Withdraw(ctx, args)
	})
}

func (h *CashHandler) operation(
	class domain.AccountClass,
	op func(context.Context, service.OperationArgs) (*domain.Receipt, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CashRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			_ = c.AbortWithError(http.StatusBadRequest, convertBindErr(bindErr)).SetType(gin.ErrorTypeBind)
			return
		}

		reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
		defer cancel()

		receipt, opErr := op(reqCtx, service.OperationArgs{
			AccountNumber: *req.Account,
			Class:         class,
			Amount:        decimal.NewFromFloat(*req.Value),
		})
		if opErr != nil {
			// every engine failure is a 400 with a readable message
			_ = c.AbortWithError(http.StatusBadRequest, opErr).SetType(gin.ErrorTypePrivate)
			return
		}

		c.JSON(http.StatusOK, Envelope{
			Data:       newReceiptResponse(receipt),
			StatusCode: http.StatusOK,
		})
	}
}

// convertBindErr maps binding failures onto the invalid-input taxonomy so
// the caller sees which field is missing or mis-typed.
func convertBindErr(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "account":
			return domain.NewInvalidInput("account must be a string")
		case "value":
			return domain.NewInvalidInput("value must be a number")
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		switch validationErrs[0].Field() {
		case "Account":
			return domain.NewInvalidInput("account is required")
		case "Value":
			return domain.NewInvalidInput("value is required")
		}
	}

	return domain.NewInvalidInput("invalid request body")
}

func newReceiptResponse(receipt *domain.Receipt) ReceiptResponse {
	response := ReceiptResponse{
		AccountType:     receipt.AccountClass.Label(),
		Account:         receipt.AccountNumber,
		OldBalance:      money.Format(receipt.OldBalance),
		DiscontedAmount: money.Format(receipt.Fee),
		Balance:         money.Format(receipt.NewBalance),
	}
	switch receipt.Operation {
	case domain.OperationDeposit:
		response.Deposit = money.Format(receipt.Amount)
	case domain.OperationWithdraw:
		response.Withdraw = money.Format(receipt.Amount)
	}
	return response
}
