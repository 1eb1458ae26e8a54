package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/efeltrin/cash-machine/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	DepositCurrentRoute  = "/conta-corrente/depositar"
	WithdrawCurrentRoute = "/conta-corrente/sacar"
	DepositSavingsRoute  = "/conta-poupanca/depositar"
	WithdrawSavingsRoute = "/conta-poupanca/sacar"
)

type RouterArgs struct {
	Logger        *logrus.Logger
	LedgerService LedgerServicer
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	cashHandler := NewCashHandler(args.LedgerService)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World!")
	})

	// each route binds a concrete account class; unknown classes have no route
	r.POST(DepositCurrentRoute, cashHandler.Deposit(domain.ClassCurrent))
	r.POST(DepositSavingsRoute, cashHandler.Deposit(domain.ClassSavings))
	r.POST(WithdrawCurrentRoute, cashHandler.Withdraw(domain.ClassCurrent))
	r.POST(WithdrawSavingsRoute, cashHandler.Withdraw(domain.ClassSavings))

	return r
}
