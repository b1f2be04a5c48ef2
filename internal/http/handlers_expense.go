package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

func (s *Server) handleListExpenses(c *gin.Context) {
	ctx := c.Request.Context()
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to list expenses", applog.FieldError, err)
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(c *gin.Context) {
	ctx := c.Request.Context()
	logger := applog.FromContext(ctx)

	in, err := parseExpenseInput(c.Request)
	if err != nil {
		logger.WarnContext(ctx, "Rejected expense request", applog.FieldError, err)
		writeMessage(c, http.StatusBadRequest, requestErrorMessage(err))
		return
	}

	created, err := s.expenses.Create(ctx, in.Title, in.Amount)
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			logger.InfoContext(ctx, "Expense validation failed",
				applog.FieldExpenseTitle, in.Title,
				applog.FieldError, err)
			writeMessage(c, http.StatusBadRequest, verr.Message)
			return
		}
		logger.ErrorContext(ctx, "Failed to create expense", applog.FieldError, err)
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}
