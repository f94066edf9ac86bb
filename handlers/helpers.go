package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"restaurant/logger"
	"restaurant/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Accepted booking date layouts: RFC 3339 and the value of an HTML
// datetime-local input, read in the server's local time.
var bookingDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

const priceMessage = "Price must be a whole number of currency units between 0 and 1000000000"

type fieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

func parseBookingDate(value string) (time.Time, bool) {
	for _, layout := range bookingDateLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 {
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// validationFailed answers 400 with one entry per offending field.
func validationFailed(c *gin.Context, err error) {
	var fields []fieldError
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields = append(fields, fieldError{Field: fe.Field(), Msg: validationMessage(fe)})
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		msg := "Invalid value type"
		if typeErr.Field == "price" {
			msg = priceMessage
		}
		fields = append(fields, fieldError{Field: typeErr.Field, Msg: msg})
	default:
		fields = append(fields, fieldError{Field: "body", Msg: "Malformed request body"})
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
}

func invalidField(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Field: field, Msg: msg}}})
}

func validationMessage(fe validator.FieldError) string {
	if fe.Field() == "Price" {
		return priceMessage
	}
	switch fe.Tag() {
	case "required":
		return "Required field"
	case "email":
		return "Invalid email address"
	case "phone":
		return "Invalid phone number"
	case "min", "gte":
		return "Value is too small or too short"
	case "max", "lte":
		return "Value is too large or too long"
	case "oneof":
		return "Unsupported value"
	default:
		return "Invalid value"
	}
}

// failure logs err and answers with the status matching its sentinel.
// Messages are generic; err itself never reaches the client.
func failure(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, repository.ErrEmptyOrder),
		errors.Is(err, repository.ErrInvalidQuantity):
		status, message = http.StatusBadRequest, "Order must contain at least one item"
	case errors.Is(err, repository.ErrMenuItemUnavailable):
		status, message = http.StatusBadRequest, "Some menu items are no longer available"
	case errors.Is(err, repository.ErrAmountTooLarge):
		status, message = http.StatusBadRequest, "Order total is too large"
	case errors.Is(err, repository.ErrInvalidStatus):
		status, message = http.StatusBadRequest, "Invalid status"
	case errors.Is(err, repository.ErrInvalidTable):
		status, message = http.StatusBadRequest, "Unknown table"
	case errors.Is(err, repository.ErrNoTableAvailable),
		errors.Is(err, repository.ErrTableTaken):
		status, message = http.StatusConflict, "No table is free at that time"
	}

	log := logger.FromGin(c)
	if status >= http.StatusInternalServerError {
		log.Error(message, zap.Error(err))
	} else {
		log.Info(message, zap.Error(err))
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
