package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"ongkir-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func init() {
	// Report binding failures under the JSON field names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// errorResponse maps an operation error to its HTTP status and message.
// fallback is used when the error carries nothing fit for a client.
func errorResponse(err error, fallback string) (int, string) {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		upstreamErr   *models.UpstreamError
		networkErr    *models.NetworkError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, notFoundErr.Entity + " not found"
	case errors.As(err, &upstreamErr):
		// A 2xx with an unusable body carries no status; a 3xx only reaches
		// here when the redirect could not be followed. Neither is a client
		// error, so both become 502.
		status := upstreamErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		message := upstreamErr.Description
		if message == "" {
			message = fallback
		}
		return status, message
	case errors.As(err, &networkErr):
		return http.StatusServiceUnavailable, "failed to reach shipping rate provider"
	default:
		return http.StatusInternalServerError, fallback
	}
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	status, message := errorResponse(err, fallback)

	fields := []zap.Field{
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(fallback, fields...)
	} else {
		h.logger.Warn(fallback, fields...)
	}

	c.JSON(status, gin.H{"message": message})
}

// bind decodes the JSON body into req, answering 400 on failure.
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Debug("Rejected request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingError(err).Error()})
		return false
	}
	return true
}

// bindingError turns a gin binding failure into a ValidationError. Missing
// fields are listed; otherwise the first rule violation is described.
func bindingError(err error) *models.ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &models.ValidationError{Reason: "invalid request body"}
	}

	var missing []string
	var reason string
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "gt":
			if reason == "" {
				reason = fmt.Sprintf("%s must be a positive integer", fe.Field())
			}
		default:
			if reason == "" {
				reason = fmt.Sprintf("%s is invalid", fe.Field())
			}
		}
	}

	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return &models.ValidationError{Reason: reason}
}
