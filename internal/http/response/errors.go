package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/platform/apierr"
)

var codeStatus = map[domainagg.ErrorCode]int{
	domainagg.CodeValidation:           http.StatusBadRequest,
	domainagg.CodeMissingRequiredField: http.StatusBadRequest,
	domainagg.CodeParentNotFound:       http.StatusUnprocessableEntity,
	domainagg.CodeNotFound:             http.StatusNotFound,
	domainagg.CodeVocabularyConflict:   http.StatusConflict,
	domainagg.CodeConflict:             http.StatusConflict,
	domainagg.CodeRetryable:            http.StatusServiceUnavailable,
	domainagg.CodePersistence:          http.StatusInternalServerError,
	domainagg.CodeInternal:             http.StatusInternalServerError,
}

// Classify turns err into an api error. Aggregate codes map onto fixed statuses;
// anything unrecognized is a 500.
func Classify(err error) *apierr.Error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		status, ok := codeStatus[aggErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return apierr.New(status, string(aggErr.Code), err).WithField(aggErr.Field)
	}
	return apierr.New(http.StatusInternalServerError, string(domainagg.CodeInternal), err)
}

// RespondErr writes err using Classify.
func RespondErr(c *gin.Context, err error) {
	ae := Classify(err)
	msg := "unknown error"
	if ae.Err != nil {
		msg = ae.Err.Error()
	}
	if ae.Status >= http.StatusInternalServerError {
		// Storage details stay in the logs.
		_ = c.Error(err)
		msg = http.StatusText(ae.Status)
	}
	c.JSON(ae.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: ae.Code, Field: ae.Field}})
}
