/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"
)

var logger = log.New("resterr")

// HTTPErrorHandler maps classified errors to HTTP statuses for echo.
func HTTPErrorHandler(err error, c echo.Context) {
	code := GetCode(err)
	status := httpStatus(code)

	logger.Errorc(c.Request().Context(), "request failed",
		log.WithHTTPStatus(status), log.WithError(err))

	if sendErr := c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": err.Error(),
	}); sendErr != nil {
		logger.Errorc(c.Request().Context(), "failed to send error response", log.WithError(sendErr))
	}
}

func httpStatus(code Code) int {
	switch code {
	case CodeValidation, CodeMalformedEnvelope, CodePolicyBuild:
		return http.StatusBadRequest
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeSessionExpired:
		return http.StatusUnauthorized
	case CodeBlobNotFound:
		return http.StatusNotFound
	case CodeCorruptCiphertext:
		return http.StatusUnprocessableEntity
	case CodeTransport:
		return http.StatusBadGateway
	case CodeConfiguration, CodeSystem:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
