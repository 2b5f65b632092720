/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mw provides echo middleware shared by the vault REST surface.
package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const header = "X-API-Key"

// unauthenticatedPaths are served without an API key: operational endpoints
// a load balancer or build pipeline probes.
var unauthenticatedPaths = []string{"/healthcheck", "/version"} //nolint:gochecknoglobals

// APIKeyAuth returns a middleware that authenticates requests using the API
// key from the X-API-Key header.
func APIKeyAuth(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := strings.ToLower(c.Request().URL.Path)

			for _, open := range unauthenticatedPaths {
				if strings.HasPrefix(path, open) {
					return next(c)
				}
			}

			apiKeyHeader := c.Request().Header.Get(header)
			if subtle.ConstantTimeCompare([]byte(apiKeyHeader), []byte(apiKey)) != 1 {
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Unauthorized",
				}
			}

			return next(c)
		}
	}
}
