/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package version exposes the build version of the running server.
package version

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Config holds the version strings embedded at build time.
type Config struct {
	Version       string
	ServerVersion string
}

// Controller serves the version endpoints.
type Controller struct {
	version       string
	serverVersion string
}

type versionResponse struct {
	Version string `json:"version"`
}

// NewController creates a Controller and registers its routes.
func NewController(router router, cfg Config) *Controller {
	c := &Controller{
		version:       cfg.Version,
		serverVersion: cfg.ServerVersion,
	}

	router.GET("/version", func(ctx echo.Context) error {
		return c.Version(ctx)
	})
	router.GET("/version/system", func(ctx echo.Context) error {
		return c.ServerVersion(ctx)
	})

	return c
}

// Version returns the vault-rest build version.
func (c *Controller) Version(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, versionResponse{Version: c.version})
}

// ServerVersion returns the deployed system version.
func (c *Controller) ServerVersion(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, versionResponse{Version: c.serverVersion})
}
