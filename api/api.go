// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package api exposes the check engine over HTTP.
package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glotcheck/glotcheck/checker"
	"github.com/glotcheck/glotcheck/config"
	"github.com/glotcheck/glotcheck/i18n"
	"github.com/glotcheck/glotcheck/langid"
	"github.com/glotcheck/glotcheck/logger"
	"github.com/glotcheck/glotcheck/metrics"
	"github.com/glotcheck/glotcheck/rules"
)

const requestIDHeader = "X-Request-Id"

// API wires the HTTP routes to the engine.
type API struct {
	router     *gin.Engine
	checker    *checker.Checker
	identifier *langid.Identifier
	registry   *rules.Registry
	cfg        *config.Container
	bundle     *i18n.Bundle
	translator i18n.Translator
	metrics    metrics.Metrics
	log        logger.Logger
}

// New builds the router. translator may be a NoopTranslator when no
// translation service is configured.
func New(
	chk *checker.Checker,
	identifier *langid.Identifier,
	registry *rules.Registry,
	cfg *config.Container,
	bundle *i18n.Bundle,
	translator i18n.Translator,
	m metrics.Metrics,
	log logger.Logger,
) *API {
	gin.SetMode(gin.ReleaseMode)

	a := &API{
		router:     gin.New(),
		checker:    chk,
		identifier: identifier,
		registry:   registry,
		cfg:        cfg,
		bundle:     bundle,
		translator: translator,
		metrics:    m,
		log:        log,
	}

	a.router.Use(gin.Recovery(), a.requestIDMiddleware, a.metricsMiddleware)

	v1 := a.router.Group("/api/v1")
	v1.POST("/check", a.handleCheck)
	v1.POST("/language", a.handleDetectLanguage)
	v1.GET("/languages", a.handleLanguages)

	a.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.GetRegistry(), promhttp.HandlerOpts{})))

	return a
}

// Router returns the configured gin engine.
func (a *API) Router() *gin.Engine {
	return a.router
}

func (a *API) requestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header(requestIDHeader, requestID)
	c.Next()
}

func (a *API) metricsMiddleware(c *gin.Context) {
	start := time.Now()
	a.metrics.IncrementHTTPRequests()

	c.Next()

	status := c.Writer.Status()
	if status >= 400 {
		a.metrics.IncrementHTTPErrors()
	}
	a.metrics.ObserveAPIEndpointDuration(
		c.FullPath(),
		c.Request.Method,
		strconv.Itoa(status),
		time.Since(start).Seconds(),
	)
}

func (a *API) requestID(c *gin.Context) string {
	return c.GetString("request_id")
}
