// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/collabhub/dashboard"
	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/models"
)

const (
	liveWriteTimeout = 10 * time.Second
	livePongTimeout  = 60 * time.Second
	livePingInterval = 30 * time.Second
)

type DashboardHandler struct {
	dashboard *dashboard.Service
	upgrader  websocket.Upgrader
}

func NewDashboardHandler(dash *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dash,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS already reflects any origin for the JSON API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Developer handles GET /dashboard
func (h *DashboardHandler) Developer(w http.ResponseWriter, r *http.Request) {
	var skills []string
	if raw := r.URL.Query().Get("skills"); raw != "" {
		skills = strings.Split(raw, ",")
	}

	cards, err := h.dashboard.Developer(r.Context(), skills)
	if err != nil {
		writeError(w, err, "Failed to load projects")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.DeveloperDashboardResponse{Projects: cards})
}

// MyApplications handles GET /dashboard/applications
func (h *DashboardHandler) MyApplications(w http.ResponseWriter, r *http.Request) {
	developer, _ := middleware.ProfileFromContext(r.Context())

	apps, err := h.dashboard.MyApplications(r.Context(), developer.ID)
	if err != nil {
		writeError(w, err, "Failed to load applications")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ApplicationsResponse{Applications: apps})
}

// Company handles GET /company/dashboard
func (h *DashboardHandler) Company(w http.ResponseWriter, r *http.Request) {
	company, _ := middleware.ProfileFromContext(r.Context())

	snapshot, err := h.dashboard.Company(r.Context(), company.ID)
	if err != nil {
		writeError(w, err, "Failed to load dashboard")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, snapshot)
}

// Live handles GET /company/dashboard/live. Each message is a full
// company snapshot; the client sends nothing but control frames.
func (h *DashboardHandler) Live(w http.ResponseWriter, r *http.Request) {
	company, _ := middleware.ProfileFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The read loop only notices the client going away.
	conn.SetReadDeadline(time.Now().Add(livePongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongTimeout))
	})
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	pings := time.NewTicker(livePingInterval)
	defer pings.Stop()
	snapshots := make(chan *dashboard.CompanySnapshot)

	pingDone := make(chan struct{})
	go func() {
		defer close(pingDone)
		for {
			select {
			case <-ctx.Done():
				return
			case <-pings.C:
				// Ping and WriteJSON are serialized through the snapshots
				// loop below; a nil snapshot means ping.
				select {
				case snapshots <- nil:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- h.dashboard.Watch(ctx, company.ID, func(s *dashboard.CompanySnapshot) error {
			select {
			case snapshots <- s:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	slog.Info("live dashboard opened", "company_id", company.ID)

	stop := func() {
		cancel()
		conn.Close()
		<-readDone
		<-pingDone
		slog.Info("live dashboard closed", "company_id", company.ID)
	}

	for {
		select {
		case s := <-snapshots:
			conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if s == nil {
				err = conn.WriteMessage(websocket.PingMessage, nil)
			} else {
				err = conn.WriteJSON(s)
			}
			if err != nil {
				cancel()
				<-watchErr
				stop()
				return
			}

		case err := <-watchErr:
			cancel()
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("live dashboard stopped", "company_id", company.ID, "error", err)
				conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "dashboard unavailable"))
			}
			stop()
			return
		}
	}
}
