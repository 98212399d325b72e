// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package api

import (
	"net/http"
	"time"

	"github.com/uplift-hq/uplift/internal/models"
	"github.com/uplift-hq/uplift/internal/realtime"
)

// Messages handles chat history requests
//
// @Summary Get chat history
// @Description Returns recent chat messages, newest first. Clients load history here and receive new messages over the WebSocket relay.
// @Tags Chat
// @Accept json
// @Produce json
// @Param limit query int false "Maximum results (1-500)" default(50) minimum(1) maximum(500)
// @Success 200 {object} models.APIResponse{data=[]models.ChatMessage} "Messages retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 500 {object} models.APIResponse "Storage error"
// @Router /messages [get]
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	start := time.Now()

	req := MessageListRequest{
		Limit: getIntParam(r, "limit", models.DefaultMessageLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	messages, err := h.store.ListMessages(r.Context(), models.MessageQuery{Limit: req.Limit})
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to retrieve messages", err)
		return
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   messages,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// SendMessage handles chat message submissions
//
// @Summary Send a chat message
// @Description Persists the message, then publishes it to the realtime relay so connected WebSocket clients receive it. Publish failures are logged and never fail the request; clients catch up from history.
// @Tags Chat
// @Accept json
// @Produce json
// @Param message body SendMessageRequest true "Message to send"
// @Success 201 {object} models.APIResponse{data=models.ChatMessage} "Message stored"
// @Failure 400 {object} models.APIResponse "Missing text/user or malformed body"
// @Failure 500 {object} models.APIResponse "Storage error"
// @Router /send-message [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	start := time.Now()

	var req SendMessageRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	msg := models.ChatMessage{
		Text:     req.Text,
		User:     req.User,
		PhotoURL: req.PhotoURL,
	}
	if err := h.store.InsertMessage(r.Context(), &msg); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store message", err)
		return
	}

	// Persist first, publish second. A message that reaches storage is
	// always eventually visible even if the publish is lost.
	if h.notifier != nil {
		h.notifier.Publish(realtime.ChannelMessages, realtime.EventNewMessage, msg)
	}

	respondJSON(w, r, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data:   msg,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
