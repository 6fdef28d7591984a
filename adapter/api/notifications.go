package api

import (
	"net/http"

	"github.com/felixgeelhaar/mindful/internal/notifications/application/commands"
)

type setWebhookRequest struct {
	WebhookURL string `json:"webhook_url"`
}

type reminderConfigRequest struct {
	Enabled *bool `json:"enabled"`
	Hour    *int  `json:"hour"`
	Minute  *int  `json:"minute"`
}

func (s *Server) discordStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.deps.DiscordStatus.Handle(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) setWebhook(w http.ResponseWriter, r *http.Request) {
	var req setWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.SetWebhook.Handle(r.Context(), commands.SetWebhookCommand{WebhookURL: req.WebhookURL}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) sendTest(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.SendTest.Handle(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) reminderConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.deps.ReminderConfig.Handle(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) updateReminderConfig(w http.ResponseWriter, r *http.Request) {
	var req reminderConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Hour == nil || req.Minute == nil {
		s.fail(w, r, badRequest("hour and minute are required"))
		return
	}

	err := s.deps.UpdateReminderConfig.Handle(r.Context(), commands.UpdateReminderConfigCommand{
		Enabled: req.Enabled,
		Hour:    *req.Hour,
		Minute:  *req.Minute,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
