package api

import (
	"net/http"
	"strconv"

	exportApp "github.com/felixgeelhaar/mindful/internal/export/application"
	exportDomain "github.com/felixgeelhaar/mindful/internal/export/domain"
)

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format, err := exportDomain.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	from, to, err := s.timeRange(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.deps.Export.Export(r.Context(), exportApp.Query{Format: format, From: from, To: to})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", result.ContentType)
	h.Set("Content-Disposition", "attachment; filename="+result.FileName)
	h.Set("Content-Length", strconv.Itoa(len(result.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Body); err != nil {
		s.logger.WarnContext(r.Context(), "failed to write export", "format", format, "error", err)
	}
}
