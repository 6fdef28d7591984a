package api

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/felixgeelhaar/mindful/internal/sounds"
)

func (s *Server) listSounds(w http.ResponseWriter, r *http.Request) {
	category, err := sounds.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	list, err := s.deps.Sounds.List(category)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// serveSound streams one audio file with range support.
func (s *Server) serveSound(w http.ResponseWriter, r *http.Request) {
	category, err := sounds.ParseCategory(r.PathValue("category"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	f, err := s.deps.Sounds.Open(category, r.PathValue("filename"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid sound path")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
