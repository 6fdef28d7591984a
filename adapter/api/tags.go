package api

import (
	"net/http"

	"github.com/google/uuid"

	practiceCommands "github.com/felixgeelhaar/mindful/internal/practice/application/commands"
	practiceQueries "github.com/felixgeelhaar/mindful/internal/practice/application/queries"
	practiceDomain "github.com/felixgeelhaar/mindful/internal/practice/domain"
)

type createTagRequest struct {
	NameKo    string `json:"name_ko"`
	NameEn    string `json:"name_en"`
	Color     string `json:"color"`
	IsDefault bool   `json:"is_default"`
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.deps.ListTags.Handle(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeTags(w, tags)
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tag, err := s.deps.CreateTag.Handle(r.Context(), practiceCommands.CreateTagCommand(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.DeleteTag.Handle(r.Context(), practiceCommands.DeleteTagCommand{TagID: id}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// setSessionTags replaces the session's tags with the JSON array of tag ids
// in the body.
func (s *Server) setSessionTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var tagIDs []uuid.UUID
	if err := decodeJSON(r, &tagIDs); err != nil {
		s.fail(w, r, err)
		return
	}

	err = s.deps.SetSessionTags.Handle(r.Context(), practiceCommands.SetSessionTagsCommand{SessionID: id, TagIDs: tagIDs})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) getSessionTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tags, err := s.deps.GetSessionTags.Handle(r.Context(), practiceQueries.GetSessionTagsQuery{SessionID: id})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeTags(w, tags)
}

func writeTags(w http.ResponseWriter, tags []*practiceDomain.Tag) {
	if tags == nil {
		tags = []*practiceDomain.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}
