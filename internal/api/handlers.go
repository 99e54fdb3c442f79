package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/breederops/breeder-control/internal/backend"
	"github.com/breederops/breeder-control/internal/controller"
	"github.com/breederops/breeder-control/internal/resource"
)

// statusFor maps a taxonomy error onto an HTTP status. Not-found must stay
// distinguishable from other backend failures, and every failure keeps a
// human-readable reason.
func statusFor(err error) int {
	var (
		validationErr     *resource.ValidationError
		notFoundErr       *controller.NotFoundError
		notImplementedErr *controller.NotImplementedError
		authErr           *backend.AuthError
		dispatchErr       *backend.DispatchError
		malformedErr      *backend.MalformedResponseError
		jobFailure        *controller.JobFailure
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &notImplementedErr):
		return http.StatusNotImplemented
	case errors.As(err, &authErr),
		errors.As(err, &dispatchErr),
		errors.As(err, &malformedErr),
		errors.As(err, &jobFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	s.writeError(w, statusFor(err), err.Error())
}

func (s *Server) listBreeders(w http.ResponseWriter, r *http.Request) {
	breeders, err := s.ctrl.ListBreeders(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, breeders)
}

func (s *Server) getBreeder(w http.ResponseWriter, r *http.Request) {
	b, err := s.ctrl.GetBreeder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) createBreeder(w http.ResponseWriter, r *http.Request) {
	var spec resource.BreederSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	b, err := s.ctrl.CreateBreeder(r.Context(), spec)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) deleteBreeder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ctrl.DeleteBreeder(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "purged breeder " + id})
}

func (s *Server) stopBreeder(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.ctrl.StopBreeder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) updateBreeder(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, s.ctrl.UpdateBreeder(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) listCredentials(w http.ResponseWriter, r *http.Request) {
	credentials, err := s.ctrl.ListCredentials(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, credentials)
}

func (s *Server) getCredential(w http.ResponseWriter, r *http.Request) {
	cred, err := s.ctrl.GetCredential(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cred)
}

func (s *Server) createCredential(w http.ResponseWriter, r *http.Request) {
	var spec resource.CredentialSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	cred, err := s.ctrl.CreateCredential(r.Context(), spec)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cred)
}

func (s *Server) deleteCredential(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ctrl.DeleteCredential(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "deleted credential " + id})
}

func (s *Server) updateCredential(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, s.ctrl.UpdateCredential(r.Context(), chi.URLParam(r, "id")))
}
