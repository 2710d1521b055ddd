// internal/handlers/student_handler.go
package handlers

import (
	"net/http"

	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"
	"flexifun_server/internal/service"
	"flexifun_server/internal/webutil"
)

type StudentHandler struct {
	service service.StudentService
}

func NewStudentHandler(s service.StudentService) *StudentHandler {
	return &StudentHandler{service: s}
}

// GetProfile は GET /api/student/profile に対応します。
func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	student, err := h.service.GetProfile(r.Context(), principal.ID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.NewStudentResponse(student))
}

// UpdateProfile は PUT /api/student/profile に対応します。
func (h *StudentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateProfileRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	student, err := h.service.UpdateProfile(r.Context(), principal.ID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.NewStudentResponse(student))
}

// GetProgress は GET /api/student/progress に対応します。
func (h *StudentHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	progresses, err := h.service.GetProgress(r.Context(), principal.ID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	// レコードが無い場合も null ではなく空配列を返す。
	if progresses == nil {
		progresses = []*model.GameProgress{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, progresses)
}

// UpdateProgress は PUT /api/student/progress に対応します。
func (h *StudentHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateProgressRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	progress, err := h.service.UpdateProgress(r.Context(), principal.ID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, progress)
}

// RecordSession は POST /api/student/session に対応します。
func (h *StudentHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.RecordSessionRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	session, err := h.service.RecordSession(r.Context(), principal.ID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, session)
}

// GetStats は GET /api/student/stats に対応します。
func (h *StudentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	stats, err := h.service.GetStats(r.Context(), principal.ID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, stats)
}
