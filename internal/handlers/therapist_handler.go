// internal/handlers/therapist_handler.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"
	"flexifun_server/internal/service"
	"flexifun_server/internal/webutil"
)

type TherapistHandler struct {
	service service.TherapistService
}

func NewTherapistHandler(s service.TherapistService) *TherapistHandler {
	return &TherapistHandler{service: s}
}

// URL パスの studentId パラメータを UUID として解釈する。
func parseStudentIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "studentId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_STUDENT_ID", "Invalid student id format", "studentId", model.ErrInvalidInput)
	}
	return id, nil
}

// GetDashboard は GET /api/therapist/dashboard に対応します。
func (h *TherapistHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	dashboard, err := h.service.GetDashboard(r.Context(), principal.ID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, dashboard)
}

// AssignStudent は POST /api/therapist/assign-student に対応します。
func (h *TherapistHandler) AssignStudent(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.AssignStudentRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.AssignStudent(r.Context(), principal.ID, req.StudentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// GetStudentProgress は GET /api/therapist/student/{studentId}/progress に対応します。
func (h *TherapistHandler) GetStudentProgress(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	studentID, err := parseStudentIDParam(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	view, err := h.service.GetStudentProgress(r.Context(), principal.ID, studentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, view)
}

// GetWeeklyReport は GET /api/therapist/student/{studentId}/report に対応します。
func (h *TherapistHandler) GetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	studentID, err := parseStudentIDParam(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	report, err := h.service.GetWeeklyReport(r.Context(), principal.ID, studentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, report)
}
