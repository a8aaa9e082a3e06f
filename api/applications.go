package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/openhire/jobboard/internal/upload"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

const (
	maxCoverLetterChars = 1000

	duplicateApplicationMsg = "You have already applied to this job"
)

type ApplicationsHandler struct {
	appRepo   repository.ApplicationRepo
	jobRepo   repository.JobRepo
	store     *upload.Store
	maxUpload int64
}

func NewApplicationsHandler(ar repository.ApplicationRepo, jr repository.JobRepo, store *upload.Store, maxUpload int64) *ApplicationsHandler {
	return &ApplicationsHandler{appRepo: ar, jobRepo: jr, store: store, maxUpload: maxUpload}
}

// Apply submits an application with a CV attachment. The duplicate pre-check
// is only an early exit; a concurrent submit loses the race at the uniqueness
// constraint and is reported with the same message.
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	jobID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	coverLetter := r.FormValue("cover_letter")
	file, header, err := r.FormFile("cv_file")
	if coverLetter == "" || err != nil {
		writeError(w, http.StatusBadRequest, "Please provide both a cover letter and a CV file")
		return
	}
	defer file.Close()

	if len(coverLetter) > maxCoverLetterChars {
		writeError(w, http.StatusBadRequest, "Cover letter must not exceed 1000 characters")
		return
	}

	job, err := h.jobRepo.GetJobByID(r.Context(), jobID)
	if err != nil {
		writeServerError(w, "Error retrieving job", err)
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found or has been archived")
		return
	}

	applied, err := h.appRepo.HasApplied(r.Context(), jobID, claims.UserID)
	if err != nil {
		writeServerError(w, "Error checking application", err)
		return
	}
	if applied {
		writeError(w, http.StatusBadRequest, duplicateApplicationMsg)
		return
	}

	cvURL, err := h.store.SaveCV(header.Filename, file)
	if err != nil {
		if errors.Is(err, upload.ErrInvalidType) {
			writeError(w, http.StatusBadRequest, "Only PDF files are allowed")
			return
		}
		writeServerError(w, "Error storing CV file", err)
		return
	}

	app := models.Application{
		JobID:       jobID,
		UserID:      claims.UserID,
		CoverLetter: coverLetter,
		CVURL:       cvURL,
		Status:      models.StatusPending,
	}
	id, err := h.appRepo.CreateApplication(r.Context(), &app)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, duplicateApplicationMsg)
			return
		}
		writeServerError(w, "Error submitting application", err)
		return
	}

	writeJSON(w, map[string]any{
		"applicationId": id,
		"message":       "Application submitted successfully",
	}, http.StatusCreated)
}

func (h *ApplicationsHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	apps, err := h.appRepo.ListByJob(r.Context(), jobID)
	if err != nil {
		writeServerError(w, "Error fetching applications", err)
		return
	}

	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, apps, http.StatusOK)
}

func (h *ApplicationsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	apps, err := h.appRepo.ListAllApplications(r.Context())
	if err != nil {
		writeServerError(w, "Error fetching applications", err)
		return
	}

	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, apps, http.StatusOK)
}

// ListMine returns the caller's own applications, used by the client to mark
// jobs already applied to.
func (h *ApplicationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	apps, err := h.appRepo.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		writeServerError(w, "Error fetching applications", err)
		return
	}

	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, apps, http.StatusOK)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r, "appId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid application id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	// reject before touching the database
	if !models.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	ok, err := h.appRepo.UpdateApplicationStatus(r.Context(), appID, req.Status)
	if err != nil {
		writeServerError(w, "Error updating application", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Application not found")
		return
	}

	writeJSON(w, map[string]string{
		"message": fmt.Sprintf("Application %d status updated to %s", appID, req.Status),
	}, http.StatusOK)
}
