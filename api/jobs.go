package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/openhire/jobboard/internal/validate"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

type JobsHandler struct {
	jobRepo   repository.JobRepo
	validator *validate.Validator
}

func NewJobsHandler(jr repository.JobRepo, v *validate.Validator) *JobsHandler {
	return &JobsHandler{jobRepo: jr, validator: v}
}

type jobListResponse struct {
	Data        []models.Job `json:"data"`
	TotalPages  int64        `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
}

// List serves the public job listing: non-archived jobs only, newest first,
// with substring filters ANDed together and 1-indexed pagination.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.JobFilter{
		Search:   q.Get("search"),
		Location: q.Get("location"),
		Tags:     q.Get("tags"),
	}

	page := 1
	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	limit := 10
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	offset := (page - 1) * limit

	// The same filter value feeds both queries, so the page and the total
	// are always computed under one predicate.
	jobs, err := h.jobRepo.ListJobs(r.Context(), filter, limit, offset)
	if err != nil {
		writeServerError(w, "Error retrieving jobs", err)
		return
	}
	total, err := h.jobRepo.CountJobs(r.Context(), filter)
	if err != nil {
		writeServerError(w, "Error retrieving jobs", err)
		return
	}

	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, jobListResponse{
		Data:        jobs,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		CurrentPage: page,
	}, http.StatusOK)
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	job, err := h.jobRepo.GetJobByID(r.Context(), id)
	if err != nil {
		writeServerError(w, "Error retrieving job", err)
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found or has been archived")
		return
	}

	writeJSON(w, job, http.StatusOK)
}

func (h *JobsHandler) decodeJob(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return nil, false
	}

	if err := h.validator.Validate(r.Context(), "job", body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	var j models.Job
	if err := json.Unmarshal(body, &j); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return nil, false
	}

	return &j, true
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	j, ok := h.decodeJob(w, r)
	if !ok {
		return
	}

	id, err := h.jobRepo.CreateJob(r.Context(), j)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error creating job")
		return
	}

	writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

// Update overwrites every mutable field of the job; it is idempotent.
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	j, ok := h.decodeJob(w, r)
	if !ok {
		return
	}
	j.ID = id

	if err := h.jobRepo.UpdateJob(r.Context(), j); err != nil {
		writeError(w, http.StatusBadRequest, "Error updating job")
		return
	}

	writeJSON(w, map[string]string{"message": fmt.Sprintf("Job %d updated successfully", id)}, http.StatusOK)
}

// Archive is the soft delete: the row stays for application history but
// disappears from public listing and lookup. There is no unarchive.
func (h *JobsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	if err := h.jobRepo.ArchiveJob(r.Context(), id); err != nil {
		writeServerError(w, "Error archiving job", err)
		return
	}

	writeJSON(w, map[string]string{"message": fmt.Sprintf("Job %d archived successfully", id)}, http.StatusOK)
}

func (h *JobsHandler) AdminAll(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobRepo.ListAllJobs(r.Context())
	if err != nil {
		writeServerError(w, "Error retrieving jobs", err)
		return
	}

	if jobs == nil {
		jobs = []models.Job{}
	}
	writeJSON(w, jobs, http.StatusOK)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
