package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"careers-portal/internal/forms"
	"careers-portal/internal/jobs"
	"careers-portal/internal/model"
	"careers-portal/internal/report"
	"careers-portal/internal/scheduler"
	"careers-portal/internal/storage"
	"careers-portal/internal/wizard"
)

// Wizard 抽象申请向导接口。
type Wizard interface {
	Initialize(ctx context.Context, candidateID string, jobID uint) (wizard.State, error)
	SubmitSection(ctx context.Context, candidateID string, jobID uint, section wizard.SectionKey, payload json.RawMessage) (wizard.State, error)
	Submit(ctx context.Context, candidateID string, jobID uint) (*model.Application, error)
}

// JobService 抽象岗位服务接口。
type JobService interface {
	Create(ctx context.Context, req jobs.Request) (model.JobPost, error)
	Update(ctx context.Context, id uint, req jobs.Request) (model.JobPost, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*model.JobPost, error)
	List(ctx context.Context, opts storage.JobQueryOptions) ([]model.JobPost, error)
}

// Files 抽象附件文件读写。
type Files interface {
	Save(ctx context.Context, candidateID, label, filename string, r io.Reader) (model.Document, error)
	Open(ctx context.Context, relPath string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, relPath string) error
}

// DocRecords 抽象附件记录存储。
type DocRecords interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
	ListDocuments(ctx context.Context, candidateID string) ([]model.Document, error)
	DeleteDocument(ctx context.Context, candidateID, label string) error
}

// Applications 抽象后台审核所需的申请记录读写。
type Applications interface {
	ListApplicationsByJob(ctx context.Context, jobID uint) ([]model.Application, error)
	GetApplication(ctx context.Context, candidateID string, jobID uint) (*model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uint, status model.ApplicationStatus) error
}

// Exporter 抽象候选人报告导出。
type Exporter interface {
	ExportCandidateReport(ctx context.Context, p report.Profile, category model.JobCategory) ([]byte, report.ExportOutcome, error)
}

// Sweeper 抽象草稿清理接口。
type Sweeper interface {
	RunOnce(ctx context.Context) (scheduler.SweepResult, error)
}

// Config HTTP 层配置，AdminToken 为空时后台接口整体关闭。
type Config struct {
	AdminToken string `yaml:"admin_token" json:"admin_token"`
}

var labelRe = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// NewHandler 构造 HTTP 多路复用器。
func NewHandler(wiz Wizard, jobSvc JobService, files Files, docs DocRecords, apps Applications, exporter Exporter, sweeper Sweeper, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// 公开岗位列表，closed 岗位不展示
	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		opts := storage.JobQueryOptions{Limit: 20}
		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				if v > 100 {
					v = 100
				}
				opts.Limit = v
			}
		}
		if p := r.URL.Query().Get("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 1 {
				opts.Offset = (v - 1) * opts.Limit
			}
		}
		if c := r.URL.Query().Get("category"); c != "" {
			opts.Category = model.JobCategory(c)
		}
		list, err := jobSvc.List(r.Context(), opts)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	mux.HandleFunc("GET /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		job, err := jobSvc.Get(r.Context(), id)
		if err != nil {
			writeNotFoundOrError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	})

	mux.HandleFunc("POST /api/applications/{jobID}/init", func(w http.ResponseWriter, r *http.Request) {
		candidateID, ok := candidate(w, r)
		if !ok {
			return
		}
		jobID, ok := pathID(w, r, "jobID")
		if !ok {
			return
		}
		state, err := wiz.Initialize(r.Context(), candidateID, jobID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, state)
	})

	mux.HandleFunc("POST /api/applications/{jobID}/sections/{section}", func(w http.ResponseWriter, r *http.Request) {
		candidateID, ok := candidate(w, r)
		if !ok {
			return
		}
		jobID, ok := pathID(w, r, "jobID")
		if !ok {
			return
		}
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		section := wizard.SectionKey(r.PathValue("section"))
		state, err := wiz.SubmitSection(r.Context(), candidateID, jobID, section, payload)
		if err != nil {
			writeWizardError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	})

	mux.HandleFunc("POST /api/applications/{jobID}/submit", func(w http.ResponseWriter, r *http.Request) {
		candidateID, ok := candidate(w, r)
		if !ok {
			return
		}
		jobID, ok := pathID(w, r, "jobID")
		if !ok {
			return
		}
		app, err := wiz.Submit(r.Context(), candidateID, jobID)
		if err != nil {
			writeWizardError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "reference": app.Reference})
	})

	mux.HandleFunc("POST /api/documents", func(w http.ResponseWriter, r *http.Request) {
		candidateID, ok := candidate(w, r)
		if !ok {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 21<<20)
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file field required"})
			return
		}
		defer file.Close()

		label := r.FormValue("label")
		if !labelRe.MatchString(label) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid document label"})
			return
		}

		// 重传同一槽位覆盖记录，换名时旧文件随之清理
		var prior string
		if list, err := docs.ListDocuments(r.Context(), candidateID); err == nil {
			for _, d := range list {
				if d.Label == label {
					prior = d.Path
				}
			}
		}

		doc, err := files.Save(r.Context(), candidateID, label, header.Filename, file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := docs.CreateDocument(r.Context(), &doc); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if prior != "" && prior != doc.Path {
			_ = files.Delete(r.Context(), prior)
		}
		writeJSON(w, http.StatusCreated, doc)
	})

	mux.HandleFunc("GET /api/documents", func(w http.ResponseWriter, r *http.Request) {
		candidateID, ok := candidate(w, r)
		if !ok {
			return
		}
		list, err := docs.ListDocuments(r.Context(), candidateID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	mux.HandleFunc("GET /api/documents/{path...}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := candidate(w, r); !ok {
			return
		}
		rc, contentType, err := files.Open(r.Context(), r.PathValue("path"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "attachment not found"})
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, rc)
	})

	mux.HandleFunc("DELETE /api/documents/{label}", func(w http.ResponseWriter, r *http.Request) {
		candidateID, ok := candidate(w, r)
		if !ok {
			return
		}
		label := r.PathValue("label")
		list, err := docs.ListDocuments(r.Context(), candidateID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		for _, doc := range list {
			if doc.Label == label {
				if err := files.Delete(r.Context(), doc.Path); err != nil {
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
					return
				}
			}
		}
		if err := docs.DeleteDocument(r.Context(), candidateID, label); err != nil {
			writeNotFoundOrError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	})

	admin := adminGuard(cfg.AdminToken)

	mux.HandleFunc("GET /api/admin/jobs", admin(func(w http.ResponseWriter, r *http.Request) {
		list, err := jobSvc.List(r.Context(), storage.JobQueryOptions{IncludeClosed: true})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}))

	mux.HandleFunc("POST /api/admin/jobs", admin(func(w http.ResponseWriter, r *http.Request) {
		var req jobs.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		job, err := jobSvc.Create(r.Context(), req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, job)
	}))

	mux.HandleFunc("PUT /api/admin/jobs/{id}", admin(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req jobs.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		job, err := jobSvc.Update(r.Context(), id, req)
		if err != nil {
			writeNotFoundOrError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}))

	mux.HandleFunc("DELETE /api/admin/jobs/{id}", admin(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if err := jobSvc.Delete(r.Context(), id); err != nil {
			writeNotFoundOrError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}))

	mux.HandleFunc("GET /api/admin/jobs/{id}/applications", admin(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		list, err := apps.ListApplicationsByJob(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}))

	mux.HandleFunc("PUT /api/admin/applications/{id}/status", admin(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req struct {
			Status model.ApplicationStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		switch req.Status {
		case model.ApplicationStatusSubmitted, model.ApplicationStatusShortlisted, model.ApplicationStatusRejected:
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unsupported status %s", req.Status)})
			return
		}
		if err := apps.UpdateApplicationStatus(r.Context(), id, req.Status); err != nil {
			writeNotFoundOrError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
	}))

	mux.HandleFunc("GET /api/admin/candidates/{candidateID}/report", admin(func(w http.ResponseWriter, r *http.Request) {
		jobID, err := strconv.ParseUint(r.URL.Query().Get("job"), 10, 32)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "job query parameter required"})
			return
		}
		app, err := apps.GetApplication(r.Context(), r.PathValue("candidateID"), uint(jobID))
		if err != nil {
			writeNotFoundOrError(w, err)
			return
		}

		var agg wizard.Aggregate
		if err := json.Unmarshal(app.Payload, &agg); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "application payload unreadable"})
			return
		}
		profile := report.Profile{
			Personal:  agg.Personal,
			Education: agg.Education,
			Research:  agg.Research,
			Work:      agg.Work,
			Other:     agg.Other,
		}
		data, outcome, err := exporter.ExportCandidateReport(r.Context(), profile, agg.Category)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(profile)))
		w.Header().Set("X-Skipped-Attachments", strconv.Itoa(len(outcome.Skipped)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))

	mux.HandleFunc("POST /api/admin/sweep", admin(func(w http.ResponseWriter, r *http.Request) {
		if sweeper == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "sweeper disabled"})
			return
		}
		res, err := sweeper.RunOnce(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	}))

	return mux
}

// candidate 从网关注入的请求头取出登录主体。
func candidate(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get("X-Candidate-ID"))
	if id == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "candidate identity missing"})
		return "", false
	}
	return id, true
}

func adminGuard(token string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "admin api disabled"})
				return
			}
			if r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid admin token"})
				return
			}
			next(w, r)
		}
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return uint(id), true
}

// writeWizardError 区分校验失败与内部错误。
func writeWizardError(w http.ResponseWriter, err error) {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message, "field": verr.Field})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeNotFoundOrError(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
