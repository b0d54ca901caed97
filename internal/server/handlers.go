package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/reports"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Client-facing error messages.
const (
	msgMissingInput  = "Resume file or Job Description missing"
	msgPDFOnly       = "Only PDF files are supported"
	msgExtractFailed = "Unable to extract text from resume PDF"
	msgReportMissing = "Report not found"
	msgAnalysisFail  = "Internal Server Error"
)

// AnalyzeResponse is returned by the analyze endpoints.
type AnalyzeResponse struct {
	Status      string                `json:"status"`
	Analysis    *types.AnalysisResult `json:"analysis"`
	ReportID    string                `json:"report_id"`
	DownloadURL string                `json:"download_url,omitempty"`
	Coaching    *types.Coaching       `json:"coaching,omitempty"`
}

// RoleResponse describes one role in GET /roles.
type RoleResponse struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// AnalysisRecordResponse is returned by GET /analyses/{id}.
type AnalysisRecordResponse struct {
	ID           string                `json:"id"`
	Fingerprint  string                `json:"fingerprint"`
	Role         string                `json:"role"`
	SelectedRole string                `json:"selected_role,omitempty"`
	OverallScore float64               `json:"overall_score"`
	Source       string                `json:"source"`
	DownloadURL  string                `json:"download_url,omitempty"`
	CreatedAt    string                `json:"created_at"`
	Analysis     *types.AnalysisResult `json:"analysis"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoles(w http.ResponseWriter, _ *http.Request) {
	tax := s.runner.Analyzer.Taxonomy()
	names := tax.Roles()
	roles := make([]RoleResponse, 0, len(names))
	for _, name := range names {
		skills := tax.RoleSkills(name)
		if skills == nil {
			skills = []string{}
		}
		roles = append(roles, RoleResponse{Name: name, Skills: skills})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"roles": roles})
}

// handleAnalyze takes a multipart upload with a resume file and a job
// description.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Resume file is too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, msgMissingInput)
		return
	}

	file, header, err := r.FormFile("resume")
	jobDescription := r.FormValue("job_description")
	if err != nil || strings.TrimSpace(jobDescription) == "" {
		s.errorResponse(w, http.StatusBadRequest, msgMissingInput)
		return
	}
	defer file.Close()

	format, err := ingestion.DetectFormat(header.Header.Get("Content-Type"), header.Filename)
	if s.cfg.PDFOnly && (err != nil || format != ingestion.FormatPDF) {
		s.errorResponse(w, http.StatusBadRequest, msgPDFOnly)
		return
	}
	if err != nil {
		err = &ErrUnsupportedMedia{Filename: header.Filename, Cause: err}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgMissingInput)
		return
	}

	resumeText, err := ingestion.ExtractDocument(format, data)
	if err != nil {
		s.logger.Info("resume extraction failed",
			zap.String("filename", header.Filename),
			zap.String("format", format),
			zap.Error(err),
		)
		s.errorResponse(w, http.StatusBadRequest, msgExtractFailed)
		return
	}

	s.runAnalysis(w, r, types.AnalysisInput{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		SelectedRole:   r.FormValue("selected_role"),
	})
}

// handleAnalyzeText takes the resume as plain text in a JSON body.
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var input types.AnalysisInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(input.ResumeText) == "" {
		verr := &ErrValidation{Field: "resume_text", Message: "is required"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}
	if err := input.Validate(); err != nil {
		verr := &ErrValidation{Field: "request", Message: err.Error()}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	s.runAnalysis(w, r, input)
}

func (s *Server) runAnalysis(w http.ResponseWriter, r *http.Request, input types.AnalysisInput) {
	out, err := s.runner.Run(r.Context(), pipeline.Request{Input: input, Source: db.SourceHTTP})
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusBadRequest {
			s.errorResponse(w, status, msgExtractFailed)
			return
		}
		s.logger.Error("analysis failed", zap.Error(err))
		s.jsonResponse(w, status, map[string]string{
			"error":   msgAnalysisFail,
			"details": err.Error(),
		})
		return
	}

	id := out.ID.String()
	logging.WithFields(s.logger, logging.AnalysisFields(id, out.Result.RoleDetected)...).
		Debug("analysis served", zap.Bool("persisted", out.Persisted))

	resp := AnalyzeResponse{
		Status:   "success",
		Analysis: out.Result,
		ReportID: id,
		Coaching: out.Coaching,
	}
	if out.ReportKey != "" {
		resp.DownloadURL = s.downloadURL(r, id)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// downloadURL builds the report link from the public URL, or from the
// request's own scheme and host.
func (s *Server) downloadURL(r *http.Request, id string) string {
	base := strings.TrimRight(s.cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/download-report/" + id
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil || s.runner.Reports == nil {
		s.errorResponse(w, http.StatusNotFound, msgReportMissing)
		return
	}

	data, err := s.runner.Reports.Get(r.Context(), reports.ReportKey(id.String()))
	if errors.Is(err, reports.ErrNotFound) {
		s.errorResponse(w, http.StatusNotFound, msgReportMissing)
		return
	}
	if err != nil {
		s.logger.Error("failed to load report", zap.String(logging.FieldAnalysisID, id.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load report")
		return
	}

	w.Header().Set("Content-Type", rendering.ReportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+rendering.ReportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write report", zap.Error(err))
	}
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid analysis ID")
		return
	}
	if s.runner.Store == nil {
		s.errorResponse(w, http.StatusNotFound, "Analysis not found")
		return
	}

	rec, err := s.runner.Store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to load analysis", zap.String(logging.FieldAnalysisID, id.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, "Analysis not found")
		return
	}

	resp := AnalysisRecordResponse{
		ID:           rec.ID.String(),
		Fingerprint:  rec.Fingerprint,
		Role:         rec.Role,
		SelectedRole: rec.SelectedRole,
		OverallScore: rec.OverallScore,
		Source:       rec.Source,
		CreatedAt:    rec.CreatedAt.UTC().Format(time.RFC3339),
		Analysis:     rec.Result,
	}
	if rec.ReportKey != "" {
		resp.DownloadURL = s.downloadURL(r, resp.ID)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
