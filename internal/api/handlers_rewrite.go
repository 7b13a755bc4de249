package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/dnrewrite/internal/parser"
	"github.com/dgallion1/dnrewrite/internal/pipeline"
	"github.com/dgallion1/dnrewrite/internal/render"
	"github.com/go-chi/chi/v5"
)

// uploadError carries the HTTP status for a rejected upload.
type uploadError struct {
	msg  string
	code int
}

func (e *uploadError) Error() string { return e.msg }

// readUpload accepts either a multipart form with a "file" field or a raw
// body named by the "filename" query parameter.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	var (
		filename string
		src      io.Reader
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return "", nil, &uploadError{"invalid multipart form: " + err.Error(), http.StatusBadRequest}
		}
		defer r.MultipartForm.RemoveAll()
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, &uploadError{"file is required: " + err.Error(), http.StatusBadRequest}
		}
		defer file.Close()
		filename = header.Filename
		src = file
	} else {
		filename = r.URL.Query().Get("filename")
		if filename == "" {
			filename = "document.html"
		}
		src = r.Body
	}

	filename = sanitizeFilename(filename)
	if !parser.IsSupportedExtension(filename) {
		return "", nil, &uploadError{fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest}
	}

	data, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", nil, &uploadError{"failed to read file", http.StatusBadRequest}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return "", nil, &uploadError{fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge}
	}
	return filename, data, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		jsonError(w, ue.msg, ue.code)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

func formatParam(r *http.Request) (render.Format, error) {
	v := r.URL.Query().Get("format")
	if v == "" && r.MultipartForm != nil {
		v = r.FormValue("format")
	}
	return render.ParseFormat(v)
}

// handleRewrite rewrites one document synchronously. With raw=true the
// rendered document is returned directly and the counters go in headers.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	format, err := formatParam(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := s.orchestrator.Worker().Rewrite(filename, data, format)
	if err != nil {
		s.log.Warn("rewrite failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if raw, _ := strconv.ParseBool(r.URL.Query().Get("raw")); raw {
		w.Header().Set("Content-Type", out.ContentType)
		w.Header().Set("X-Dnr-Replaced", strconv.Itoa(out.Result.Replaced))
		w.Header().Set("X-Dnr-Skipped", strconv.Itoa(out.Result.Skipped))
		w.Write(out.Content)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":     filename,
		"replaced":     out.Result.Replaced,
		"skipped":      out.Result.Skipped,
		"content_type": out.ContentType,
		"content":      string(out.Content),
	})
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	format, err := formatParam(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(filename, data, format)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(jobAccepted(job))
}

func (s *Server) handleBatchSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format, err := formatParam(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}

		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "file too large or read error",
			})
			continue
		}

		job := pipeline.NewJob(filename, data, format)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}
		results = append(results, jobAccepted(job))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
	case pipeline.StatusFailed:
		jsonError(w, "job failed: "+strings.Join(snap.Progress.Errors, "; "), http.StatusUnprocessableEntity)
		return
	default:
		jsonError(w, "job not finished", http.StatusConflict)
		return
	}

	out := job.Output()
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("X-Dnr-Replaced", strconv.Itoa(out.Result.Replaced))
	w.Header().Set("X-Dnr-Skipped", strconv.Itoa(out.Result.Skipped))
	w.Write(out.Content)
}

func jobAccepted(job *pipeline.Job) map[string]any {
	return map[string]any{
		"filename": job.Filename,
		"job_id":   job.ID,
		"doc_id":   job.DocID,
		"status":   job.Snapshot().Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s/status", job.ID),
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
