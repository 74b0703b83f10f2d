// Package api exposes the render service over HTTP: catalog discovery,
// task submission, status polling, artifact download and media uploads.
package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"videomix/internal/catalog"
	"videomix/internal/media"
	"videomix/internal/pipeline"
	"videomix/internal/store"
	"videomix/internal/taskconfig"
)

// Dispatcher starts a validated render. The pipeline Manager implements
// it; tests stub it.
type Dispatcher interface {
	Submit(cfg taskconfig.Config, in pipeline.Inputs) pipeline.Snapshot
}

// Server wires the HTTP handlers to the catalog, store and dispatcher.
type Server struct {
	cat        *catalog.Catalog
	store      store.Store
	dispatcher Dispatcher
	uploadDir  string
}

// NewServer builds the API server.
func NewServer(cat *catalog.Catalog, st store.Store, d Dispatcher, uploadDir string) *Server {
	return &Server{cat: cat, store: st, dispatcher: d, uploadDir: uploadDir}
}

// Router assembles the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.handleHealth)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/config", s.handleConfig)
		v1.POST("/tasks", s.handleCreateTask)
		v1.GET("/tasks/:id", s.handleTaskStatus)
		v1.GET("/tasks/:id/download", s.handleDownload)
		v1.POST("/uploads/media", s.handleUploadMedia)
		v1.POST("/uploads/bgm", s.handleUploadAudio)
	}

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.cat.Describe())
}

// createTaskRequest is the task submission payload: the raw config plus
// the collaborator-supplied inputs.
type createTaskRequest struct {
	Config taskconfig.Request `json:"config"`
	pipeline.Inputs
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	cfg, err := taskconfig.Validate(req.Config, s.cat)
	if err != nil {
		var invalid *taskconfig.InvalidConfigError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "invalid config",
				"violations": invalid.Violations,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := s.dispatcher.Submit(cfg, req.Inputs)
	c.JSON(http.StatusAccepted, gin.H{"task_id": snap.ID})
}

// statusResponse is the polling payload. download_url appears only once
// the task completed.
type statusResponse struct {
	TaskID       string   `json:"task_id"`
	Status       string   `json:"status"`
	Progress     int      `json:"progress"`
	Message      string   `json:"message"`
	DownloadURL  string   `json:"download_url,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

func (s *Server) handleTaskStatus(c *gin.Context) {
	id := c.Param("id")
	rec, err := s.store.Get(c.Request.Context(), id)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	resp := statusResponse{
		TaskID:       rec.ID,
		Status:       rec.Status,
		Progress:     rec.Progress,
		Message:      rec.Message,
		ErrorMessage: rec.ErrorMessage,
		Warnings:     rec.Warnings,
	}
	if rec.Status == string(pipeline.StatusCompleted) {
		resp.DownloadURL = "/api/v1/tasks/" + rec.ID + "/download"
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDownload(c *gin.Context) {
	id := c.Param("id")
	rec, err := s.store.Get(c.Request.Context(), id)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	if rec.Status != string(pipeline.StatusCompleted) || rec.OutputPath == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "task has no completed output"})
		return
	}
	c.FileAttachment(rec.OutputPath, rec.ID+".mp4")
}

var mediaExts = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".bmp": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".aac": true, ".flac": true,
}

func (s *Server) handleUploadMedia(c *gin.Context) {
	s.handleUpload(c, mediaExts, true)
}

func (s *Server) handleUploadAudio(c *gin.Context) {
	s.handleUpload(c, audioExts, false)
}

// handleUpload saves a multipart file under a fresh name and, for visual
// media, probes the metadata the client needs to reference it in a task.
func (s *Server) handleUpload(c *gin.Context, allowed map[string]bool, probe bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type " + ext})
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload dir unavailable"})
		return
	}
	dst := filepath.Join(s.uploadDir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "saving upload failed"})
		return
	}

	if !probe {
		c.JSON(http.StatusOK, gin.H{"path": dst})
		return
	}
	asset, err := media.Probe(dst)
	if err != nil {
		os.Remove(dst)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable media file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": dst, "asset": asset})
}
