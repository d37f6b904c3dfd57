package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mediascribe/internal/config"
	"mediascribe/internal/domain"
	"mediascribe/internal/pipeline"
	"mediascribe/internal/services"
	"mediascribe/internal/storage"
)

type API struct {
	cfg   config.Config
	store *storage.SessionStore
	files *storage.FileManager
	pipe  *pipeline.Pipeline
	pdf   *services.PDFService
	share *services.ShareService
	log   zerolog.Logger
}

func NewAPI(
	cfg config.Config,
	store *storage.SessionStore,
	files *storage.FileManager,
	pipe *pipeline.Pipeline,
	pdf *services.PDFService,
	share *services.ShareService,
	log zerolog.Logger,
) *API {
	return &API{cfg: cfg, store: store, files: files, pipe: pipe, pdf: pdf, share: share, log: log}
}

func registerRoutes(r *gin.Engine, api *API) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)

		apiGroup.POST("/sessions", api.handleCreateSession)
		apiGroup.GET("/sessions/:id", api.handleGetSession)
		apiGroup.DELETE("/sessions/:id", api.handleDeleteSession)

		apiGroup.POST("/sessions/:id/media", api.handleUploadMedia)
		apiGroup.POST("/sessions/:id/text", api.handleUploadText)
		apiGroup.GET("/sessions/:id/transcript", api.handleDownloadTranscript)

		apiGroup.POST("/sessions/:id/summary", api.handleSummarize)
		apiGroup.POST("/sessions/:id/ask", api.handleAsk)
		apiGroup.GET("/sessions/:id/history", api.handleHistory)

		apiGroup.POST("/sessions/:id/pdf", api.handleGeneratePDF)
		apiGroup.POST("/sessions/:id/share", api.handleShareSession)
	}

	r.GET("/pdf/:id", api.handleServePDF)
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleCreateSession(c *gin.Context) {
	sess := a.store.Create()
	c.JSON(http.StatusCreated, sess)
}

func (a *API) handleGetSession(c *gin.Context) {
	sess, err := a.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (a *API) handleDeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := a.store.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	if err := a.files.RemoveSessionDir(id); err != nil {
		a.log.Warn().Err(err).Str("session", id).Msg("scratch cleanup failed")
	}
	a.files.RemovePDF(id)

	c.Status(http.StatusNoContent)
}

func (a *API) handleUploadMedia(c *gin.Context) {
	id := c.Param("id")

	upload, filename, ok := a.openFormFile(c, "file")
	if !ok {
		return
	}
	defer upload.Close()

	if err := a.pipe.RunMedia(c.Request.Context(), id, upload, filename); err != nil {
		respondError(c, err)
		return
	}

	sess, err := a.store.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (a *API) handleUploadText(c *gin.Context) {
	id := c.Param("id")

	upload, filename, ok := a.openFormFile(c, "file")
	if !ok {
		return
	}
	defer upload.Close()

	if strings.ToLower(filepath.Ext(filename)) != ".txt" {
		respondMessage(c, http.StatusBadRequest, "text upload requires a .txt file")
		return
	}

	if err := a.pipe.RunText(c.Request.Context(), id, upload, filename); err != nil {
		respondError(c, err)
		return
	}

	sess, err := a.store.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (a *API) handleDownloadTranscript(c *gin.Context) {
	sess, err := a.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if sess.State != domain.StateReady {
		respondMessage(c, http.StatusConflict, "transcript is not ready")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transcript.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(sess.Transcript))
}

func (a *API) handleSummarize(c *gin.Context) {
	var payload struct {
		Words int `json:"words"`
		Ideas int `json:"ideas"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid payload")
			return
		}
	}

	sum, err := a.pipe.Summarize(c.Request.Context(), c.Param("id"), payload.Words, payload.Ideas)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sum)
}

// handleAsk accepts either a typed question (multipart field or JSON body)
// or a recorded one (multipart "audio" file transcribed before answering).
func (a *API) handleAsk(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if fileHeader, err := c.FormFile("audio"); err == nil {
		voice, err := fileHeader.Open()
		if err != nil {
			respondMessage(c, http.StatusInternalServerError, "unable to read voice question")
			return
		}
		defer voice.Close()

		ex, err := a.pipe.AskVoice(ctx, id, voice, fileHeader.Filename)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ex)
		return
	}

	question := strings.TrimSpace(c.PostForm("question"))
	if question == "" {
		var payload struct {
			Question string `json:"question"`
		}
		if err := c.ShouldBindJSON(&payload); err == nil {
			question = strings.TrimSpace(payload.Question)
		}
	}
	if question == "" {
		respondMessage(c, http.StatusBadRequest, "provide a question or an audio recording")
		return
	}

	ex, err := a.pipe.Ask(ctx, id, question)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

func (a *API) handleHistory(c *gin.Context) {
	sess, err := a.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.History)
}

func (a *API) handleGeneratePDF(c *gin.Context) {
	id := c.Param("id")
	sess, err := a.store.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if sess.State != domain.StateReady {
		respondMessage(c, http.StatusConflict, "session is not ready")
		return
	}

	var sum domain.Summary
	if sess.LastSummary != nil {
		sum = *sess.LastSummary
	} else {
		sum, err = a.pipe.Summarize(c.Request.Context(), id, 0, 0)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	pdfPath := a.files.PDFPath(id)
	if err := a.pdf.GeneratePDF(sess, sum, pdfPath); err != nil {
		respondError(c, err)
		return
	}

	if err := a.store.SetPDFPath(id, pdfPath); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pdfPath": pdfPath})
}

func (a *API) handleShareSession(c *gin.Context) {
	id := c.Param("id")
	sess, err := a.store.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if sess.PDFPath == "" {
		respondMessage(c, http.StatusBadRequest, "no pdf available for this session")
		return
	}

	url, expiresAt := a.share.Generate(id)
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresAt": expiresAt.UTC()})
}

func (a *API) handleServePDF(c *gin.Context) {
	id := c.Param("id")
	expiresParam := c.Query("exp")
	signature := c.Query("sig")

	if expiresParam == "" || signature == "" {
		respondMessage(c, http.StatusBadRequest, "missing signature")
		return
	}

	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid expiration")
		return
	}

	if expires < time.Now().Unix() {
		respondMessage(c, http.StatusGone, "link expired")
		return
	}

	if !a.share.Validate(c.Request.URL.Path, expires, signature) {
		respondMessage(c, http.StatusForbidden, "invalid signature")
		return
	}

	sess, err := a.store.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	pdfPath := sess.PDFPath
	if pdfPath == "" {
		pdfPath = a.files.PDFPath(id)
	}

	if _, err := os.Stat(pdfPath); err != nil {
		respondMessage(c, http.StatusNotFound, "pdf not found")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(pdfPath, filepath.Base(pdfPath))
}

func (a *API) openFormFile(c *gin.Context, field string) (multipart.File, string, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "missing uploaded file")
		return nil, "", false
	}

	upload, err := fileHeader.Open()
	if err != nil {
		a.log.Error().Err(err).Msg("open uploaded file")
		respondMessage(c, http.StatusInternalServerError, "unable to read uploaded file")
		return nil, "", false
	}

	return upload, fileHeader.Filename, true
}

func respondError(c *gin.Context, err error) {
	respondMessage(c, statusForError(err), err.Error())
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// statusForError maps the pipeline error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrPipelineBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTranscode), errors.Is(err, domain.ErrChunking):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTranscription),
		errors.Is(err, domain.ErrSummarization),
		errors.Is(err, domain.ErrQA):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
