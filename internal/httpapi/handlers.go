package httpapi

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"callintake-platform/internal/audit"
	"callintake-platform/internal/auth"
	"callintake-platform/internal/clients"
	"callintake-platform/internal/extraction"
	"callintake-platform/internal/media"
	"callintake-platform/internal/notify"
	"callintake-platform/internal/pipeline"
	"callintake-platform/internal/rbac"
	"callintake-platform/internal/recordings"
	"callintake-platform/internal/reporting"
	"callintake-platform/internal/review"
	"callintake-platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth        *auth.Manager
	Audit       *audit.Service
	Recordings  recordings.Store
	Extractions extraction.Store
	Clients     clients.Store
	Media       media.BlobStore
	Trigger     *pipeline.Trigger
	Review      *review.Service
	Reports     *reporting.Service
	Notify      notify.Subscriber
}

// maxUploadBytes caps a single audio upload (100 MiB).
const maxUploadBytes = 100 << 20

var allowedAudioExt = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".m4a": {}, ".ogg": {}, ".webm": {}, ".flac": {},
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, role required"})
		return
	}
	if req.Role != rbac.RoleAgent && req.Role != rbac.RoleReviewer && req.Role != rbac.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`

	// Refresh tokens carry no role; until a user store exists the role
	// is re-asserted by the client, same trust model as Login.
	Role string `json:"role"`
}

func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.RefreshToken == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refresh_token, role required"})
		return
	}
	claims, err := h.Auth.Verify(req.RefreshToken, auth.TokenTypeRefresh, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), claims.UserID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Recordings ---

// Upload accepts a multipart audio file, stores the blob, creates the
// recording row and schedules transcription. Returns 202: processing is
// asynchronous and progress arrives via GET /events.
func (h Handlers) Upload(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "audio file required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedAudioExt[ext]; !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unsupported audio format"})
		return
	}

	path, err := h.Media.Save(header.Filename, file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	now := time.Now().UTC()
	rec := recordings.CallRecording{
		ID:         uuid.NewString(),
		UploadedBy: userID,
		FileName:   header.Filename,
		AudioPath:  path,
		Status:     recordings.StatusUploaded,
		UploadedAt: now,
		UpdatedAt:  now,
	}
	if err := h.Recordings.Create(c.Request.Context(), rec); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	if err := h.Trigger.Start(c.Request.Context(), rec.ID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "scheduling failed"})
		return
	}
	c.JSON(http.StatusAccepted, rec)
}

// ListRecordings returns the caller's recordings. Reviewers and admins
// see everything; that is how review work is found.
func (h Handlers) ListRecordings(c *gin.Context) {
	userID, _ := auth.UserID(c.Request.Context())
	role, _ := auth.Role(c.Request.Context())

	owner := userID
	if rbac.IsAdmin(role) || role == rbac.RoleReviewer {
		owner = ""
	}
	recs, err := h.Recordings.List(c.Request.Context(), owner)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": recs})
}

func (h Handlers) GetRecording(c *gin.Context) {
	rec, ok := h.loadVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DownloadAudio streams the stored blob back to the uploader (or a
// reviewer checking the transcript against the source).
func (h Handlers) DownloadAudio(c *gin.Context) {
	rec, ok := h.loadVisible(c)
	if !ok {
		return
	}
	blob, err := h.Media.Open(rec.AudioPath)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "audio not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audio read failed"})
		return
	}
	defer blob.Close()

	c.Header("Content-Disposition", `attachment; filename="`+rec.FileName+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, blob)
}

// Reprocess re-runs the pipeline from the top. 409 when the recording
// is mid-stage or already decided.
func (h Handlers) Reprocess(c *gin.Context) {
	rec, ok := h.loadVisible(c)
	if !ok {
		return
	}
	if err := h.Trigger.Start(c.Request.Context(), rec.ID); err != nil {
		if errors.Is(err, pipeline.ErrNotReprocessable) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "scheduling failed"})
		return
	}

	if h.Audit != nil {
		userID, _ := auth.UserID(c.Request.Context())
		if err := h.Audit.LogReprocess(c.Request.Context(), userID, rec.ID); err != nil {
			logger.FromGin(c).Warn("audit append failed", "recording_id", rec.ID, "err", err)
		}
	}
	c.JSON(http.StatusAccepted, gin.H{"id": rec.ID, "status": recordings.StatusUploaded})
}

// GetExtraction returns the extraction attached to a recording.
func (h Handlers) GetExtraction(c *gin.Context) {
	rec, ok := h.loadVisible(c)
	if !ok {
		return
	}
	ext, err := h.Extractions.GetByRecording(c.Request.Context(), rec.ID)
	if err != nil {
		if errors.Is(err, extraction.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no extraction yet"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, ext)
}

// loadVisible fetches the recording from the :id param and enforces
// visibility: owners always, reviewers and admins for any recording.
func (h Handlers) loadVisible(c *gin.Context) (recordings.CallRecording, bool) {
	id := c.Param("id")
	rec, err := h.Recordings.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, recordings.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		}
		return recordings.CallRecording{}, false
	}

	userID, _ := auth.UserID(c.Request.Context())
	role, _ := auth.Role(c.Request.Context())
	if rec.UploadedBy != userID && !rbac.IsAdmin(role) && role != rbac.RoleReviewer {
		// 404, not 403: do not leak that the recording exists.
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return recordings.CallRecording{}, false
	}
	return rec, true
}

// --- Review ---

type approveRequest struct {
	Edits extraction.Fields `json:"edits"`
	Notes *string           `json:"notes"`
}

type rejectRequest struct {
	Notes *string `json:"notes"`
}

func (h Handlers) Approve(c *gin.Context) {
	actorID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}
	var req approveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}

	ext, client, err := h.Review.Approve(c.Request.Context(), c.Param("id"), review.ApproveRequest{
		Edits: req.Edits,
		Notes: req.Notes,
	}, actorID)
	if err != nil {
		h.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"extraction": ext, "client": client})
}

func (h Handlers) Reject(c *gin.Context) {
	actorID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}
	var req rejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}

	ext, err := h.Review.Reject(c.Request.Context(), c.Param("id"), review.RejectRequest{Notes: req.Notes}, actorID)
	if err != nil {
		h.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"extraction": ext})
}

func (h Handlers) reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, review.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, review.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, extraction.ErrNotFound), errors.Is(err, recordings.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "extraction not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
	}
}

// --- Clients ---

func (h Handlers) ListClients(c *gin.Context) {
	list, err := h.Clients.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": list})
}

// --- Reports ---

// FunnelReport aggregates intake conversion over a time range. from/to
// are RFC 3339 query params; the default window is the last 30 days.
func (h Handlers) FunnelReport(c *gin.Context) {
	now := time.Now().UTC()
	rng := reporting.TimeRange{From: now.AddDate(0, 0, -30), To: now}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be RFC 3339"})
			return
		}
		rng.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be RFC 3339"})
			return
		}
		rng.To = t
	}

	sum, err := h.Reports.FunnelSummary(c.Request.Context(), reporting.FunnelSummaryRequest{Range: rng})
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidRequest) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid time range"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// --- Events ---

// Events streams the caller's notifications as server-sent events.
// Each subscriber only ever sees their own channel; there is no way to
// watch another user's recordings from here.
func (h Handlers) Events(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}

	events, cancel, err := h.Notify.Subscribe(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "subscribe failed"})
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
