// AngelaMos | 2026
// handler.go

package video

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sayan1112/v0-adult-video-website/internal/core"
	"github.com/sayan1112/v0-adult-video-website/internal/media"
	"github.com/sayan1112/v0-adult-video-website/internal/middleware"
)

const (
	uploadFileField   = "video_file"
	multipartMemLimit = 32 << 20
)

type HistoryRecorder interface {
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
}

type Handler struct {
	service        *Service
	media          media.Storage
	history        HistoryRecorder
	maxUploadBytes int64
	uploadTimeout  time.Duration
}

type HandlerConfig struct {
	Media          media.Storage
	History        HistoryRecorder
	MaxUploadBytes int64
	UploadTimeout  time.Duration
}

func NewHandler(service *Service, cfg HandlerConfig) *Handler {
	return &Handler{
		service:        service,
		media:          cfg.Media,
		history:        cfg.History,
		maxUploadBytes: cfg.MaxUploadBytes,
		uploadTimeout:  cfg.UploadTimeout,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/videos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/categories", h.Categories)
		r.Get("/{videoID}", h.Get)
		r.Get("/{videoID}/related", h.Related)
		r.With(optionalAuth).Post("/{videoID}/view", h.View)
		r.Post("/{videoID}/rate", h.Rate)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
			r.Post("/upload", h.Upload)
		})
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/videos", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.AdminList)
		r.Delete("/{videoID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var videos []Video
	switch {
	case strings.TrimSpace(query.Get("q")) != "":
		videos = h.service.Search(r.Context(), query.Get("q"))
	case strings.TrimSpace(query.Get("category")) != "":
		videos = h.service.ByCategory(r.Context(), query.Get("category"))
	default:
		videos = h.service.List(r.Context())
	}

	core.OK(w, toListResponse(videos))
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	core.OK(w, CategoriesResponse{Categories: h.service.Categories(r.Context())})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Get(r.Context(), chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, v)
}

func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.Related(r.Context(), chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, toListResponse(videos))
}

// View counts a view and, for signed-in viewers, records it in their
// watch history.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")

	v, err := h.service.RecordView(r.Context(), videoID)
	if err != nil {
		writeError(w, err)
		return
	}

	if userID := middleware.GetUserID(r.Context()); userID != "" && h.history != nil {
		if err := h.history.AddToWatchHistory(r.Context(), userID, videoID); err != nil {
			slog.WarnContext(r.Context(), "watch history not recorded",
				"user_id", userID,
				"video_id", videoID,
				"error", err,
			)
		}
	}

	core.OK(w, v)
}

func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	var req RateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	v, err := h.service.Rate(r.Context(), chi.URLParam(r, "videoID"), req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, v)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	v, err := h.service.Create(r.Context(), req, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, v)
}

// Upload accepts a multipart form. A video_file part is stored through the
// media storage and its URL used; otherwise video_url is taken as given.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	h.extendDeadlines(w, r)

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.JSONError(w, core.NewAppError(
				core.ErrInvalidInput,
				"upload exceeds the size limit",
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
			))
			return
		}
		core.BadRequest(w, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := CreateVideoRequest{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Category:     r.FormValue("category"),
		VideoURL:     r.FormValue("video_url"),
		ThumbnailURL: r.FormValue("thumbnail_url"),
	}

	file, header, err := r.FormFile(uploadFileField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		file = nil
	case err != nil:
		core.BadRequest(w, "invalid video file")
		return
	}

	if file != nil {
		defer func() { _ = file.Close() }()

		contentType := header.Header.Get("Content-Type")
		if contentType != "" &&
			!strings.HasPrefix(contentType, "video/") &&
			contentType != "application/octet-stream" {
			core.BadRequest(w, "video_file must be a video")
			return
		}

		name := media.ObjectName(header.Filename)

		// Validate before the file is stored.
		req.VideoURL = name
		if err := h.service.Validate(req); err != nil {
			writeError(w, err)
			return
		}

		if h.media == nil {
			core.InternalServerError(w, errors.New("media storage not configured"))
			return
		}

		url, err := h.media.Save(
			r.Context(),
			name,
			contentType,
			file,
		)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		req.VideoURL = url
	}

	v, err := h.service.Create(r.Context(), req, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, v)
}

// extendDeadlines lifts the server-wide read and write deadlines for uploads.
func (h *Handler) extendDeadlines(w http.ResponseWriter, r *http.Request) {
	if h.uploadTimeout <= 0 {
		return
	}

	deadline := time.Now().Add(h.uploadTimeout)
	rc := http.NewResponseController(w)

	if err := rc.SetReadDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.WarnContext(r.Context(), "extend upload read deadline", "error", err)
	}
	if err := rc.SetWriteDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.WarnContext(r.Context(), "extend upload write deadline", "error", err)
	}
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	core.OK(w, toListResponse(h.service.List(r.Context())))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "videoID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "video")
	default:
		core.InternalServerError(w, err)
	}
}
