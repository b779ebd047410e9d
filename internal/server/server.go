package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/glitch-lab/internal/editor"
	"github.com/rm-hull/glitch-lab/internal/export"
	"github.com/rm-hull/glitch-lab/internal/models/effects"
	"github.com/rm-hull/glitch-lab/internal/presets"
	"github.com/rm-hull/glitch-lab/internal/raster"
	"github.com/sirupsen/logrus"
)

const (
	maxAnimationFrames = 30
	defaultFrameDelay  = 0.1
)

// Limits bounds what a single request may make the server allocate.
type Limits struct {
	// UploadBytes caps the encoded request body.
	UploadBytes int64
	// Pixels caps the decoded upload, the display surface, and the summed
	// area of every frame in an animation.
	Pixels int64
}

// Server exposes editor sessions over HTTP. Every session access is posted
// to the editor loop.
type Server struct {
	loop    *editor.Loop
	manager *editor.Manager
	store   presets.Store
	log     logrus.FieldLogger
	limits  Limits
}

func New(loop *editor.Loop, manager *editor.Manager, store presets.Store, limits Limits, logger logrus.FieldLogger) *Server {
	return &Server{
		loop:    loop,
		manager: manager,
		store:   store,
		log:     logger,
		limits:  limits,
	}
}

func (s *Server) Register(r gin.IRouter) {
	v1 := r.Group("/v1")

	sessions := v1.Group("/sessions")
	sessions.POST("", s.createSession)
	sessions.DELETE("/:id", s.deleteSession)
	sessions.PUT("/:id/image", s.putImage)
	sessions.GET("/:id/params", s.getParams)
	sessions.PUT("/:id/params", s.putParams)
	sessions.PUT("/:id/display", s.putDisplay)
	sessions.POST("/:id/reset", s.reset)
	sessions.GET("/:id/preview", s.preview)
	sessions.GET("/:id/export", s.download)
	sessions.GET("/:id/animation", s.animation)
	sessions.POST("/:id/presets/:name", s.saveSessionPreset)
	sessions.POST("/:id/presets/:name/apply", s.applyPreset)

	p := v1.Group("/presets")
	p.GET("", s.listPresets)
	p.GET("/:name", s.getPreset)
	p.PUT("/:name", s.putPreset)
	p.DELETE("/:name", s.deletePreset)
}

// withWorkspace runs fn on the editor loop against the session named in the
// request path.
func (s *Server) withWorkspace(c *gin.Context, fn func(ws *editor.Workspace) error) error {
	var fnErr error
	err := s.loop.Do(c.Request.Context(), func() {
		ws, err := s.manager.Get(c.Param("id"))
		if err != nil {
			fnErr = err
			return
		}
		ws.Session.Touch()
		fnErr = fn(ws)
	})
	if err != nil {
		return err
	}
	return fnErr
}

func (s *Server) abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrNoSession), errors.Is(err, presets.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, presets.ErrInvalidName), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func (s *Server) readUpload(c *gin.Context) (*raster.SourceImage, error) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, s.limits.UploadBytes)
	c.Request.Body = body

	var r io.Reader = body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("image")
		if err != nil {
			return nil, badRequest("missing image field: %v", err)
		}
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, badRequest("failed to read upload: %v", err)
	}
	src, err := raster.DecodeSource(data, s.limits.Pixels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return src, nil
}

func (s *Server) createSession(c *gin.Context) {
	src, err := s.readUpload(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	var id string
	err = s.loop.Do(c.Request.Context(), func() {
		id = s.manager.Create(src).Session.ID
	})
	if err != nil {
		s.abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     id,
		"width":  src.Width(),
		"height": src.Height(),
	})
}

// putImage swaps the session's source for a new upload, keeping the current
// parameters and display size.
func (s *Server) putImage(c *gin.Context) {
	src, err := s.readUpload(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	err = s.withWorkspace(c, func(ws *editor.Workspace) error {
		ws.Session.SetSource(src)
		ws.Scheduler.Schedule()
		return nil
	})
	if err != nil {
		s.abort(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"width":  src.Width(),
		"height": src.Height(),
	})
}

// overLimit reports whether count surfaces of w x h exceed the pixel cap.
func (s *Server) overLimit(count, w, h int) bool {
	return s.limits.Pixels > 0 && int64(count)*int64(w)*int64(h) > s.limits.Pixels
}

func (s *Server) deleteSession(c *gin.Context) {
	var delErr error
	err := s.loop.Do(c.Request.Context(), func() {
		delErr = s.manager.Delete(c.Param("id"))
	})
	if err == nil {
		err = delErr
	}
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getParams(c *gin.Context) {
	var params effects.EffectParameters
	err := s.withWorkspace(c, func(ws *editor.Workspace) error {
		params = ws.Session.Params()
		return nil
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, params)
}

// applyParams is the single parameter-change path: update the session, then
// ask the scheduler for a render.
func applyParams(ws *editor.Workspace, params effects.EffectParameters) {
	ws.Session.SetParams(params)
	ws.Scheduler.Schedule()
}

func (s *Server) putParams(c *gin.Context) {
	params, err := effects.Decode(c.Request.Body)
	if err != nil {
		s.abort(c, badRequest("%v", err))
		return
	}

	err = s.withWorkspace(c, func(ws *editor.Workspace) error {
		applyParams(ws, params)
		return nil
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusAccepted, params)
}

type displaySize struct {
	Width  int `json:"width" binding:"required,min=1,max=8192"`
	Height int `json:"height" binding:"required,min=1,max=8192"`
}

func (s *Server) putDisplay(c *gin.Context) {
	var size displaySize
	if err := c.ShouldBindJSON(&size); err != nil {
		s.abort(c, badRequest("%v", err))
		return
	}
	if s.overLimit(1, size.Width, size.Height) {
		s.abort(c, badRequest("display %dx%d is over %d pixels", size.Width, size.Height, s.limits.Pixels))
		return
	}

	err := s.withWorkspace(c, func(ws *editor.Workspace) error {
		ws.Session.Resize(size.Width, size.Height)
		ws.Scheduler.Schedule()
		return nil
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusAccepted, size)
}

func (s *Server) reset(c *gin.Context) {
	err := s.withWorkspace(c, func(ws *editor.Workspace) error {
		applyParams(ws, effects.Defaults())
		return nil
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// encodeSurface snapshots the display surface as PNG while still on the loop,
// so a later render cannot race with the encoder.
func encodeSurface(ws *editor.Workspace) ([]byte, error) {
	surface := ws.Session.Surface()
	if surface == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, surface); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Server) writeSurface(c *gin.Context, attachment bool) {
	var data []byte
	err := s.withWorkspace(c, func(ws *editor.Workspace) error {
		var err error
		data, err = encodeSurface(ws)
		return err
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	if data == nil {
		c.Status(http.StatusNoContent)
		return
	}
	if attachment {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) preview(c *gin.Context) {
	s.writeSurface(c, false)
}

func (s *Server) download(c *gin.Context) {
	s.writeSurface(c, true)
}

func (s *Server) animation(c *gin.Context) {
	frames, err := strconv.Atoi(c.DefaultQuery("frames", "8"))
	if err != nil || frames < 1 || frames > maxAnimationFrames {
		s.abort(c, badRequest("frames must be between 1 and %d", maxAnimationFrames))
		return
	}
	delay, err := strconv.ParseFloat(c.DefaultQuery("delay", strconv.FormatFloat(defaultFrameDelay, 'f', -1, 64)), 64)
	if err != nil || delay <= 0 || delay > 60 {
		s.abort(c, badRequest("delay must be between 0 and 60 seconds"))
		return
	}

	var images []image.Image
	err = s.withWorkspace(c, func(ws *editor.Workspace) error {
		w, h := ws.Session.DisplaySize()
		if s.overLimit(frames, w, h) {
			return badRequest("%d frames of %dx%d are over %d pixels", frames, w, h, s.limits.Pixels)
		}
		var err error
		images, err = ws.Session.Frames(frames)
		return err
	})
	if err != nil {
		s.abort(c, err)
		return
	}

	data, err := export.Animate(images, delay)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Data(http.StatusOK, "image/apng", data)
}

func (s *Server) saveSessionPreset(c *gin.Context) {
	var params effects.EffectParameters
	err := s.withWorkspace(c, func(ws *editor.Workspace) error {
		params = ws.Session.Params()
		return nil
	})
	if err == nil {
		err = s.store.Save(c.Param("name"), params)
	}
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, params)
}

func (s *Server) applyPreset(c *gin.Context) {
	params, err := s.store.Load(c.Param("name"))
	if err == nil {
		err = s.withWorkspace(c, func(ws *editor.Workspace) error {
			applyParams(ws, params)
			return nil
		})
	}
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusAccepted, params)
}

func (s *Server) listPresets(c *gin.Context) {
	list, err := s.store.List()
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getPreset(c *gin.Context) {
	params, err := s.store.Load(c.Param("name"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, params)
}

func (s *Server) putPreset(c *gin.Context) {
	params, err := effects.Decode(c.Request.Body)
	if err != nil {
		s.abort(c, badRequest("%v", err))
		return
	}
	if err := s.store.Save(c.Param("name"), params); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, params)
}

func (s *Server) deletePreset(c *gin.Context) {
	if err := s.store.Delete(c.Param("name")); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
