// Package server hosts the commit history page and receives interaction
// events over HTTP. Every event is applied to one shared session and
// answered with the resulting view.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/commitscope/core"
	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/internal/session"
	"github.com/huangsam/commitscope/schema"
)

const shutdownTimeout = 5 * time.Second

// Server serves one session.
type Server struct {
	sess    *session.Session
	cfg     *contract.Config
	metrics *metrics
	engine  *gin.Engine
}

// New creates the server and its routes. It does not listen.
func New(sess *session.Session, cfg *contract.Config) *Server {
	s := &Server{
		sess:    sess,
		cfg:     cfg,
		metrics: newMetrics(),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	s.initPage(r)
	s.initAPI(r)
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))
	s.engine = r
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		contract.LogInfo("Serving %s on http://%s", s.cfg.Title, s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) initPage(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := s.sess.WritePage(&buf); err != nil {
			sendError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	})

	r.GET("/chart.svg", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := s.sess.WriteSVG(&buf); err != nil {
			sendError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
	})
}

type viewParams struct {
	Rows bool `form:"rows"`
}

type progressParams struct {
	Progress *float64 `json:"progress" binding:"required,min=0,max=100"`
}

type stepParams struct {
	Index *int `json:"index" binding:"required"`
}

type brushParams struct {
	// Rect is null to clear the brush.
	Rect *schema.Rect `json:"rect"`
}

type hoverParams struct {
	// CommitID is empty when the pointer leaves a mark.
	CommitID string  `json:"commit_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

type viewResult struct {
	schema.ViewSnapshot
	Rows []schema.CommitRow `json:"rows,omitempty"`
}

func (s *Server) initAPI(r *gin.Engine) {
	r.GET("/api/view", getP(func(p *viewParams) (any, error) {
		return s.view(p.Rows), nil
	}))

	r.GET("/api/steps", get(func() (any, error) {
		return s.sess.Steps(), nil
	}))

	r.POST("/api/progress", postP(func(p *progressParams) (any, error) {
		return s.apply("progress", func(st *core.State) error {
			return st.SetProgress(*p.Progress)
		}, false)
	}))

	r.POST("/api/step", postP(func(p *stepParams) (any, error) {
		return s.apply("step", func(st *core.State) error {
			return st.EnterStep(*p.Index)
		}, false)
	}))

	r.POST("/api/brush", postP(func(p *brushParams) (any, error) {
		return s.apply("brush", func(st *core.State) error {
			return st.Brush(p.Rect)
		}, true)
	}))

	r.POST("/api/hover", postP(func(p *hoverParams) (any, error) {
		viewport := schema.Size{Width: p.Width, Height: p.Height}
		if viewport.Width <= 0 || viewport.Height <= 0 {
			viewport = schema.Size{Width: s.cfg.Layout.Width, Height: s.cfg.Layout.Height}
		}
		pointer := schema.Point{X: p.X, Y: p.Y}
		return s.apply("hover", func(st *core.State) error {
			return st.Hover(p.CommitID, pointer, viewport)
		}, false)
	}))
}

func (s *Server) view(rows bool) viewResult {
	out := viewResult{ViewSnapshot: s.sess.Snapshot()}
	if rows {
		out.Rows = s.sess.Rows()
	}
	return out
}

func (s *Server) apply(entry string, fn func(st *core.State) error, rows bool) (any, error) {
	res, err := s.sess.Apply(entry, fn)
	if err != nil {
		s.metrics.rejected.WithLabelValues(entry).Inc()
		return nil, err
	}
	s.metrics.reconciliations.WithLabelValues(string(res.Snapshot.Channel)).Inc()
	if res.ViewFailures > 0 {
		s.metrics.viewFailures.WithLabelValues(entry).Add(float64(res.ViewFailures))
	}
	out := viewResult{ViewSnapshot: res.Snapshot}
	if rows {
		out.Rows = res.Rows
	}
	return out, nil
}
