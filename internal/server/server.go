package server

import (
	"errors"
	"net/http"

	"github.com/agenthands/genescan/internal/core/reconcile"
	"github.com/agenthands/genescan/internal/core/summary"
	"github.com/agenthands/genescan/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes completed runs read-only. It never starts a pipeline run.
type Server struct {
	Store *store.Store
}

func NewServer(st *store.Store) *Server {
	return &Server{Store: st}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/runs", s.ListRuns)
	r.GET("/runs/:name/summary", s.GetSummary)
	r.GET("/runs/:name/results", s.GetResults)
	r.GET("/compare", s.Compare)

	return r
}

type RunInfo struct {
	Name    string           `json:"name"`
	Summary *summary.Summary `json:"summary,omitempty"`
}

func (s *Server) ListRuns(c *gin.Context) {
	names, err := s.Store.ListRuns()
	if err != nil {
		s.fail(c, "Failed to list runs", err)
		return
	}

	runs := make([]RunInfo, 0, len(names))
	for _, name := range names {
		info := RunInfo{Name: name}
		if r, err := s.Store.Open(name); err == nil {
			// Runs written before summaries existed are listed without one.
			info.Summary, _ = r.Summary()
		}
		runs = append(runs, info)
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) GetSummary(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	sum, err := r.Summary()
	if err != nil {
		s.fail(c, "Failed to read summary", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) GetResults(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	result, err := r.Results()
	if err != nil {
		s.fail(c, "Failed to read results", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) Compare(c *gin.Context) {
	baseline, candidate := c.Query("baseline"), c.Query("candidate")
	if baseline == "" || candidate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "baseline and candidate are required"})
		return
	}
	cmp, err := reconcile.CompareRuns(s.Store, baseline, candidate)
	if errors.Is(err, store.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.fail(c, "Failed to compare runs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"baseline":   baseline,
		"candidate":  candidate,
		"comparison": cmp,
	})
}

func (s *Server) open(c *gin.Context) (*store.RunReader, bool) {
	r, err := s.Store.Open(c.Param("name"))
	if errors.Is(err, store.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return nil, false
	}
	if err != nil {
		s.fail(c, "Failed to open run", err)
		return nil, false
	}
	return r, true
}

func (s *Server) fail(c *gin.Context, msg string, err error) {
	zap.L().Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
