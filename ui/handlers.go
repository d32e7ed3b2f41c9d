package ui

import (
	"fmt"
	"net/http"
	"strconv"

	"pvsynergy/domain/core"
	"pvsynergy/domain/stage"
	"pvsynergy/ports"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleLatestRun(c *gin.Context) {
	m, err := s.reader.LatestRun(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// handleStages lists the stages of the latest run with their summaries
func (s *Server) handleStages(c *gin.Context) {
	m, err := s.reader.LatestRun(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	stages := make([]gin.H, 0, len(m.Stages))
	for _, res := range m.Stages {
		stages = append(stages, gin.H{
			"name":    res.Spec.Name,
			"title":   res.Spec.Name.Title(),
			"file":    res.Spec.OutputFile,
			"summary": res.Summary,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id": m.RunID,
		"stages": stages,
		"count":  len(stages),
	})
}

func (s *Server) handleStageRecords(c *gin.Context) {
	name, err := stage.ParseStageName(c.Param("stage"))
	if err != nil {
		s.fail(c, err)
		return
	}

	q := ports.RecordQuery{}
	for key, target := range map[string]*int{"limit": &q.Limit, "offset": &q.Offset} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s %q", key, raw)})
			return
		}
		*target = n
	}
	if raw := c.Query("reaction"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid reaction %q", raw)})
			return
		}
		q.Reaction = id
	}

	page, err := s.reader.StageRecords(c.Request.Context(), name, q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleReport(c *gin.Context) {
	page, err := s.reader.Report(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// fail maps not-found errors to 404 and everything else to 500
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	if core.IsNotFoundError(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read results"})
}
