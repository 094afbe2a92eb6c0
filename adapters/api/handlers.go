package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabprep/domain/profile"
	"tabprep/domain/table"
	"tabprep/internal/errors"
	"tabprep/internal/prep"
)

type analyzeRequest struct {
	Records table.Dataset `json:"records"`
}

type preprocessRequest struct {
	Records  table.Dataset           `json:"records"`
	Analysis *profile.AnalysisResult `json:"analysis,omitempty"`
	Options  prep.Options            `json:"options"`
}

type preprocessResponse struct {
	Records  table.Dataset           `json:"records"`
	Analysis *profile.AnalysisResult `json:"analysis"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze profiles an inline dataset without storing anything
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.InvalidInput("request body must be JSON with a records array"))
		return
	}

	res, err := s.profiles.Analyze(req.Records)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handlePreprocess transforms an inline dataset. Column typing comes
// from the caller-supplied analysis when present, otherwise a fresh one
// is computed before the pipeline runs.
func (s *Server) handlePreprocess(c *gin.Context) {
	var req preprocessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.InvalidInput("request body must be JSON with a records array"))
		return
	}

	transformed, reanalysis, err := s.prep.PreprocessWith(req.Records, req.Analysis, req.Options)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, preprocessResponse{Records: transformed, Analysis: reanalysis})
}

func (s *Server) fail(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
