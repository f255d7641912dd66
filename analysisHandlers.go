package main

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"bitbucket.org/mmdatafocus/site_backend/models/analytics"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type analysisAPI struct {
	engine   func() *analytics.Engine
	validate *validator.Validate
	logger   *logrus.Logger
}

type liveDataQuery struct {
	Query string `form:"query" validate:"max=200"`
}

func newAnalysisAPI(engine func() *analytics.Engine, logger *logrus.Logger) *analysisAPI {
	return &analysisAPI{
		engine:   engine,
		validate: validator.New(),
		logger:   logger,
	}
}

func (a *analysisAPI) register(r gin.IRoutes) {
	r.GET("/ceo-analysis", a.getCEOAnalysis)
	r.GET("/ceo-analysis/export", a.exportCEOAnalysis)
	r.GET("/live-data", a.getLiveData)
}

func forceRefreshParam(c *gin.Context) (bool, error) {
	v := c.Query("force_refresh")
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func (a *analysisAPI) getCEOAnalysis(c *gin.Context) {
	force, err := forceRefreshParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "force_refresh must be a boolean"})
		return
	}
	c.JSON(http.StatusOK, a.engine().GetCEOAnalysis(c.Request.Context(), force))
}

func (a *analysisAPI) getLiveData(c *gin.Context) {
	var q liveDataQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at most 200 characters"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a.engine().FetchAllLiveData(c.Request.Context(), q.Query))
}

func (a *analysisAPI) exportCEOAnalysis(c *gin.Context) {
	force, err := forceRefreshParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "force_refresh must be a boolean"})
		return
	}
	payload := a.engine().GetCEOAnalysis(c.Request.Context(), force)

	var buf bytes.Buffer
	if err := analytics.ExportAnalysisExcel(&buf, payload, config.CurrencySymbol()); err != nil {
		if errors.Is(err, utils.ErrorAnalysisUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		config.LogError(a.logger, "server", "exportCEOAnalysis", "write workbook", payload.AnalysisDate, err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=ceo-analysis-"+payload.AnalysisDate+".xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
