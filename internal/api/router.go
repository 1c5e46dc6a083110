package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/newsroom-dev/newsroom/internal/collector"
	"github.com/newsroom-dev/newsroom/internal/scheduler"
)

type Server struct {
	fetcher      collector.Fetcher
	defaultLimit int
}

func NewServer(f collector.Fetcher, defaultLimit int) *Server {
	return &Server{fetcher: f, defaultLimit: defaultLimit}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/sources", s.listSources)
		v1.GET("/news", s.listNews)
	}
}

type sourceDTO struct {
	Token    string `json:"token"`
	Label    string `json:"label"`
	Endpoint string `json:"endpoint"`
	Feed     bool   `json:"feed"`
}

type errorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type resultDTO struct {
	Source string               `json:"source"`
	Label  string               `json:"label"`
	Items  []collector.NewsItem `json:"items"`
	Error  *errorDTO            `json:"error,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listSources(c *gin.Context) {
	data := lo.Map(collector.AllSources(), func(src collector.Source, _ int) sourceDTO {
		return sourceDTO{
			Token:    src.Token(),
			Label:    src.String(),
			Endpoint: src.Endpoint(),
			Feed:     src.IsFeed(),
		}
	})
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}

func (s *Server) listNews(c *gin.Context) {
	sources := collector.AllSources()
	if token := c.Query("source"); token != "" {
		src, err := collector.ParseSource(token)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "unrecognized_source",
				"message": collector.MessageOf(err),
			})
			return
		}
		sources = []collector.Source{src}
	}

	limit := s.defaultLimit
	if v, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "invalid_limit",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	results := scheduler.RunOnce(c.Request.Context(), s.fetcher, sources, limit)
	data := lo.Map(results, func(r scheduler.Result, _ int) resultDTO {
		dto := resultDTO{
			Source: r.Source.Token(),
			Label:  r.Source.String(),
			Items:  r.Items,
		}
		if dto.Items == nil {
			dto.Items = []collector.NewsItem{}
		}
		if r.Err != nil {
			dto.Error = &errorDTO{
				Code:    string(collector.CodeOf(r.Err)),
				Message: collector.MessageOf(r.Err),
			}
		}
		return dto
	})

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}
