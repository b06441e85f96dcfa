package mockbackend

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up every API route on the gin router.
func registerRoutes(router *gin.Engine, s *Server) {
	api := router.Group("/api")

	api.GET("/projects/", s.listProjects)
	api.POST("/projects/", s.createProject)
	api.GET("/projects/:id/", s.getProject)
	api.PATCH("/projects/:id/", s.updateProject)
	api.DELETE("/projects/:id/", s.deleteProject)
	api.GET("/projects/:id/export/", s.getProject)

	api.GET("/nodes/", s.listNodes)
	api.POST("/nodes/", s.createNode)
	api.GET("/nodes/:id/", s.getNode)
	api.PATCH("/nodes/:id/", s.updateNode)
	api.DELETE("/nodes/:id/", s.deleteNode)

	api.GET("/edges/", s.listEdges)

	api.POST("/chat/node/:id/", s.chat)
	api.GET("/chat/node/:id/history/", s.chatHistory)

	api.GET("/knowledge/", s.listKnowledge)
	api.POST("/knowledge/", s.uploadKnowledge)
	api.GET("/knowledge/search/", s.searchKnowledge)
	api.DELETE("/knowledge/:id/", s.deleteKnowledge)

	// Health probe target.
	router.HEAD("/admin/", ok)
	router.GET("/admin/", ok)
}

func ok(c *gin.Context) {
	c.Status(http.StatusOK)
}
