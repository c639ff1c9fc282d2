package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/http/response"
	"github.com/skillforge/skillforge-backend/internal/services"
	"github.com/skillforge/skillforge-backend/internal/types"
)

type RoadmapHandler struct {
	roadmapService services.RoadmapService
}

func NewRoadmapHandler(roadmapService services.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{roadmapService: roadmapService}
}

func (rh *RoadmapHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		SkillName string                   `json:"skill_name"`
		Responses []types.QuestionResponse `json:"responses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rm, err := rh.roadmapService.GenerateRoadmap(c.Request.Context(), userID, req.SkillName, req.Responses)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	completed, total := rh.roadmapService.Progress(rm)
	response.RespondCreated(c, gin.H{
		"roadmap":         rm,
		"completed_nodes": completed,
		"total_nodes":     total,
	})
}

func (rh *RoadmapHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	rm, ordered, err := rh.roadmapService.GetRoadmap(c.Request.Context(), userID, roadmapID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	completed, total := rh.roadmapService.Progress(rm)
	response.RespondOK(c, gin.H{
		"roadmap":         rm,
		"ordered_nodes":   ordered,
		"completed_nodes": completed,
		"total_nodes":     total,
	})
}

func (rh *RoadmapHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roadmaps, err := rh.roadmapService.ListRoadmaps(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	type summary struct {
		ID             uuid.UUID `json:"id"`
		SkillName      string    `json:"skill_name"`
		CompletedNodes int       `json:"completed_nodes"`
		TotalNodes     int       `json:"total_nodes"`
		CreatedAt      time.Time `json:"created_at"`
		UpdatedAt      time.Time `json:"updated_at"`
	}
	summaries := make([]summary, 0, len(roadmaps))
	for _, rm := range roadmaps {
		completed, total := rh.roadmapService.Progress(rm)
		summaries = append(summaries, summary{
			ID:             rm.ID,
			SkillName:      rm.SkillName,
			CompletedNodes: completed,
			TotalNodes:     total,
			CreatedAt:      rm.CreatedAt,
			UpdatedAt:      rm.UpdatedAt,
		})
	}
	response.RespondOK(c, gin.H{"roadmaps": summaries})
}

func (rh *RoadmapHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := rh.roadmapService.DeleteRoadmap(c.Request.Context(), userID, roadmapID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "roadmap deleted"})
}

func (rh *RoadmapHandler) ToggleNode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	nodeID := c.Param("nodeId")
	rm, err := rh.roadmapService.ToggleCompletion(c.Request.Context(), userID, roadmapID, nodeID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	completed, total := rh.roadmapService.Progress(rm)
	response.RespondOK(c, gin.H{
		"roadmap":         rm,
		"completed_nodes": completed,
		"total_nodes":     total,
	})
}
