package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhle/momentum/internal/model"
)

func (s *Server) snapshot(c *gin.Context) {
	snap, err := s.svc.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) listGoals(c *gin.Context) {
	goals, err := s.svc.Goals(c.Request.Context(), c.Query("archived") == "true")
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (s *Server) goalStats(c *gin.Context) {
	goals, err := s.svc.GoalsWithStats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (s *Server) inactiveGoals(c *gin.Context) {
	days := 0
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(c, "days must be a positive integer")
			return
		}
		days = n
	}
	goals, err := s.svc.InactiveGoals(c.Request.Context(), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	c.JSON(http.StatusOK, goals)
}

type createGoalRequest struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

func (s *Server) createGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	goal, err := s.svc.CreateGoal(c.Request.Context(), req.Title, req.Color)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (s *Server) getGoal(c *gin.Context) {
	goal, err := s.svc.Goal(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (s *Server) updateGoal(c *gin.Context) {
	var goal model.Goal
	if err := c.ShouldBindJSON(&goal); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	goal.ID = c.Param("id")
	updated, err := s.svc.UpdateGoal(c.Request.Context(), &goal)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteGoal(c *gin.Context) {
	if err := s.svc.DeleteGoal(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) archiveGoal(c *gin.Context) {
	s.goalAction(c, s.svc.ArchiveGoal)
}

func (s *Server) pauseGoal(c *gin.Context) {
	s.goalAction(c, s.svc.PauseGoal)
}

func (s *Server) resumeGoal(c *gin.Context) {
	s.goalAction(c, s.svc.ResumeGoal)
}

func (s *Server) prestigeGoal(c *gin.Context) {
	s.goalAction(c, s.svc.PrestigeGoal)
}

func (s *Server) goalAction(c *gin.Context, fn func(ctx context.Context, id string) (*model.Goal, error)) {
	goal, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

type reorderRequest struct {
	Position int `json:"position"`
}

func (s *Server) reorderGoal(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Position < 1 {
		badRequest(c, "position must be a positive integer")
		return
	}
	if err := s.svc.ReorderGoal(c.Request.Context(), c.Param("id"), req.Position); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
