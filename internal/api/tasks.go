package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/model"
)

// boolQuery parses an optional true/false query parameter.
func boolQuery(c *gin.Context, name string) (*bool, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, false
	}
	return &b, true
}

func (s *Server) listTasks(c *gin.Context) {
	q := app.TaskQuery{
		DueToday:     c.Query("due") == "today",
		IncludeQuiet: c.Query("quiet") == "true",
		SortBy:       c.Query("sort"),
	}
	if goal := c.Query("goal"); goal != "" {
		q.GoalID = &goal
	}
	var ok bool
	if q.Completed, ok = boolQuery(c, "completed"); !ok {
		badRequest(c, "completed must be true or false")
		return
	}
	if q.Archived, ok = boolQuery(c, "archived"); !ok {
		badRequest(c, "archived must be true or false")
		return
	}

	tasks, err := s.svc.Tasks(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c *gin.Context) {
	var in model.Task
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	task, err := s.svc.CreateTask(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

type quickAddRequest struct {
	Text   string  `json:"text"`
	GoalID *string `json:"goal_id"`
}

func (s *Server) quickAdd(c *gin.Context) {
	var req quickAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	task, err := s.svc.QuickAdd(c.Request.Context(), req.Text, req.GoalID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.svc.Task(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) updateTask(c *gin.Context) {
	var in model.Task
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	in.ID = c.Param("id")
	task, err := s.svc.UpdateTask(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.svc.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) completeTask(c *gin.Context) {
	res, err := s.completions.CompleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) archiveTask(c *gin.Context) {
	task, err := s.svc.ArchiveTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type dependencyRequest struct {
	DependsOn string `json:"depends_on"`
}

func (s *Server) addDependency(c *gin.Context) {
	var req dependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DependsOn == "" {
		badRequest(c, "depends_on is required")
		return
	}
	task, err := s.svc.AddDependency(c.Request.Context(), c.Param("id"), req.DependsOn)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) removeDependency(c *gin.Context) {
	task, err := s.svc.RemoveDependency(c.Request.Context(), c.Param("id"), c.Param("dep"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) taskStreak(c *gin.Context) {
	h, err := s.svc.TaskStreak(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) entityHistory(c *gin.Context) {
	entries, err := s.svc.EntityHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
