package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhle/momentum/internal/model"
)

func (s *Server) history(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	entries, err := s.svc.History(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// journal serves ?from=YYYY-MM-DD&to=YYYY-MM-DD, defaulting to the last
// seven days.
func (s *Server) journal(c *gin.Context) {
	to := s.svc.Today()
	from := to.AddDays(-6)
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = model.ParseDate(v); err != nil {
			badRequest(c, "from must be YYYY-MM-DD")
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = model.ParseDate(v); err != nil {
			badRequest(c, "to must be YYYY-MM-DD")
			return
		}
	}

	days, err := s.svc.Journal(c.Request.Context(), from, to)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (s *Server) listThemes(c *gin.Context) {
	themes, err := s.svc.Themes(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, themes)
}

type todayThemeResponse struct {
	Theme *model.DailyTheme `json:"theme"`
	Tasks []model.Task      `json:"tasks"`
}

func (s *Server) todayTheme(c *gin.Context) {
	theme, tasks, err := s.svc.ThemeTasks(c.Request.Context(), s.svc.Today())
	if err != nil {
		s.fail(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, todayThemeResponse{Theme: theme, Tasks: tasks})
}

func (s *Server) putTheme(c *gin.Context) {
	var theme model.DailyTheme
	if err := c.ShouldBindJSON(&theme); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	theme.Day = c.Param("day")
	saved, err := s.svc.PutTheme(c.Request.Context(), theme)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) deleteTheme(c *gin.Context) {
	if err := s.svc.DeleteTheme(c.Request.Context(), c.Param("day")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getProfile(c *gin.Context) {
	p, err := s.svc.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) putProfile(c *gin.Context) {
	var p model.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p.UserID = c.Param("id")
	saved, err := s.svc.PutProfile(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

type settingsBody struct {
	InactivityThresholdDays int `json:"inactivity_threshold_days"`
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, settingsBody{InactivityThresholdDays: s.svc.InactivityThreshold()})
}

func (s *Server) putSettings(c *gin.Context) {
	var body settingsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := s.svc.SetInactivityThreshold(body.InactivityThresholdDays); err != nil {
		s.fail(c, err)
		return
	}
	if s.saveSettings != nil {
		if err := s.saveSettings(body.InactivityThresholdDays); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, body)
}

// reset wipes all data, or rebuilds the schema with ?recreate=true.
func (s *Server) reset(c *gin.Context) {
	var err error
	if c.Query("recreate") == "true" {
		err = s.svc.Recreate(c.Request.Context())
	} else {
		err = s.svc.ClearAll(c.Request.Context())
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
