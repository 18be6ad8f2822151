package rpc

import "github.com/gin-gonic/gin"

func (s *Server) registerDashboardMethods() {
	s.register("get_dashboard_kpi", s.getDashboardKPI)
	s.register("get_recent_activities", s.getRecentActivities)
}

func (s *Server) getDashboardKPI(c *gin.Context, kw Kwargs) {
	kpi, err := s.services.Dashboard.KPI(c.Request.Context())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, kpi)
}

func (s *Server) getRecentActivities(c *gin.Context, kw Kwargs) {
	activities, err := s.services.Dashboard.RecentActivities(c.Request.Context(), kw.IntDefault("limit", 10))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, activities)
}
