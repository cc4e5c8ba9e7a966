package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	studentsHandler := handlers.NewStudentsHandler(s.store)
	subjectsHandler := handlers.NewSubjectsHandler(s.store)
	attendanceHandler := handlers.NewAttendanceHandler(s.store)
	exportHandler := handlers.NewExportHandler(s.store)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Students (roster + face descriptors)
		r.Get("/students", studentsHandler.List)
		r.Post("/students", studentsHandler.Upsert)
		r.Delete("/students", studentsHandler.Clear)
		r.Delete("/students/{roll}", studentsHandler.Delete)

		// Subjects
		r.Get("/subjects", subjectsHandler.List)
		r.Post("/subjects", subjectsHandler.Create)

		// Attendance
		r.Post("/attendance", attendanceHandler.Mark)
		r.Delete("/attendance", attendanceHandler.DeleteAll)
		r.Delete("/attendance/today", attendanceHandler.DeleteToday)
		r.Get("/attendance/{subject}/{date}", attendanceHandler.Query)

		// Exports
		r.Get("/export", exportHandler.Bundle)
		r.Get("/export/{subject}", exportHandler.Sheet)
		r.Get("/export/{subject}/xlsx", exportHandler.SheetXLSX)
	})
}
