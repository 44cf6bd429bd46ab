package server

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.healthCheckHandler)

	api := s.app.Group("/api/otp")
	api.Post("/request", s.requestOTPHandler)
	api.Post("/verify", s.verifyOTPHandler)
	api.Get("/status/:phone", s.statusHandler)
}
