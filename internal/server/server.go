package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"campus-connect-backend/internal/auth"
	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/realtime"
	"campus-connect-backend/internal/storage"
)

// Server bundles the shared dependencies every route handler needs.
type Server struct {
	DB        *database.DBinstanceStruct
	Storage   storage.Client
	Hub       *realtime.Hub
	Blacklist auth.JwtBlacklistStore
}

// New constructs a Server over an already connected database, bucket
// client, realtime hub and token blacklist.
func New(db *database.DBinstanceStruct, store storage.Client, hub *realtime.Hub, blacklist auth.JwtBlacklistStore) *Server {
	return &Server{
		DB:        db,
		Storage:   store,
		Hub:       hub,
		Blacklist: blacklist,
	}
}

// HTTPServer wraps the registered routes in an http.Server listening on
// PORT. WriteTimeout stays unset because the status stream keeps its
// response open for as long as the client stays connected.
func (s *Server) HTTPServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))

	return &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     s.RegisterRoutes(),
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
	}
}
