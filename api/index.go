package handler

import (
	"log"
	"net/http"

	"github.com/arnavshah/shift-calendar-go/internal/app"
	"github.com/gin-gonic/gin"
)

var r *gin.Engine

func init() {
	a, err := app.FromEnv()
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	r = a.Router
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
