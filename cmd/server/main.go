package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/hugo-study/backend/internal/auth"
	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/database"
	"github.com/hugo-study/backend/internal/middleware"
	"github.com/hugo-study/backend/internal/study"
	"github.com/rs/cors"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Corpus
	opts := corpus.DefaultOptions()
	if v, ok := os.LookupEnv("MASK_MARKER"); ok {
		opts.MaskMarker = v
	}
	if v, ok := os.LookupEnv("MASK_DISPLAY"); ok {
		opts.MaskDisplay = v
	}
	dataPath := getEnv("DATA_PATH", "data")
	c := corpus.New(dataPath, opts)

	counts, err := c.Stats()
	if err != nil {
		log.Fatalf("Failed to read corpus at %s: %v", dataPath, err)
	}
	for category, n := range counts {
		if n == 0 {
			log.Printf("WARN: corpus partition %s is empty or missing", category)
		}
	}
	log.Printf("Corpus loaded from %s: %v", dataPath, counts)

	// Initialize handlers
	secret := auth.SecretFromEnv()
	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if passwordHash == "" {
		log.Println("WARN: ADMIN_PASSWORD_HASH not set, admin login disabled")
	}
	authHandler := auth.NewHandler(passwordHash, secret)

	studyService := study.NewService(study.NewStore(db), c)
	studyHandler := study.NewHandler(studyService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/participants/", studyHandler.CreateParticipant).Methods("POST")
	api.HandleFunc("/questionnaire", studyHandler.GenerateQuestionnaire).Methods("POST")
	api.HandleFunc("/answers/", studyHandler.SubmitAnswer).Methods("POST")
	api.HandleFunc("/admin/login", authHandler.Login).Methods("POST")

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin(secret))
	admin.HandleFunc("/participants/{id}", studyHandler.GetParticipant).Methods("GET")
	admin.HandleFunc("/answers", studyHandler.ListAnswers).Methods("GET")
	admin.HandleFunc("/stats", studyHandler.Stats).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	cr := cors.New(corsOptions())

	handler := cr.Handler(r)

	port := getEnv("PORT", "8080")
	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// corsOptions allows the study front end to call the API. Admin auth is a
// Bearer header, so no credentialed (cookie) requests are allowed.
func corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: allowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
}

// allowedOrigins reads CORS_ALLOWED_ORIGINS as a comma-separated list.
func allowedOrigins() []string {
	raw := getEnv("CORS_ALLOWED_ORIGINS", "*")
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
