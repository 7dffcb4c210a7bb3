package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/anseval/anseval/internal/api/http"
	auth "github.com/anseval/anseval/internal/auth/middleware"
	"github.com/anseval/anseval/internal/config"
	"github.com/anseval/anseval/internal/db"
	"github.com/anseval/anseval/internal/grading"
	"github.com/anseval/anseval/internal/ingest"
	"github.com/anseval/anseval/internal/ocr"
	"github.com/anseval/anseval/internal/rbac"
	"github.com/anseval/anseval/internal/sheet"
	"github.com/anseval/anseval/internal/storage"
	"github.com/anseval/anseval/internal/summarize"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := sheet.NewSQLStore(dbh, cfg.DBDriver)

	// --- Collaborators ---
	extractor := ocr.NewTesseract()
	extractor.Bin = cfg.OCRBin
	extractor.Lang = cfg.OCRLang

	var summarizer summarize.Summarizer
	if cfg.GeminiAPIKey != "" {
		summarizer = summarize.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		log.Printf("GEMINI_API_KEY not set; summaries will use fallback text")
	}

	grader := grading.New(store)
	ingestSvc := ingest.NewService(store, extractor, summarizer)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.TeacherPassHash, cfg.StudentPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT -> subject/role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("sheet:upload")).
			Post("/api/upload", api.UploadSheetHandler(ingestSvc, bs))

		pr.Route("/api/answer-key", func(kr chi.Router) {
			kr.With(rbac.Require("key:upload")).
				Post("/upload", api.UploadAnswerKeyHandler(store, grader, extractor, bs))
			kr.With(rbac.RequireAny("key:regrade", "sheet:view-all")).
				Get("/pending/{examCode}", api.ListPendingSheetsHandler(store))
			kr.With(rbac.Require("key:regrade")).
				Post("/evaluate/{examCode}", api.RegradeExamHandler(grader))
		})

		pr.Route("/api/evaluations", func(er chi.Router) {
			er.With(rbac.Require("sheet:view-all")).
				Get("/", api.ListSheetsHandler(store))
			er.With(rbac.Require("sheet:view-all")).
				Get("/{sheetID}", api.GetSheetHandler(store))
			er.With(rbac.Require("sheet:grade")).
				Post("/{sheetID}/evaluate", api.SubmitEvaluationHandler(store))
			er.With(rbac.Require("sheet:grade")).
				Post("/{sheetID}/save-progress", api.SaveProgressHandler(store))
		})

		pr.Route("/api/files", func(fr chi.Router) {
			fr.Use(rbac.Require("sheet:view-all"))
			api.MountFiles(fr, bs)
		})

		pr.With(rbac.RequireAny("sheet:view-own", "sheet:view-all")).
			Get("/api/students/{studentID}/answer-sheets", api.ListStudentSheetsHandler(store))
		pr.With(rbac.RequireAny("sheet:view-own", "sheet:view-all")).
			Get("/api/students/{studentID}/graded", api.ListStudentGradedHandler(store))
	})

	log.Printf("gateway listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
