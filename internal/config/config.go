package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // fs blob store for uploaded sheet files

	// OCR collaborator (tesseract)
	OCRBin  string
	OCRLang string

	// Summarization collaborator (Gemini). Empty key disables summarization;
	// sheets then carry the fallback summary text.
	GeminiAPIKey string
	GeminiModel  string

	// Token signing secret for the local JWT auth.
	AuthHMACSecret string

	// bcrypt hashes for the built-in teacher/student logins.
	TeacherPassHash string
	StudentPassHash string

	CORSOrigins []string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:     addr,
		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./uploads"),

		OCRBin:  envOr("OCR_BIN", "tesseract"),
		OCRLang: envOr("OCR_LANG", "eng"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-1.5-pro"),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),

		// Defaults hash "teacher" / "student"; override outside dev.
		TeacherPassHash: envOr("TEACHER_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		StudentPassHash: envOr("STUDENT_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
