package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"lotsheet/internal/ocr"
)

type Config struct {
	DBPath         string
	RawMailDir     string
	RawManifestDir string
	OutputDir      string
	TemplatePath   string

	OCRLanguage       string
	CropLeftPx        int
	CropTopFrac       float64
	CropBottomFrac    float64
	BinarizeThreshold int

	DefaultBuilding string
	DefaultCategory string

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	MailListenerProvider     string
	MailListenerLabel        string
	MailListenerIntervalSec  int
	MailListenerFetchMax     int
	MailListenerProcessBatch int
	MailListenerAutoExport   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:         getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RawMailDir:     getEnv("MAIL_RAW_DIR", filepath.Join(cwd, "data", "raw")),
		RawManifestDir: getEnv("MANIFEST_RAW_DIR", filepath.Join(cwd, "data", "manifests")),
		OutputDir:      getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		TemplatePath:   getEnv("TEMPLATE_PATH", filepath.Join(cwd, "template.xlsx")),

		OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
		CropLeftPx:        getEnvInt("OCR_CROP_LEFT_PX", 150),
		CropTopFrac:       getEnvFloat("OCR_CROP_TOP_FRAC", 0.25),
		CropBottomFrac:    getEnvFloat("OCR_CROP_BOTTOM_FRAC", 0.90),
		BinarizeThreshold: getEnvInt("OCR_BINARIZE_THRESHOLD", 180),

		DefaultBuilding: getEnv("DEFAULT_BUILDING", ""),
		DefaultCategory: getEnv("DEFAULT_CATEGORY", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		MailListenerProvider:     getEnv("MAIL_LISTENER_PROVIDER", "gmail"),
		MailListenerLabel:        getEnv("MAIL_LISTENER_LABEL", "INBOX"),
		MailListenerIntervalSec:  getEnvInt("MAIL_LISTENER_INTERVAL_SEC", 30),
		MailListenerFetchMax:     getEnvInt("MAIL_LISTENER_FETCH_MAX", 20),
		MailListenerProcessBatch: getEnvInt("MAIL_LISTENER_PROCESS_BATCH", 20),
		MailListenerAutoExport:   getEnvBool("MAIL_LISTENER_AUTO_EXPORT", true),
	}

	return cfg, nil
}

func (c Config) PrepareOptions() ocr.PrepareOptions {
	opts := ocr.DefaultPrepareOptions()
	opts.LeftMarginPx = c.CropLeftPx
	opts.TopFrac = c.CropTopFrac
	opts.BottomFrac = c.CropBottomFrac
	if c.BinarizeThreshold >= 0 && c.BinarizeThreshold <= 255 {
		opts.Threshold = uint8(c.BinarizeThreshold)
	}
	return opts
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
