package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	CredentialsPath  string        `validate:"required"`
	TokenPath        string        `validate:"required"`
	OAuthRedirectURL string        `validate:"required,url"`
	OAuthTimeout     time.Duration `validate:"gt=0"`
	PackageName      string        `validate:"required"`
	StreamName       string        `validate:"required"`
	StepCount        int64         `validate:"gte=0"`

	// ProjectNumber defaults to the numeric prefix of the OAuth client ID.
	ProjectNumber string `validate:"omitempty,numeric"`
	JournalDir    string
	SpreadsheetID string
	SheetRange    string `validate:"required_with=SpreadsheetID"`
}

var envFiles = []string{".env", ".local/.env"}

func Load() (*Config, error) {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return nil, errors.Wrapf(err, "failed to load %s", path)
			}
		}
	}

	stepCount, err := getEnvInt("FIT_STEP_COUNT", 950)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("FIT_OAUTH_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CredentialsPath:  getEnv("FIT_CREDENTIALS_PATH", ".local/credentials.json"),
		TokenPath:        getEnv("FIT_TOKEN_PATH", ".local/token.json"),
		OAuthRedirectURL: getEnv("FIT_OAUTH_REDIRECT_URL", "http://localhost:8080/callback"),
		OAuthTimeout:     timeout,
		PackageName:      getEnv("FIT_PACKAGE_NAME", "com.digitaldrywood.fitsession"),
		StreamName:       getEnv("FIT_STREAM_NAME", "step count"),
		StepCount:        stepCount,
		ProjectNumber:    os.Getenv("FIT_PROJECT_NUMBER"),
		JournalDir:       os.Getenv("FIT_JOURNAL_DIR"),
		SpreadsheetID:    os.Getenv("FIT_SPREADSHEET_ID"),
		SheetRange:       getEnv("FIT_SHEET_RANGE", "Steps!A:B"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to validate config")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return d, nil
}
