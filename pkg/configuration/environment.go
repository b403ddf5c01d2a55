package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"backoffice"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type ImportOptions struct {
	// Scorer selects the similarity backend for duplicate reconciliation:
	// "local" (fuzzy matching in-process) or "openai".
	Scorer            string        `env:"IMPORT_SCORER" envDefault:"local"`
	SessionTTL        time.Duration `env:"IMPORT_SESSION_TTL" envDefault:"30m"`
	MaxRows           int           `env:"IMPORT_MAX_ROWS" envDefault:"10000"`
	DuplicateCutoff   float64       `env:"IMPORT_DUPLICATE_CUTOFF" envDefault:"0.72"`
	AmbiguousCutoff   float64       `env:"IMPORT_AMBIGUOUS_CUTOFF" envDefault:"0.85"`
	MaxCandidates     int           `env:"IMPORT_MAX_CANDIDATES" envDefault:"10"`
	OpenAIModel       string        `env:"IMPORT_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAITimeout     time.Duration `env:"IMPORT_OPENAI_TIMEOUT" envDefault:"25s"`
	PlaceholderClient string        `env:"IMPORT_PLACEHOLDER_CLIENT" envDefault:"unspecified"`
}

func (o *ImportOptions) Validate() error {
	switch o.Scorer {
	case "local", "openai":
	default:
		return fmt.Errorf("invalid IMPORT_SCORER=%q (expected local|openai)", o.Scorer)
	}
	if o.DuplicateCutoff <= 0 || o.DuplicateCutoff > 1 {
		return fmt.Errorf("IMPORT_DUPLICATE_CUTOFF must be in (0, 1], got %v", o.DuplicateCutoff)
	}
	if o.AmbiguousCutoff < o.DuplicateCutoff || o.AmbiguousCutoff > 1 {
		return fmt.Errorf("IMPORT_AMBIGUOUS_CUTOFF must be in [duplicate cutoff, 1], got %v", o.AmbiguousCutoff)
	}
	if o.MaxRows <= 0 {
		return fmt.Errorf("IMPORT_MAX_ROWS must be positive, got %d", o.MaxRows)
	}
	return nil
}

type Configuration struct {
	Database DatabaseOptions
	Import   ImportOptions

	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	OpenAIKey        string `env:"OPENAI_KEY"`
	MaxUploadSize    int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:""`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	c.Import.Scorer = strings.ToLower(strings.TrimSpace(c.Import.Scorer))
	if err := c.Import.Validate(); err != nil {
		return fmt.Errorf("import configuration error: %w", err)
	}
	if c.Import.Scorer == "openai" && strings.TrimSpace(c.OpenAIKey) == "" {
		return fmt.Errorf("IMPORT_SCORER=openai requires OPENAI_KEY")
	}

	logger := logrus.New()
	logger.SetLevel(c.LogrusLogLevel())
	logger.SetFormatter(&logrus.JSONFormatter{})
	if c.LogPath != "" {
		f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		c.logFile = f
		logger.SetOutput(f)
	}
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
