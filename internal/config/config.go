package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr       string
	DBPath           string
	ModelServerURL   string
	ModelName        string
	LabelTablePath   string
	QABackend        string
	QAEndpoint       string
	QAProjectName    string
	QADeploymentName string
	QAKey            string
	ClaudeAPIKey     string
	ClaudeModel      string
	ArchiveBaseURL   string
	RedisAddr        string
	ChatRateLimit    int
	PhotoPath        string
	LogLevel         string
	LogFile          string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present so local runs don't need exported
// variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		DBPath:           getEnv("DB_PATH", "/data/dogchat.db"),
		ModelServerURL:   getEnv("MODEL_SERVER_URL", "http://localhost:8501"),
		ModelName:        getEnv("MODEL_NAME", "dogbreeds"),
		LabelTablePath:   getEnv("LABEL_TABLE_PATH", ""),
		QABackend:        getEnv("QA_BACKEND", "azure"),
		QAEndpoint:       getEnv("QA_ENDPOINT", ""),
		QAProjectName:    getEnv("QA_PROJECT_NAME", "ChatBotDePerros"),
		QADeploymentName: getEnv("QA_DEPLOYMENT_NAME", "production"),
		QAKey:            getEnv("QA_SUBSCRIPTION_KEY", ""),
		ClaudeAPIKey:     getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:      getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		ArchiveBaseURL:   getEnv("ARCHIVE_BASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		ChatRateLimit:    getEnvInt("CHAT_RATE_LIMIT", 60),
		PhotoPath:        getEnv("PHOTO_LOCAL_PATH", "/data/photos"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
