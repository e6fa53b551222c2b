package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

// Published CSV exports of the stats workbook. Overridable per source.
const sheetBaseURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQBKVlskmdHsujbUSOK_73O32-atb-RXYaWuqZL6THtbkWrYx8DTH3s8vfmsbxN9mxzBd0FiTzz49KI/pub?single=true&output=csv&gid="

// SheetURLs holds one CSV source per stats sheet. An empty URL means the
// sheet is skipped and its fields fall back to unknown.
type SheetURLs struct {
	Players          string
	Lineups          string
	League           string
	OffRebounding    string
	OppOffRebounding string
	DefRebounding    string
	OppDefRebounding string
	NBAStuffer       string
	PPG              string
	ATS              string
	OverUnder        string
	Ranking          string
	Names            string
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	LogLevel                    logging.Level
	CORSAllowedOrigins          []string
	InternalJobToken            string
	DBURL                       string
	DBDisablePreparedBinary     bool
	SnapshotTTL                 time.Duration
	SheetsTimeout               time.Duration
	SheetsMaxRetries            int
	SheetsMaxBodyBytes          int
	SheetsMaxConcurrency        int
	SheetsCircuitEnabled        bool
	SheetsCircuitFailureCount   int
	SheetsCircuitOpenTimeout    time.Duration
	SheetsCircuitHalfOpenMaxReq int
	Sheets                      SheetURLs
	BatchWorkers                int
	BatchMaxGames               int
	Tuning                      Tuning
	PprofEnabled                bool
	PprofAddr                   string
	UptraceEnabled              bool
	UptraceDSN                  string
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
}

// SavedGamesInMemory reports whether saved games live only for the process
// lifetime.
func (c Config) SavedGamesInMemory() bool {
	return strings.TrimSpace(c.DBURL) == ""
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	readTimeout, err := parsePositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := parsePositiveDuration("APP_WRITE_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	snapshotTTL, err := parsePositiveDuration("SNAPSHOT_TTL", "10m")
	if err != nil {
		return Config{}, err
	}

	sheetsTimeout, err := parsePositiveDuration("SHEETS_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	sheetsMaxRetries, err := getEnvAsInt("SHEETS_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_MAX_RETRIES: %w", err)
	}
	if sheetsMaxRetries < 0 {
		return Config{}, fmt.Errorf("SHEETS_MAX_RETRIES must be >= 0")
	}
	sheetsMaxBodyBytes, err := getEnvAsInt("SHEETS_MAX_BODY_BYTES", 8<<20)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_MAX_BODY_BYTES: %w", err)
	}
	if sheetsMaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("SHEETS_MAX_BODY_BYTES must be > 0")
	}
	sheetsMaxConcurrency, err := getEnvAsInt("SHEETS_MAX_CONCURRENCY", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_MAX_CONCURRENCY: %w", err)
	}
	if sheetsMaxConcurrency < 1 {
		return Config{}, fmt.Errorf("SHEETS_MAX_CONCURRENCY must be >= 1")
	}

	sheetsCircuitEnabled, err := strconv.ParseBool(getEnv("SHEETS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_ENABLED: %w", err)
	}
	sheetsCircuitFailureCount, err := getEnvAsInt("SHEETS_CIRCUIT_FAILURE_COUNT", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if sheetsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	sheetsCircuitOpenTimeout, err := parsePositiveDuration("SHEETS_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	sheetsCircuitHalfOpenMaxReq, err := getEnvAsInt("SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if sheetsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	batchWorkers, err := getEnvAsInt("BATCH_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_WORKERS: %w", err)
	}
	if batchWorkers < 1 {
		return Config{}, fmt.Errorf("BATCH_WORKERS must be >= 1")
	}
	batchMaxGames, err := getEnvAsInt("BATCH_MAX_GAMES", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_MAX_GAMES: %w", err)
	}
	if batchMaxGames < 1 {
		return Config{}, fmt.Errorf("BATCH_MAX_GAMES must be >= 1")
	}

	tuning, err := LoadTuning(strings.TrimSpace(getEnv("TUNING_FILE", "")))
	if err != nil {
		return Config{}, fmt.Errorf("load TUNING_FILE: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "nba-lineup-model-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		ReadTimeout:                 readTimeout,
		WriteTimeout:                writeTimeout,
		LogLevel:                    logLevel,
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:            strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		DBURL:                       strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:     dbDisablePreparedBinary,
		SnapshotTTL:                 snapshotTTL,
		SheetsTimeout:               sheetsTimeout,
		SheetsMaxRetries:            sheetsMaxRetries,
		SheetsMaxBodyBytes:          sheetsMaxBodyBytes,
		SheetsMaxConcurrency:        sheetsMaxConcurrency,
		SheetsCircuitEnabled:        sheetsCircuitEnabled,
		SheetsCircuitFailureCount:   sheetsCircuitFailureCount,
		SheetsCircuitOpenTimeout:    sheetsCircuitOpenTimeout,
		SheetsCircuitHalfOpenMaxReq: sheetsCircuitHalfOpenMaxReq,
		Sheets:                      loadSheetURLs(),
		BatchWorkers:                batchWorkers,
		BatchMaxGames:               batchMaxGames,
		Tuning:                      tuning,
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.HTTPAddr == "" {
		return Config{}, fmt.Errorf("APP_HTTP_ADDR cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if appEnv == EnvProd && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	return cfg, nil
}

func loadSheetURLs() SheetURLs {
	sheet := func(key, gid string) string {
		return strings.TrimSpace(getEnv(key, sheetBaseURL+gid))
	}

	return SheetURLs{
		Players:          sheet("SHEET_PLAYERS_URL", "2033299676"),
		Lineups:          sheet("SHEET_LINEUPS_URL", "975459408"),
		League:           sheet("SHEET_LEAGUE_URL", "1422185850"),
		OffRebounding:    sheet("SHEET_OREB_URL", "1907720061"),
		OppOffRebounding: sheet("SHEET_OPP_OREB_URL", "1902898168"),
		DefRebounding:    sheet("SHEET_DREB_URL", "957131207"),
		OppDefRebounding: sheet("SHEET_OPP_DREB_URL", "32364573"),
		NBAStuffer:       sheet("SHEET_NBASTUFFER_URL", "837216555"),
		PPG:              sheet("SHEET_PPG_URL", "1145033141"),
		ATS:              sheet("SHEET_ATS_URL", "1315673353"),
		OverUnder:        sheet("SHEET_OU_URL", "1968724257"),
		Ranking:          sheet("SHEET_RANKING_URL", "2093071983"),
		Names:            sheet("SHEET_NAMES_URL", "19771105"),
	}
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return value, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
