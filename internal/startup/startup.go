package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"timelapse-server/internal/logging"
	"timelapse-server/internal/workers"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	OutputFolder    string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	CacheCapacity   int
	FFmpegPath      string
	FFmpegTimeout   time.Duration
	FFmpegWorkers   int
	LogHealthChecks bool
}

const (
	defaultPort          = "8102"
	defaultMetricsPort   = "9090"
	defaultCacheCapacity = 10
	defaultFFmpegTimeout = 5 * time.Minute
)

// LoadConfig loads and validates configuration from environment variables.
// OUTPUT_FOLDER is required and must point at an existing directory of
// frame folders; everything else has a default.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("METRICS_PORT", defaultMetricsPort)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("CACHE_CAPACITY", defaultCacheCapacity)
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("FFMPEG_TIMEOUT", defaultFFmpegTimeout.String())
	v.SetDefault("LOG_HEALTH_CHECKS", false)

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	outputFolder := v.GetString("OUTPUT_FOLDER")
	if outputFolder == "" {
		return nil, fmt.Errorf("OUTPUT_FOLDER is required")
	}

	ffmpegTimeout, err := time.ParseDuration(v.GetString("FFMPEG_TIMEOUT"))
	if err != nil || ffmpegTimeout <= 0 {
		logging.Warn("  Invalid FFMPEG_TIMEOUT %q, using default: %s",
			v.GetString("FFMPEG_TIMEOUT"), defaultFFmpegTimeout)
		ffmpegTimeout = defaultFFmpegTimeout
	}

	cacheCapacity := v.GetInt("CACHE_CAPACITY")
	if cacheCapacity <= 0 {
		logging.Warn("  Invalid CACHE_CAPACITY, using default: %d", defaultCacheCapacity)
		cacheCapacity = defaultCacheCapacity
	}

	config := &Config{
		OutputFolder:    outputFolder,
		Port:            v.GetString("PORT"),
		MetricsPort:     v.GetString("METRICS_PORT"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		CacheCapacity:   cacheCapacity,
		FFmpegPath:      v.GetString("FFMPEG_PATH"),
		FFmpegTimeout:   ffmpegTimeout,
		FFmpegWorkers:   workers.ForCPU(0),
		LogHealthChecks: v.GetBool("LOG_HEALTH_CHECKS"),
	}

	logging.Info("  OUTPUT_FOLDER:     %s", config.OutputFolder)
	logging.Info("  PORT:              %s", config.Port)
	logging.Info("  METRICS_PORT:      %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:   %v", config.MetricsEnabled)
	logging.Info("  CACHE_CAPACITY:    %d", config.CacheCapacity)
	logging.Info("  FFMPEG_PATH:       %s", config.FFmpegPath)
	logging.Info("  FFMPEG_TIMEOUT:    %s", config.FFmpegTimeout)
	logging.Info("  FFMPEG_WORKERS:    %d", config.FFmpegWorkers)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("FRAME SOURCE")
	logging.Info("------------------------------------------------------------")

	config.OutputFolder, err = filepath.Abs(config.OutputFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output folder path: %w", err)
	}
	logging.Info("  Output folder (absolute): %s", config.OutputFolder)

	info, err := os.Stat(config.OutputFolder)
	if err != nil {
		return nil, fmt.Errorf("output folder is not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output folder %s is not a directory", config.OutputFolder)
	}

	if logging.IsDebugEnabled() {
		if entries, err := os.ReadDir(config.OutputFolder); err == nil {
			dirCount := 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				}
			}
			logging.Debug("  Frame folders found: %d", dirCount)
		}
	}

	return config, nil
}

// LogEncoderInit logs encoder initialization and checks that ffmpeg runs
func LogEncoderInit(config *Config) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ENCODER INITIALIZATION")
	logging.Info("------------------------------------------------------------")

	if err := CheckFFmpeg(config.FFmpegPath); err != nil {
		logging.Warn("  FFmpeg check failed: %v", err)
		logging.Warn("  Video generation will fail until ffmpeg is available; zip archives still work")
	} else {
		logging.Info("  [OK] FFmpeg is available")
	}

	logging.Info("  Concurrent encodes: %d", config.FFmpegWorkers)
	logging.Info("  Encode timeout:     %s", config.FFmpegTimeout)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	return parts[0]
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
  _____ _                _
 |_   _(_)_ __  ___ __ _| |__ _ _ __ ______
   | | | | '  \/ -_) _' | / _' | '_ (_-< -_)
   |_| |_|_|_|_\___\__,_|_\__,_| .__/__/___|
                               |_|
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

// CheckFFmpeg verifies the configured ffmpeg binary exists and runs.
func CheckFFmpeg(ffmpegPath string) error {
	path, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return fmt.Errorf("ffmpeg not found at %q", ffmpegPath)
	}
	logging.Debug("  FFmpeg path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get ffmpeg version: %w", err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  FFmpeg version: %s", strings.TrimSpace(lines[0]))
	}

	return nil
}
