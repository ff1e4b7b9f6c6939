package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	ModulePath     string        `mapstructure:"path"`
	BackendURL     string        `mapstructure:"backend_url"`
	BackendToken   string        `mapstructure:"backend_token"`
	BackendTimeout time.Duration `mapstructure:"backend_timeout"`
	AutosaveDelay  time.Duration `mapstructure:"autosave_delay"`
	EditMode       string        `mapstructure:"edit_mode"`
	Persist        string        `mapstructure:"persist"`
	Output         string        `mapstructure:"output"`
	LogMode        string        `mapstructure:"log_mode"`
	LogFile        string        `mapstructure:"log_file"`
	PreviewStyle   string        `mapstructure:"preview_style"`
	QuizProvider   string        `mapstructure:"quiz_provider"`
	QuizDifficulty string        `mapstructure:"quiz_difficulty"`
	AcademicLevel  string        `mapstructure:"academic_level"`
	Subject        string        `mapstructure:"subject"`
	Semester       string        `mapstructure:"semester"`
	ColorAccent    string        `mapstructure:"color_accent"`
	ColorDim       string        `mapstructure:"color_dim"`
	ColorBorder    string        `mapstructure:"color_border"`
	ColorSelected  string        `mapstructure:"color_selected"`
	ColorError     string        `mapstructure:"color_error"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper. A .env file in the working
// directory is loaded into the environment first when present.
func Init() error {
	_ = godotenv.Load()

	viper.SetDefault("path", ".")
	viper.SetDefault("backend_url", "http://localhost:8000")
	viper.SetDefault("backend_token", "")
	viper.SetDefault("backend_timeout", 30*time.Second)
	viper.SetDefault("autosave_delay", 2*time.Second)
	viper.SetDefault("edit_mode", "markdown")
	viper.SetDefault("persist", "file") // file | backend
	viper.SetDefault("output", "print") // print | copy | file
	viper.SetDefault("log_mode", "dev")
	viper.SetDefault("log_file", "coursemd.log")
	viper.SetDefault("preview_style", "dark")
	viper.SetDefault("quiz_provider", "openai")
	viper.SetDefault("quiz_difficulty", "medium")
	viper.SetDefault("academic_level", "undergraduate")
	viper.SetDefault("subject", "")
	viper.SetDefault("semester", "")
	viper.SetDefault("color_accent", "212")
	viper.SetDefault("color_dim", "241")
	viper.SetDefault("color_border", "240")
	viper.SetDefault("color_selected", "236")
	viper.SetDefault("color_error", "9")

	viper.SetConfigName("coursemd")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "coursemd"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("COURSEMD")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// GetPath returns the module path with tilde expansion
func GetPath() string {
	return expandTilde(viper.GetString("path"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetBackendURL returns the base URL of the authoring backend
func GetBackendURL() string {
	return viper.GetString("backend_url")
}

// GetBackendToken returns the bearer token sent to the backend
func GetBackendToken() string {
	return viper.GetString("backend_token")
}

// GetBackendTimeout returns the per-request timeout
func GetBackendTimeout() time.Duration {
	return viper.GetDuration("backend_timeout")
}

// GetAutosaveDelay returns the debounce window for persistence
func GetAutosaveDelay() time.Duration {
	return viper.GetDuration("autosave_delay")
}

// GetEditMode returns the initial page edit mode
func GetEditMode() string {
	return viper.GetString("edit_mode")
}

// GetPersist returns where autosaves go
func GetPersist() string {
	return viper.GetString("persist")
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

func GetLogMode() string {
	return viper.GetString("log_mode")
}

func GetLogFile() string {
	return expandTilde(viper.GetString("log_file"))
}

// GetPreviewStyle returns the glamour style used for terminal previews
func GetPreviewStyle() string {
	return viper.GetString("preview_style")
}

func GetQuizProvider() string {
	return viper.GetString("quiz_provider")
}

func GetQuizDifficulty() string {
	return viper.GetString("quiz_difficulty")
}

func GetAcademicLevel() string {
	return viper.GetString("academic_level")
}

func GetSubject() string {
	return viper.GetString("subject")
}

func GetSemester() string {
	return viper.GetString("semester")
}

// GetColorAccent returns the color for numbers and the cursor
func GetColorAccent() string {
	return viper.GetString("color_accent")
}

func GetColorDim() string {
	return viper.GetString("color_dim")
}

func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetColorSelected returns the background of the highlighted row
func GetColorSelected() string {
	return viper.GetString("color_selected")
}

func GetColorError() string {
	return viper.GetString("color_error")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetPath sets path at runtime
func SetPath(path string) {
	viper.Set("path", path)
	C.ModulePath = path
}

// SetEditMode sets the initial edit mode at runtime
func SetEditMode(mode string) {
	viper.Set("edit_mode", mode)
	C.EditMode = mode
}

// SetPersist sets the persistence target at runtime
func SetPersist(target string) {
	viper.Set("persist", target)
	C.Persist = target
}
