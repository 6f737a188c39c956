package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

const (
	KeyDarkMode             = "settings.dark_mode"
	KeyNotificationsEnabled = "settings.notifications_enabled"
	KeyLanguage             = "settings.language"

	DefaultLanguage = "en"
)

var settingsKeys = []string{KeyDarkMode, KeyNotificationsEnabled, KeyLanguage}

// Language is a supported interface language.
type Language struct {
	Code string
	Name string
}

// Languages lists the supported languages in display order.
var Languages = []Language{
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"ru", "Russian"},
}

// LanguageName maps a code to its display name; unknown codes read as English.
func LanguageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return Languages[0].Name
}

// Settings is a snapshot of the user preferences.
type Settings struct {
	DarkMode             bool
	NotificationsEnabled bool
	Language             string
}

// DefaultSettings are reported for keys that were never written.
func DefaultSettings() Settings {
	return Settings{DarkMode: false, NotificationsEnabled: true, Language: DefaultLanguage}
}

// SettingsService persists preferences in the settings.* key namespace.
type SettingsService struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewSettingsService(repo metadata.Repository, log logging.Logger) *SettingsService {
	if log == nil {
		log = logging.Nop()
	}
	return &SettingsService{repo: repo, log: log.With("module", "settings")}
}

// Get reads all settings at once. Unreadable values fall back to defaults.
func (s *SettingsService) Get(ctx context.Context) (Settings, error) {
	values, err := s.repo.GetMany(ctx, settingsKeys)
	if err != nil {
		return Settings{}, err
	}

	out := DefaultSettings()
	if v, ok := values[KeyDarkMode]; ok {
		out.DarkMode = s.parseBool(ctx, KeyDarkMode, v, out.DarkMode)
	}
	if v, ok := values[KeyNotificationsEnabled]; ok {
		out.NotificationsEnabled = s.parseBool(ctx, KeyNotificationsEnabled, v, out.NotificationsEnabled)
	}
	if v, ok := values[KeyLanguage]; ok && len(v) > 0 {
		out.Language = string(v)
	}
	return out, nil
}

func (s *SettingsService) SetDarkMode(ctx context.Context, enabled bool) error {
	return s.repo.Set(ctx, KeyDarkMode, []byte(strconv.FormatBool(enabled)))
}

func (s *SettingsService) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	return s.repo.Set(ctx, KeyNotificationsEnabled, []byte(strconv.FormatBool(enabled)))
}

// SetLanguage accepts one of the codes in Languages.
func (s *SettingsService) SetLanguage(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: Language code cannot be empty", common.ErrInvalidInput)
	}
	supported := false
	for _, l := range Languages {
		if l.Code == code {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: Unsupported language code: %s", common.ErrInvalidInput, code)
	}
	return s.repo.Set(ctx, KeyLanguage, []byte(code))
}

// Reset restores the defaults. Other keys, including the session, stay.
func (s *SettingsService) Reset(ctx context.Context) error {
	if err := s.repo.DeleteMany(ctx, settingsKeys); err != nil {
		return err
	}
	s.log.Info(ctx, "settings reset")
	return nil
}

func (s *SettingsService) parseBool(ctx context.Context, key string, v []byte, def bool) bool {
	b, err := strconv.ParseBool(string(v))
	if err != nil {
		s.log.Warn(ctx, "ignoring unreadable setting", "key", key)
		return def
	}
	return b
}
