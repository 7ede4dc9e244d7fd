package consent

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/crashkit/errors"
	"github.com/grovetools/crashkit/logging"
)

// SettingsFilename is the name of the settings file kept inside the
// crash-dump directory, alongside the report database.
const SettingsFilename = "settings.toml"

// Settings is the on-disk shape of the consent store.
type Settings struct {
	// UploadsEnabled mirrors the user's consent to transmit reports.
	UploadsEnabled bool `toml:"uploads_enabled"`
	// ClientID is a stable random identifier generated on first write,
	// attached by the upload backend to correlate reports.
	ClientID string `toml:"client_id"`
}

// FileStore persists consent in a TOML settings file. Writes use a
// temp-file-and-rename so a concurrent reader sees either the old or
// the new settings, never a partial file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *logrus.Entry
}

// NewFileStore creates a FileStore rooted at the given crash-dump
// directory. The directory does not need to exist yet.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		path:   filepath.Join(dir, SettingsFilename),
		logger: logging.NewLogger("consent"),
	}
}

// Path returns the settings file path.
func (f *FileStore) Path() string {
	return f.path
}

// SetConsent records consent on disk. Write failures are logged and
// swallowed: consent handling must never take down the host process.
func (f *FileStore) SetConsent(upload bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	settings := f.load()
	settings.UploadsEnabled = upload
	if settings.ClientID == "" {
		settings.ClientID = newClientID()
	}
	if err := f.save(settings); err != nil {
		f.logger.WithError(err).Error("Failed to persist upload consent")
	}
}

// GetConsent returns the persisted consent value, false when the
// settings file is missing or unreadable.
func (f *FileStore) GetConsent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load().UploadsEnabled
}

// ClientID returns the persisted client identifier, generating and
// persisting one if the settings file does not have one yet.
func (f *FileStore) ClientID() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	settings := f.load()
	if settings.ClientID == "" {
		settings.ClientID = newClientID()
		if err := f.save(settings); err != nil {
			f.logger.WithError(err).Error("Failed to persist client ID")
		}
	}
	return settings.ClientID
}

func (f *FileStore) load() Settings {
	var settings Settings
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.WithError(err).Warn("Failed to read settings file")
		}
		return settings
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		f.logger.WithError(err).Warn("Settings file is corrupt, starting fresh")
		return Settings{}
	}
	return settings
}

func (f *FileStore) save(settings Settings) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.StoreWriteFailed(f.path, err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return errors.StoreWriteFailed(f.path, err)
	}

	tempFile := f.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return errors.StoreWriteFailed(f.path, err)
	}
	if err := os.Rename(tempFile, f.path); err != nil {
		_ = os.Remove(tempFile)
		return errors.StoreWriteFailed(f.path, err)
	}
	return nil
}

func newClientID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(buf)
}
