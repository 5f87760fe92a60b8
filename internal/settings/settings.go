// Package settings persists the process-wide reader preferences.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/rcliao/paperdesk/internal/logging"
	"github.com/rcliao/paperdesk/internal/model"
	"github.com/rcliao/paperdesk/internal/store"
)

// StorageKey is the store record owned by Store.
const StorageKey = "paperdesk.reader-settings"

// Field names a settable preference. Names match the persisted JSON fields.
type Field string

const (
	FieldOpenFileLocation    Field = "openFileLocation"
	FieldDefaultZoomMode     Field = "defaultZoomMode"
	FieldArxivDownloadFolder Field = "arxivDownloadFolder"
	FieldAIEnabled           Field = "aiEnabled"
	FieldAIProvider          Field = "aiProvider"
	FieldAIAPIKey            Field = "aiApiKey"
	FieldAIModel             Field = "aiModel"
)

// Fields lists every settable field in display order.
var Fields = []Field{
	FieldOpenFileLocation,
	FieldDefaultZoomMode,
	FieldArxivDownloadFolder,
	FieldAIEnabled,
	FieldAIProvider,
	FieldAIAPIKey,
	FieldAIModel,
}

var (
	ErrUnknownField = errors.New("unknown settings field")
	ErrInvalidValue = errors.New("invalid settings value")
)

// FolderPicker asks the user for a directory. ok is false when the user
// cancelled.
type FolderPicker interface {
	ChooseDirectory(ctx context.Context) (path string, ok bool, err error)
}

// Store holds the current settings and writes every change through.
type Store struct {
	store store.Store
	log   *log.Logger

	mu      sync.Mutex
	current model.ReaderSettings
}

// New creates a Store and loads the persisted settings.
func New(ctx context.Context, s store.Store, logger *log.Logger) *Store {
	st := &Store{
		store:   s,
		log:     logging.OrDiscard(logger).With("component", "settings"),
		current: model.DefaultReaderSettings(),
	}
	st.Load(ctx)
	return st
}

// Load re-reads the persisted settings. A missing record, a parse failure or
// an invalid openFileLocation yields the full defaults; the stored blob is
// not merged in that case.
func (s *Store) Load(ctx context.Context) model.ReaderSettings {
	loaded := s.read(ctx)
	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return loaded
}

func (s *Store) read(ctx context.Context) model.ReaderSettings {
	raw, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("read settings", "err", err)
		}
		return model.DefaultReaderSettings()
	}

	var parsed model.ReaderSettings
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Warn("discard malformed settings", "err", err)
		return model.DefaultReaderSettings()
	}
	if !model.ValidOpenFileLocations[parsed.OpenFileLocation] {
		s.log.Warn("discard settings with invalid open location", "openFileLocation", parsed.OpenFileLocation)
		return model.DefaultReaderSettings()
	}
	if !model.ValidDefaultZoomModes[parsed.DefaultZoomMode] {
		parsed.DefaultZoomMode = model.DefaultReaderSettings().DefaultZoomMode
	}
	return parsed
}

// Current returns the in-memory settings.
func (s *Store) Current() model.ReaderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save replaces the settings and persists them. A failed write is logged;
// the new settings stay in effect for the running process.
func (s *Store) Save(ctx context.Context, settings model.ReaderSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
	s.persist(ctx)
}

// Reset restores and persists the defaults.
func (s *Store) Reset(ctx context.Context) model.ReaderSettings {
	d := model.DefaultReaderSettings()
	s.Save(ctx, d)
	return d
}

// SetField parses value for field and persists the change. It reports
// whether anything changed; setting a field to its current value is a no-op.
func (s *Store) SetField(ctx context.Context, field Field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	if err := apply(&next, field, value); err != nil {
		return false, err
	}
	if next == s.current {
		return false, nil
	}
	s.current = next
	s.persist(ctx)
	return true, nil
}

// ChooseDownloadFolder asks picker for a directory and stores it as the
// download folder. A cancelled dialog changes nothing.
func (s *Store) ChooseDownloadFolder(ctx context.Context, picker FolderPicker) (bool, error) {
	path, ok, err := picker.ChooseDirectory(ctx)
	if err != nil {
		return false, fmt.Errorf("choose directory: %w", err)
	}
	if !ok || path == "" {
		return false, nil
	}
	return s.SetField(ctx, FieldArxivDownloadFolder, path)
}

// Value returns the string form of field in settings.
func Value(settings model.ReaderSettings, field Field) (string, error) {
	switch field {
	case FieldOpenFileLocation:
		return string(settings.OpenFileLocation), nil
	case FieldDefaultZoomMode:
		return string(settings.DefaultZoomMode), nil
	case FieldArxivDownloadFolder:
		return settings.ArxivDownloadFolder, nil
	case FieldAIEnabled:
		return strconv.FormatBool(settings.AIEnabled), nil
	case FieldAIProvider:
		return settings.AIProvider, nil
	case FieldAIAPIKey:
		return settings.AIAPIKey, nil
	case FieldAIModel:
		return settings.AIModel, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownField, field)
}

func apply(s *model.ReaderSettings, field Field, value string) error {
	switch field {
	case FieldOpenFileLocation:
		v := model.OpenFileLocation(value)
		if !model.ValidOpenFileLocations[v] {
			return fmt.Errorf("%w %q for %s (valid: last_read_page, first_page)", ErrInvalidValue, value, field)
		}
		s.OpenFileLocation = v
	case FieldDefaultZoomMode:
		v := model.DefaultZoomMode(value)
		if !model.ValidDefaultZoomModes[v] {
			return fmt.Errorf("%w %q for %s (valid: fit_width, fixed_100, remember_last)", ErrInvalidValue, value, field)
		}
		s.DefaultZoomMode = v
	case FieldArxivDownloadFolder:
		s.ArxivDownloadFolder = value
	case FieldAIEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w %q for %s", ErrInvalidValue, value, field)
		}
		s.AIEnabled = b
	case FieldAIProvider:
		s.AIProvider = value
	case FieldAIAPIKey:
		s.AIAPIKey = value
	case FieldAIModel:
		s.AIModel = value
	default:
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	return nil
}

// persist writes current. Caller holds mu.
func (s *Store) persist(ctx context.Context) {
	b, err := json.Marshal(s.current)
	if err != nil {
		s.log.Error("encode settings", "err", err)
		return
	}
	if err := s.store.Set(ctx, StorageKey, string(b)); err != nil {
		s.log.Warn("write settings", "err", err)
	}
}
