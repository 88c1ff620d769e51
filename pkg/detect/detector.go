// Package detect probes the machine for user folders, cloud-sync folders,
// and known third-party app folders, and persists what it finds as a JSON
// snapshot so later runs can reuse the results.
package detect

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sources a detected path can come from.
const (
	SourceUserProfile = "user-profile"
	SourceCloudSync   = "cloud-sync"
	SourceThirdParty  = "third-party"
)

// DetectedPath is one confirmed-to-exist folder.
type DetectedPath struct {
	Path       string    `json:"path"`
	Source     string    `json:"source"`
	Language   string    `json:"language"`
	DetectedAt time.Time `json:"detected_at"`
}

// Config holds the environment the detector probes against.
type Config struct {
	Home     string
	Username string
	Platform string
	DataDir  string // snapshot directory; empty disables persistence
	Logger   zerolog.Logger
}

// Detector runs existence-only probes over candidate folders. Detection is
// idempotent: repeated StartDetection calls return the first run's result.
type Detector struct {
	cfg    Config
	logger zerolog.Logger

	mu     sync.Mutex
	result map[string][]DetectedPath
}

// probe is one candidate folder to check.
type probe struct {
	category string
	path     string
	source   string
	language string
}

// NewDetector creates a detector for the given environment.
func NewDetector(cfg Config) *Detector {
	return &Detector{
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "detect").Logger(),
	}
}

// StartDetection probes all candidates and returns detected paths grouped
// by category. Each probe is isolated: one failing stat never aborts the
// scan. The result is persisted as a snapshot when DataDir is set.
func (d *Detector) StartDetection(ctx context.Context) map[string][]DetectedPath {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.result != nil {
		return d.result
	}

	found := make(map[string][]DetectedPath)
	for _, p := range d.candidates() {
		select {
		case <-ctx.Done():
			d.logger.Warn().Msg("Detection cancelled, returning partial result")
			d.result = found
			return found
		default:
		}

		if !dirExists(p.path) {
			continue
		}

		found[p.category] = append(found[p.category], DetectedPath{
			Path:       p.path,
			Source:     p.source,
			Language:   p.language,
			DetectedAt: time.Now(),
		})
	}

	d.logger.Info().
		Int("categories", len(found)).
		Msg("Path detection finished")

	if d.cfg.DataDir != "" {
		if err := SaveSnapshot(d.snapshotPath(), NewSnapshot(d.cfg.Platform, d.cfg.Username, found)); err != nil {
			d.logger.Warn().Err(err).Msg("Failed to persist detection snapshot")
		}
	}

	d.result = found
	return found
}

// Result returns the last detection result, nil before the first run.
func (d *Detector) Result() map[string][]DetectedPath {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result
}

// Seed installs a prior result, typically one loaded from a snapshot, so
// Result and later StartDetection calls reuse it. A result from an actual
// run is never overwritten.
func (d *Detector) Seed(result map[string][]DetectedPath) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.result == nil {
		d.result = result
	}
}

// snapshotPath is where the detector persists its findings.
func (d *Detector) snapshotPath() string {
	return filepath.Join(d.cfg.DataDir, "detected-paths.json")
}

// candidates lists every folder worth probing, ordered user-profile first,
// then cloud-sync services, then third-party app folders.
func (d *Detector) candidates() []probe {
	var probes []probe

	join := d.joiner()

	// Base user-profile folders, English and localized physical names.
	userFolders := []struct {
		category string
		en       string
		ko       string
	}{
		{"desktop", "Desktop", "바탕화면"},
		{"documents", "Documents", "문서"},
		{"downloads", "Downloads", "다운로드"},
		{"pictures", "Pictures", "사진"},
		{"music", "Music", "음악"},
		{"videos", "Videos", "동영상"},
	}

	for _, f := range userFolders {
		probes = append(probes,
			probe{f.category, join(d.cfg.Home, f.en), SourceUserProfile, "en"},
			probe{f.category, join(d.cfg.Home, f.ko), SourceUserProfile, "ko"},
		)
	}

	// Cloud-sync folders, including the regional OneDrive suffixes.
	cloudFolders := []struct {
		category string
		name     string
		language string
	}{
		{"onedrive", "OneDrive", "en"},
		{"onedrive", "OneDrive - Personal", "en"},
		{"onedrive", "OneDrive - 개인용", "ko"},
		{"dropbox", "Dropbox", "en"},
		{"googledrive", "Google Drive", "en"},
		{"icloud", "iCloudDrive", "en"},
	}

	for _, f := range cloudFolders {
		probes = append(probes, probe{f.category, join(d.cfg.Home, f.name), SourceCloudSync, f.language})
	}
	if d.cfg.Platform == "darwin" {
		probes = append(probes, probe{
			"icloud",
			join(d.cfg.Home, "Library", "Mobile Documents", "com~apple~CloudDocs"),
			SourceCloudSync,
			"en",
		})
	}

	// Third-party app folders.
	probes = append(probes,
		probe{"kakaotalk_received", join(d.cfg.Home, "Documents", "카카오톡 받은 파일"), SourceThirdParty, "ko"},
		probe{"kakaotalk_received", join(d.cfg.Home, "Documents", "KakaoTalk Received Files"), SourceThirdParty, "en"},
		probe{"telegram_received", join(d.cfg.Home, "Downloads", "Telegram Desktop"), SourceThirdParty, "en"},
	)

	return probes
}

// joiner picks the path separator style matching the configured platform,
// not the build platform, so snapshots read naturally for their machine.
func (d *Detector) joiner() func(parts ...string) string {
	if d.cfg.Platform == "windows" {
		return func(parts ...string) string {
			return strings.Join(parts, `\`)
		}
	}
	return func(parts ...string) string {
		return path.Join(parts...)
	}
}

// dirExists is an isolated existence-only probe.
func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
