package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/handiism/newbeach/internal/audio"
	ioutils "github.com/handiism/newbeach/internal/io"
)

// Namespace modes for OutputDir.
const (
	NamespaceDate     = "date"
	NamespaceDateTime = "datetime"
	NamespaceUUID     = "uuid"
)

// Settings holds all configuration options.
type Settings struct {
	// Discovery settings
	ListingURL     string `json:"listing_url" yaml:"listing_url"`
	LinkPattern    string `json:"link_pattern" yaml:"link_pattern"`
	Limit          int    `json:"limit" yaml:"limit"`
	UserAgent      string `json:"user_agent" yaml:"user_agent"`
	RequestTimeout int    `json:"request_timeout" yaml:"request_timeout"` // seconds

	// Output location
	OutputRoot string `json:"output_root" yaml:"output_root"`
	Namespace  string `json:"namespace" yaml:"namespace"` // date, datetime, uuid or a literal name

	// Download settings
	YtDlpPath        string `json:"ytdlp_path" yaml:"ytdlp_path"`
	AutoInstallYtDlp bool   `json:"auto_install_ytdlp" yaml:"auto_install_ytdlp"`
	Format           string `json:"format" yaml:"format"`
	ExtractAudio     bool   `json:"extract_audio" yaml:"extract_audio"`
	AudioCodec       string `json:"audio_codec" yaml:"audio_codec"`
	WriteThumbnails  bool   `json:"write_thumbnails" yaml:"write_thumbnails"`

	// Metadata files
	AudioExtension   string `json:"audio_extension" yaml:"audio_extension"`
	PlaylistFileName string `json:"playlist_file_name" yaml:"playlist_file_name"`
	TracksFileName   string `json:"tracks_file_name" yaml:"tracks_file_name"`
	FailedFileName   string `json:"failed_file_name" yaml:"failed_file_name"`
	PlaylistFormat   string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls
	M3UExtended      bool   `json:"m3u_extended" yaml:"m3u_extended"`

	// Tag settings
	ModifyTags            bool `json:"modify_tags" yaml:"modify_tags"`
	SaveCoverArtInTags    bool `json:"save_cover_art_in_tags" yaml:"save_cover_art_in_tags"`
	CoverArtInTagsMaxSize int  `json:"cover_art_in_tags_max_size" yaml:"cover_art_in_tags_max_size"`
	KeepThumbnails        bool `json:"keep_thumbnails" yaml:"keep_thumbnails"`
	MaxConcurrentTags     int  `json:"max_concurrent_tags" yaml:"max_concurrent_tags"`

	// Playback settings
	PlayerCommand string `json:"player_command" yaml:"player_command"`
	Play          bool   `json:"play" yaml:"play"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		ListingURL:     "https://www.newgrounds.com/audio",
		LinkPattern:    "/audio/listen/",
		Limit:          10,
		UserAgent:      "Mozilla/5.0",
		RequestTimeout: 30,

		OutputRoot: filepath.Join(homeDir, "music", "newbeach"),
		Namespace:  NamespaceDate,

		Format:          "bestaudio/best",
		ExtractAudio:    false,
		AudioCodec:      "mp3",
		WriteThumbnails: true,

		AudioExtension:   ".mp3",
		PlaylistFileName: "playlist.m3u",
		TracksFileName:   "tracks.txt",
		FailedFileName:   "failed.txt",
		PlaylistFormat:   "m3u",
		M3UExtended:      false,

		ModifyTags:            true,
		SaveCoverArtInTags:    true,
		CoverArtInTagsMaxSize: 500,
		MaxConcurrentTags:     4,

		PlayerCommand: "mpv",
		Play:          true,
	}
}

// Load reads settings from a JSON or YAML file, chosen by extension.
//
// A missing file yields the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Timeout returns the listing request timeout.
func (s *Settings) Timeout() time.Duration {
	if s.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.RequestTimeout) * time.Second
}

// OutputDir returns the batch directory for a run started at now.
//
// The "date" namespace gives MMDD, so runs on the same day share a
// directory; "datetime" and "uuid" give a fresh directory per run. Any
// other namespace is used as the directory name.
func (s *Settings) OutputDir(now time.Time) (string, error) {
	var name string
	switch strings.ToLower(s.Namespace) {
	case "", NamespaceDate:
		name = now.Format("0102")
	case NamespaceDateTime:
		name = now.Format("20060102-150405")
	case NamespaceUUID:
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("failed to generate run id: %w", err)
		}
		name = id.String()
	default:
		name = ioutils.SanitizeFileName(s.Namespace)
		if name == "" || name == "." || name == ".." {
			return "", fmt.Errorf("invalid namespace %q", s.Namespace)
		}
	}

	return filepath.Join(expandHome(s.OutputRoot), name), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

// ToMetadataConfig converts settings to audio.MetadataConfig.
func (s *Settings) ToMetadataConfig() audio.MetadataConfig {
	format := audio.ParsePlaylistFormat(s.PlaylistFormat)

	// The playlist name follows the format unless it names one explicitly.
	playlistFileName := s.PlaylistFileName
	if ext := filepath.Ext(playlistFileName); ext == "" || strings.EqualFold(ext, ".m3u") {
		playlistFileName = strings.TrimSuffix(playlistFileName, ext) + format.Extension()
	}

	return audio.MetadataConfig{
		AudioExtension:   s.AudioExtension,
		PlaylistFileName: playlistFileName,
		TracksFileName:   s.TracksFileName,
		FailedFileName:   s.FailedFileName,
		PlaylistFormat:   format,
		M3UExtended:      s.M3UExtended,
	}
}

// ToTagConfig converts settings to audio.TagConfig.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	return cfg
}
