package internal

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/arbor/internal/builder"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Workspace WorkspaceConfig   `yaml:"workspace"`
	Tree      TreeConfig        `yaml:"tree"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Workspace.Validate(); err != nil {
		return err
	}
	if err := c.Tree.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// WorkspaceConfig holds the scanned directory and the path hints fed to the
// tree builder.
type WorkspaceConfig struct {
	Path                string   `yaml:"path"`
	StripPrefixes       []string `yaml:"strip_prefixes"`
	SourceRoots         []string `yaml:"source_roots"`
	SelectedDirectories []string `yaml:"selected_directories"`
	WatchDebounceMS     int      `yaml:"watch_debounce_ms"`
}

// Validate validates the workspace configuration.
func (c *WorkspaceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.WatchDebounceMS, validation.Min(0)),
	)
}

// TreeConfig holds the build options exposed through configuration.
type TreeConfig struct {
	Profile                       string `yaml:"profile"`
	RootFolderLabel               string `yaml:"root_folder_label"`
	ExpandFoldersByDefault        bool   `yaml:"expand_folders_by_default"`
	SelectNewFilesByDefault       bool   `yaml:"select_new_files_by_default"`
	PreferDeepestRoot             bool   `yaml:"prefer_deepest_root"`
	SortChildrenByName            bool   `yaml:"sort_children_by_name"`
	AutoPickVisibleRoot           bool   `yaml:"auto_pick_visible_root"`
	VisibleRootMaxHoistLevels     int    `yaml:"visible_root_max_hoist_levels"`
	VisibleRootIgnoreVirtualFiles bool   `yaml:"visible_root_ignore_virtual_files"`
	MergeVirtualIntoRealFolders   bool   `yaml:"merge_virtual_into_real_folders"`
	CaseInsensitivePaths          bool   `yaml:"case_insensitive_paths"`
	AutoComputeAnchors            bool   `yaml:"auto_compute_anchors"`
	OmitContainerRowAtRoot        bool   `yaml:"omit_container_row_at_root"`
}

// Validate validates the tree configuration.
func (c *TreeConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Profile, validation.Required),
		validation.Field(&c.RootFolderLabel, validation.Required),
	); err != nil {
		return err
	}
	if strings.ContainsRune(c.RootFolderLabel, '/') {
		return fmt.Errorf("tree: root_folder_label must not contain %q", "/")
	}
	return nil
}

// SQLiteConfig holds the UI-state database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// BuildOptions maps the configuration onto the builder's option set.
func (c *Config) BuildOptions() builder.Options {
	return builder.Options{
		SourceRoots:                   c.Workspace.SourceRoots,
		SelectedDirectories:           c.Workspace.SelectedDirectories,
		StripPrefixes:                 c.Workspace.StripPrefixes,
		RootFolderLabel:               c.Tree.RootFolderLabel,
		ExpandFoldersByDefault:        c.Tree.ExpandFoldersByDefault,
		SelectNewFilesByDefault:       c.Tree.SelectNewFilesByDefault,
		PreferDeepestRoot:             c.Tree.PreferDeepestRoot,
		SortChildrenByName:            c.Tree.SortChildrenByName,
		AutoPickVisibleRoot:           c.Tree.AutoPickVisibleRoot,
		VisibleRootMaxHoistLevels:     c.Tree.VisibleRootMaxHoistLevels,
		VisibleRootIgnoreVirtualFiles: c.Tree.VisibleRootIgnoreVirtualFiles,
		MergeVirtualIntoRealFolders:   c.Tree.MergeVirtualIntoRealFolders,
		CaseInsensitivePaths:          c.Tree.CaseInsensitivePaths,
		AutoComputeAnchors:            c.Tree.AutoComputeAnchors,
		OmitContainerRowAtRoot:        c.Tree.OmitContainerRowAtRoot,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
// The tree defaults mirror builder.DefaultOptions.
func NewDefaultConfig() *Config {
	opts := builder.DefaultOptions()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Workspace: WorkspaceConfig{
			Path:            "./workspace",
			WatchDebounceMS: 200,
		},
		Tree: TreeConfig{
			Profile:                       "default",
			RootFolderLabel:               opts.RootFolderLabel,
			ExpandFoldersByDefault:        opts.ExpandFoldersByDefault,
			SelectNewFilesByDefault:       opts.SelectNewFilesByDefault,
			PreferDeepestRoot:             opts.PreferDeepestRoot,
			SortChildrenByName:            opts.SortChildrenByName,
			AutoPickVisibleRoot:           opts.AutoPickVisibleRoot,
			VisibleRootMaxHoistLevels:     opts.VisibleRootMaxHoistLevels,
			VisibleRootIgnoreVirtualFiles: opts.VisibleRootIgnoreVirtualFiles,
			MergeVirtualIntoRealFolders:   opts.MergeVirtualIntoRealFolders,
			CaseInsensitivePaths:          opts.CaseInsensitivePaths,
			AutoComputeAnchors:            opts.AutoComputeAnchors,
			OmitContainerRowAtRoot:        opts.OmitContainerRowAtRoot,
		},
		SQLite: SQLiteConfig{
			Path: "./arbor.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
