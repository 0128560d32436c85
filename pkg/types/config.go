package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "catalog-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds the location of the catalog content.
type CatalogConfig struct {
	// ContentDir is the directory holding catalog documents (default "content").
	ContentDir string `json:"content_dir" yaml:"content_dir"`

	// Document is the primary catalog document inside ContentDir
	// (default "questions.md").
	Document string `json:"document" yaml:"document"`
}

// RenderFormat selects the render output target.
type RenderFormat string

const (
	RenderHTML     RenderFormat = "html"
	RenderTerminal RenderFormat = "terminal"
)

// RenderConfig holds settings for the render stage.
type RenderConfig struct {
	// OutputDir is the directory for rendered pages (default "site").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// BaseURL, when set, is the absolute base that relative link and image
	// references are resolved against during rendering.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Format selects the output target: html or terminal.
	Format RenderFormat `json:"format" yaml:"format"`

	// Unsafe allows raw HTML in the source to pass through to the output.
	Unsafe bool `json:"unsafe" yaml:"unsafe"`
}

// IndexConfig holds settings for the search index stage.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite index (default "index").
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ImportConfig holds settings for importing a catalog from an HTML page.
type ImportConfig struct {
	HTTPConfig `yaml:",inline"`

	// Selector is the CSS selector matching question headings on the page
	// (default "h2").
	Selector string `json:"selector" yaml:"selector"`

	// OutputPath is the file the imported catalog document is written to.
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// MirrorConfig holds settings for mirroring remote image assets.
type MirrorConfig struct {
	HTTPConfig `yaml:",inline"`

	// AssetsDir is the directory downloaded assets are written to
	// (default "assets").
	AssetsDir string `json:"assets_dir" yaml:"assets_dir"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// AuthToken, when set, is sent as a bearer token with each request.
	AuthToken string `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`
}

// ToolConfig groups all stage configurations.
type ToolConfig struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Index   IndexConfig   `json:"index" yaml:"index"`
	Import  ImportConfig  `json:"import" yaml:"import"`
	Mirror  MirrorConfig  `json:"mirror" yaml:"mirror"`
}
