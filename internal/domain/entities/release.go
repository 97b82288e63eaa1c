package entities

// ReleaseRecord is one release of a repository, in the provider's listing
// order (newest first by convention).
type ReleaseRecord struct {
	ID          int64         `json:"id,omitempty"`
	TagName     string        `json:"tag_name"`
	Name        string        `json:"name"`
	Body        string        `json:"body,omitempty"`
	Draft       bool          `json:"draft"`
	Prerelease  bool          `json:"prerelease"`
	PublishedAt string        `json:"published_at,omitempty"`
	ZipballURL  string        `json:"zipball_url,omitempty"`
	TarballURL  string        `json:"tarball_url,omitempty"`
	Assets      []AssetRecord `json:"assets"`
}

// AssetRecord is a downloadable artifact attached to a release.
type AssetRecord struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}
