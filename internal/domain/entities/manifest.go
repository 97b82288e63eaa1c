package entities

// UploadManifest is the final payload handed to the item store: the
// deterministic identifier, the flat item metadata, and the resolved
// uploadKey -> sourcePath mapping.
type UploadManifest struct {
	Identifier string
	Title      string
	Metadata   map[string]string
	Files      map[string]string // upload key -> absolute source path
}
