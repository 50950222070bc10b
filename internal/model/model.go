// Package model holds the few backend objects the gateway inspects rather
// than forwards opaquely. Most payloads travel as raw JSON so fields the
// gateway does not know about survive the round trip; a type only lives here
// when a handler needs to reason about its fields.
package model

// Material is an uploaded reference document usable as question-generation
// context.
type Material struct {
	MaterialID  int64  `json:"material_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
	UploadedBy  int64  `json:"uploaded_by"`
	NumChunks   int    `json:"num_chunks,omitempty"`
}

// Visible reports whether the material may be shown to the given user:
// public materials and the user's own uploads.
func (m Material) Visible(userID int64) bool {
	return m.IsPublic || m.UploadedBy == userID
}

// Config holds runtime gateway parameters set via CLI flags.
type Config struct {
	BackendURL  string // base URL of the exam platform backend
	BasePath    string // URL prefix for sub-path deployments (e.g. "/vi")
	ListTimeout int    // seconds before the sessions listing call is abandoned
}
