package models

// ImportRequest represents an admin import of one external item
type ImportRequest struct {
	Provider   Provider `json:"provider"`
	ExternalID string   `json:"externalId"`
}

// SearchExternalRequest represents an admin search against a provider
type SearchExternalRequest struct {
	Provider Provider `json:"provider"`
	Query    string   `json:"q"`
	Limit    int      `json:"limit,omitempty"`
}

// UpdateProgramRequest is an explicit patch: a nil field is left untouched,
// a non-nil field overwrites the stored value, including "" and 0.
type UpdateProgramRequest struct {
	Title           *string         `json:"title,omitempty"`
	Description     *string         `json:"description,omitempty"`
	DurationSeconds *int            `json:"duration_seconds,omitempty"`
	Language        *Language       `json:"language,omitempty"`
	Category        *Category       `json:"category,omitempty"`
	ThumbnailURL    *string         `json:"thumbnail_url,omitempty"`
	SourceMetadata  *SourceMetadata `json:"source_metadata,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (r *UpdateProgramRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.DurationSeconds == nil &&
		r.Language == nil && r.Category == nil && r.ThumbnailURL == nil &&
		r.SourceMetadata == nil
}

// ApplyTo copies the set fields onto p. The slug is never touched.
func (r *UpdateProgramRequest) ApplyTo(p *Program) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.DurationSeconds != nil {
		p.DurationSeconds = *r.DurationSeconds
	}
	if r.Language != nil {
		p.Language = *r.Language
	}
	if r.Category != nil {
		c := *r.Category
		p.Category = &c
	}
	if r.ThumbnailURL != nil {
		p.ThumbnailURL = *r.ThumbnailURL
	}
	if r.SourceMetadata != nil {
		p.SourceMetadata = r.SourceMetadata
	}
}
