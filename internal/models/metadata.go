package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MetadataKind tags the shape of a SourceMetadata value
type MetadataKind string

const (
	MetadataYouTube MetadataKind = "YOUTUBE"
	MetadataOpaque  MetadataKind = "OPAQUE"
)

// YouTubeMetadata is the provenance record kept for YouTube imports
type YouTubeMetadata struct {
	VideoID     string `json:"videoId"`
	Channel     string `json:"channel"`
	UploadedAt  string `json:"uploadedAt"`
	ViewCount   string `json:"viewCount"`
	DurationISO string `json:"duration_iso,omitempty"`
}

// SourceMetadata is a provider-tagged variant. Kind is the provider tag.
// YouTube is set for MetadataYouTube; every other kind, including tags that
// are not modelled yet, keeps its payload in Opaque.
type SourceMetadata struct {
	Kind    MetadataKind
	YouTube *YouTubeMetadata
	Opaque  map[string]any
}

// NewYouTubeMetadata wraps a YouTube record
func NewYouTubeMetadata(m YouTubeMetadata) *SourceMetadata {
	return &SourceMetadata{Kind: MetadataYouTube, YouTube: &m}
}

// NewOpaqueMetadata wraps an unmodelled payload
func NewOpaqueMetadata(raw map[string]any) *SourceMetadata {
	if raw == nil {
		raw = map[string]any{}
	}
	return &SourceMetadata{Kind: MetadataOpaque, Opaque: raw}
}

type metadataEnvelope struct {
	Kind MetadataKind    `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the variant as {"kind": ..., "data": ...}
func (m SourceMetadata) MarshalJSON() ([]byte, error) {
	var data any
	switch m.Kind {
	case MetadataYouTube:
		data = m.YouTube
	default:
		data = m.Opaque
		if m.Opaque == nil {
			data = map[string]any{}
		}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	kind := m.Kind
	if kind == "" {
		kind = MetadataOpaque
	}
	return json.Marshal(metadataEnvelope{Kind: kind, Data: raw})
}

// UnmarshalJSON accepts the {"kind","data"} envelope or a bare object. A
// bare object carrying videoId, channel and uploadedAt is YouTube metadata;
// any other bare object is kept whole as opaque data. Unknown kinds keep
// their tag.
func (m *SourceMetadata) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("%w: source_metadata must be a JSON object", ErrInvalidRequest)
	}
	if fields == nil {
		*m = *NewOpaqueMetadata(nil)
		return nil
	}

	if isEnvelope(fields) {
		var env metadataEnvelope
		if err := json.Unmarshal(b, &env); err != nil {
			return fmt.Errorf("%w: decode source_metadata: %v", ErrInvalidRequest, err)
		}
		if env.Kind == "" {
			return fmt.Errorf("%w: source_metadata kind is empty", ErrInvalidRequest)
		}
		return m.decode(env.Kind, env.Data)
	}

	if isYouTubeShape(fields) {
		return m.decode(MetadataYouTube, b)
	}
	return m.decode(MetadataOpaque, b)
}

func (m *SourceMetadata) decode(kind MetadataKind, data json.RawMessage) error {
	if kind == MetadataYouTube {
		var yt YouTubeMetadata
		if err := json.Unmarshal(data, &yt); err != nil {
			return fmt.Errorf("%w: decode youtube metadata: %v", ErrInvalidRequest, err)
		}
		*m = SourceMetadata{Kind: MetadataYouTube, YouTube: &yt}
		return nil
	}

	raw := map[string]any{}
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: decode %s metadata: %v", ErrInvalidRequest, kind, err)
		}
	}
	*m = SourceMetadata{Kind: kind, Opaque: raw}
	return nil
}

// isEnvelope reports whether fields hold exactly kind and, optionally, data
func isEnvelope(fields map[string]json.RawMessage) bool {
	if _, ok := fields["kind"]; !ok {
		return false
	}
	for k := range fields {
		if k != "kind" && k != "data" {
			return false
		}
	}
	return true
}

func isYouTubeShape(fields map[string]json.RawMessage) bool {
	for _, k := range []string{"videoId", "channel", "uploadedAt"} {
		if _, ok := fields[k]; !ok {
			return false
		}
	}
	return true
}

// Value stores the variant in a jsonb column
func (m SourceMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the variant from a jsonb column
func (m *SourceMetadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = *NewOpaqueMetadata(nil)
		return nil
	case []byte:
		return m.UnmarshalJSON(v)
	case string:
		return m.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("unsupported source_metadata type %T", src)
	}
}
