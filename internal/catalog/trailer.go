package catalog

import (
	"encoding/json"
	"fmt"
)

var null = json.RawMessage("null")

type videoKind struct {
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// SelectTrailer picks the first official trailer from a TMDB videos response,
// falling back to the first trailer of any kind. The chosen video object is
// returned verbatim; JSON null means there is none.
func SelectTrailer(body json.RawMessage) (json.RawMessage, error) {
	var videos struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &videos); err != nil {
		return nil, fmt.Errorf("%w: decoding videos: %v", ErrUpstreamUnavailable, err)
	}

	var fallback json.RawMessage
	for _, raw := range videos.Results {
		var kind videoKind
		if err := json.Unmarshal(raw, &kind); err != nil {
			continue
		}
		if kind.Type != "Trailer" {
			continue
		}
		if kind.Official {
			return raw, nil
		}
		if fallback == nil {
			fallback = raw
		}
	}

	if fallback == nil {
		return null, nil
	}
	return fallback, nil
}
