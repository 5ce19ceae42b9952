package events

import (
	"encoding/json"
	"sync"

	"github.com/goliatone/go-masker"
)

var defaultMaskerOnce sync.Once

// DefaultMasker returns the shared masker with the notification denylist
// registered on top of the library defaults.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizePayload converts payload into a generic map and masks sensitive
// values. Payloads that do not encode to a JSON object are rejected.
func SanitizePayload(mask *masker.Masker, payload any) (map[string]any, error) {
	data, err := toMap(payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return data, nil
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		return map[string]any{}, nil
	}

	masked, err := mask.Mask(data)
	if err != nil {
		return nil, err
	}
	out, ok := masked.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return out, nil
}

func toMap(payload any) (map[string]any, error) {
	switch value := payload.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		dst := make(map[string]any, len(value))
		for k, v := range value {
			dst[k] = v
		}
		return dst, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField("email", "filled4")
	mask.RegisterMaskField("Email", "filled4")
}
