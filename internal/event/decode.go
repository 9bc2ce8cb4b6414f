package event

import "encoding/json"

// DecodePayload decodes an event payload into T, trying a direct type
// assertion before falling back to a JSON round-trip. In-process publishers
// hand over the payload struct as-is; payloads replayed from the dead letter
// or another serialized source arrive as generic maps and take the fallback.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
