// Package codec encodes the structured side files of a training run: OLVQ1
// learning rates, run configurations and accuracy reports.
//
// Files record the codec name next to their payload, so changing the default
// codec never breaks decoding of older files.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "yaml":
		return YAML{}, true
	default:
		return nil, false
	}
}
