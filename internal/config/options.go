package config

// Options fetches typed values from a free-form map, returning the default
// when a key is absent or of an unexpected type.
type Options map[string]any

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}
