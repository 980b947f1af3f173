package modifier

import "fmt"

// DeepMergeJSON merges the params.Merge object into the current JSON
// document. Nested objects merge recursively; scalars and arrays from the
// patch replace the existing value.
func DeepMergeJSON(current []byte, params Params) ([]byte, error) {
	if params.Merge == nil {
		return nil, fmt.Errorf("json merge requires a merge object")
	}

	doc, err := decodeObject(current)
	if err != nil {
		return nil, err
	}
	deepMerge(doc, params.Merge)
	return encodeObject(doc)
}

func deepMerge(dst, src map[string]any) {
	for key, srcVal := range src {
		if srcObj, ok := srcVal.(map[string]any); ok {
			if dstObj, ok := dst[key].(map[string]any); ok {
				deepMerge(dstObj, srcObj)
				continue
			}
		}
		dst[key] = srcVal
	}
}

// WrapJSON nests the current JSON document under params.Wrapper, then deep
// merges params.Merge (if any) into the result. This is the JSON-only
// rendition of config wrapping; JS/TS config files are out of scope for
// structural editing.
func WrapJSON(current []byte, params Params) ([]byte, error) {
	if params.Wrapper == "" {
		return nil, fmt.Errorf("config wrap requires a wrapper key")
	}

	doc, err := decodeObject(current)
	if err != nil {
		return nil, err
	}

	// Wrapping twice under the same key would nest indefinitely; if the
	// document already consists of exactly the wrapper key, leave it alone.
	if len(doc) == 1 {
		if _, ok := doc[params.Wrapper]; ok {
			if params.Merge != nil {
				deepMerge(doc, params.Merge)
			}
			return encodeObject(doc)
		}
	}

	wrapped := map[string]any{params.Wrapper: doc}
	if params.Merge != nil {
		deepMerge(wrapped, params.Merge)
	}
	return encodeObject(wrapped)
}
