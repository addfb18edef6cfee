package jsonquery

import "fmt"

// Normalize accepts either wire format spec.md §6 names for json_build's
// mapping argument and dispatches to the matching normalizer by structural
// fingerprint, so a caller holding a decoded-JSON map[string]any doesn't
// need to know ahead of time which variant it received.
//
// Three shapes are accepted:
//   - ModelDrivenInput / LegacyFlatInput passed directly (typed Go callers)
//   - a map[string]any decoded from a JSON request body: the legacy-flat
//     shape is recognized by a top-level "relationships" key, the
//     model-driven shape by a top-level "structure" key
func Normalize(raw any) (*Mapping, error) {
	switch v := raw.(type) {
	case ModelDrivenInput:
		m, _, err := NormalizeModelDriven(v)
		return &m, err
	case LegacyFlatInput:
		m, err := NormalizeLegacyFlat(v)
		return &m, err
	case map[string]any:
		return normalizeDynamic(v)
	default:
		return nil, &InvalidWireFormatError{Field: "(root)", Reason: fmt.Sprintf("unrecognized mapping shape %T", raw)}
	}
}

func normalizeDynamic(v map[string]any) (*Mapping, error) {
	if _, ok := v["relationships"]; ok {
		in, err := decodeLegacyFlat(v)
		if err != nil {
			return nil, err
		}
		m, err := NormalizeLegacyFlat(in)
		return &m, err
	}
	if _, ok := v["structure"]; ok {
		in, err := decodeModelDriven(v)
		if err != nil {
			return nil, err
		}
		m, _, err := NormalizeModelDriven(in)
		return &m, err
	}
	return nil, &InvalidWireFormatError{Field: "(root)", Reason: "missing both \"structure\" and \"relationships\"; cannot identify wire format"}
}

func decodeModelDriven(v map[string]any) (ModelDrivenInput, error) {
	structure, ok := v["structure"].(map[string]any)
	if !ok {
		return ModelDrivenInput{}, &InvalidWireFormatError{Field: "structure", Reason: "expected an object"}
	}
	typeInfo := map[string]string{}
	if raw, ok := v["typeInfo"].(map[string]any); ok {
		for k, val := range raw {
			if s, ok := val.(string); ok {
				typeInfo[k] = s
			}
		}
	}
	rootName, _ := v["rootName"].(string)
	return ModelDrivenInput{RootName: rootName, TypeInfo: typeInfo, Structure: structure}, nil
}

func decodeLegacyFlat(v map[string]any) (LegacyFlatInput, error) {
	columns := map[string]string{}
	if raw, ok := v["columns"].(map[string]any); ok {
		for k, val := range raw {
			if s, ok := val.(string); ok {
				columns[k] = s
			}
		}
	}

	relationships := map[string]LegacyRelationship{}
	raw, ok := v["relationships"].(map[string]any)
	if !ok {
		return LegacyFlatInput{}, &InvalidWireFormatError{Field: "relationships", Reason: "expected an object"}
	}
	for name, relRaw := range raw {
		relMap, ok := relRaw.(map[string]any)
		if !ok {
			return LegacyFlatInput{}, &InvalidWireFormatError{Field: name, Reason: "expected an object"}
		}
		relType, _ := relMap["type"].(string)
		relCols := map[string]string{}
		if colsRaw, ok := relMap["columns"].(map[string]any); ok {
			for k, val := range colsRaw {
				if s, ok := val.(string); ok {
					relCols[k] = s
				}
			}
		}
		relationships[name] = LegacyRelationship{Type: relType, Columns: relCols}
	}

	rootName, _ := v["rootName"].(string)
	return LegacyFlatInput{RootName: rootName, Columns: columns, Relationships: relationships}, nil
}
