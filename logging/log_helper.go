package logging

func logParamsToZapParams(cat Category, sub SubCategory, keys map[ExtraKey]any) []any {
	params := make([]any, 0, 2*len(keys)+4)
	params = append(params, "Category", string(cat), "SubCategory", string(sub))

	for k, v := range keys {
		params = append(params, string(k))
		params = append(params, v)
	}

	return params
}

func logParamsToZeroParams(keys map[ExtraKey]any) map[string]any {
	params := map[string]any{}

	for k, v := range keys {
		params[string(k)] = v
	}

	return params
}
