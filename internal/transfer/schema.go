package transfer

// schema.go infers a destination schema from a single sample row when the
// destination table does not exist yet. The inference is deliberately
// three-way: integer kinds map to INTEGER, float kinds to REAL, everything
// else (strings, bytes, bools, times, nil) to TEXT. No nullability is
// inferred; columns are created nullable by the store layer.
//
// Known limitation: with an empty source table there is no sample row and no
// schema can be inferred. The engine skips table creation in that case.

import "github.com/dataflow-project/dataflow/internal/store"

// InferSchema derives a column-to-type mapping from the runtime kinds of the
// sample row's values.
func InferSchema(sample store.Row) store.Schema {
	schema := make(store.Schema, len(sample))
	for name, value := range sample {
		schema[name] = inferType(value)
	}
	return schema
}

func inferType(v any) store.ColumnType {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return store.TypeInteger
	case float32, float64:
		return store.TypeReal
	default:
		return store.TypeText
	}
}
