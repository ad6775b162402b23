package transfer

import (
	"testing"
	"time"

	"github.com/dataflow-project/dataflow/internal/store"
)

func TestInferSchema(t *testing.T) {
	sample := store.Row{
		"id":     int64(1),
		"name":   "x",
		"salary": 75000.0,
	}

	schema := InferSchema(sample)

	want := store.Schema{
		"id":     store.TypeInteger,
		"name":   store.TypeText,
		"salary": store.TypeReal,
	}
	if len(schema) != len(want) {
		t.Fatalf("schema has %d columns, want %d", len(schema), len(want))
	}
	for col, typ := range want {
		if schema[col] != typ {
			t.Errorf("schema[%s] = %q, want %q", col, schema[col], typ)
		}
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		value any
		want  store.ColumnType
	}{
		{int(1), store.TypeInteger},
		{int32(1), store.TypeInteger},
		{int64(1), store.TypeInteger},
		{uint8(1), store.TypeInteger},
		{float32(1.5), store.TypeReal},
		{float64(75000.0), store.TypeReal},
		{"hello", store.TypeText},
		{true, store.TypeText},
		{nil, store.TypeText},
		{time.Now(), store.TypeText},
		{[]byte("raw"), store.TypeText},
	}

	for _, tt := range tests {
		if got := inferType(tt.value); got != tt.want {
			t.Errorf("inferType(%T %v) = %q, want %q", tt.value, tt.value, got, tt.want)
		}
	}
}
