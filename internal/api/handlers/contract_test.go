package handlers

import (
	"reflect"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/bigkaa/presigned-upload/internal/api/generated/catalogapi"
	"github.com/bigkaa/presigned-upload/internal/api/generated/storageapi"
)

// TestGeneratedMatchesContract — каждая операция контракта имеет метод
// в сгенерированном ServerInterface и наоборот.
func TestGeneratedMatchesContract(t *testing.T) {
	tests := []struct {
		name  string
		load  func() (*openapi3.T, error)
		iface reflect.Type
	}{
		{"storage-service", storageapi.GetSwagger, reflect.TypeOf((*storageapi.ServerInterface)(nil)).Elem()},
		{"catalog-service", catalogapi.GetSwagger, reflect.TypeOf((*catalogapi.ServerInterface)(nil)).Elem()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swagger, err := tt.load()
			if err != nil {
				t.Fatalf("GetSwagger: %v", err)
			}

			operations := 0
			for path, item := range swagger.Paths.Map() {
				for method, op := range item.Operations() {
					operations++
					if _, ok := tt.iface.MethodByName(op.OperationID); !ok {
						t.Errorf("%s %s: метод %s отсутствует в ServerInterface", method, path, op.OperationID)
					}
				}
			}
			if operations != tt.iface.NumMethod() {
				t.Errorf("операций в контракте %d, методов в ServerInterface %d", operations, tt.iface.NumMethod())
			}
		})
	}
}
