package console

import (
	"encoding/json"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/target/catalog-admin/internal/domain/model"
)

// queryProducts evaluates a JMESPath expression over the products as the API
// serializes them (codigo, nombre, precio...) and returns the result as indented JSON.
func queryProducts(items []model.Product, expr string) (string, error) {
	if _, err := jmespath.Compile(expr); err != nil {
		return "", fmt.Errorf("invalid query: %w", err)
	}
	if items == nil {
		items = []model.Product{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode products: %w", err)
	}
	var data any
	if err = json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("decode products: %w", err)
	}
	result, err := jmespath.Search(expr, data)
	if err != nil {
		return "", fmt.Errorf("evaluate query: %w", err)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(out), nil
}
