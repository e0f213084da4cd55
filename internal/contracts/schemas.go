package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"rental-dashboard/internal/core/domain"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var schemasFS embed.FS

// PostSchemaValidator проверяет документы постов по встроенной JSON Schema.
type PostSchemaValidator struct {
	schemas map[string]*jsonschema.Schema
	key     string
}

// NewPostSchemaValidator компилирует все схемы из schemas/ и выбирает схему поста нужной версии.
func NewPostSchemaValidator(version int) (*PostSchemaValidator, error) {
	compiled, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("RentalPostDocument/%d.0.0", version)
	if _, ok := compiled[key]; !ok {
		return nil, fmt.Errorf("schema '%s' not found", key)
	}
	return &PostSchemaValidator{schemas: compiled, key: key}, nil
}

func compileSchemas() (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()

	var paths []string
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		compiled[generateKeyFromPath(path)] = schema
	}
	return compiled, nil
}

// generateKeyFromPath преобразует "schemas/rental-post/v1.json" в "RentalPostDocument/1.0.0".
func generateKeyFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "schemas/")
	trimmed = strings.TrimSuffix(trimmed, ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Document")

	version := strings.Replace(parts[1], "v", "", 1) + ".0.0"
	return fmt.Sprintf("%s/%s", name.String(), version)
}

// ValidatePost прогоняет поля документа через схему.
func (v *PostSchemaValidator) ValidatePost(doc domain.Document) error {
	// поля могут прийти из драйвера с Go-типами (time.Time и т.п.),
	// поэтому сначала приводим их к чистому JSON
	body, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("document %s is not JSON-serializable: %w", doc.ID, err)
	}
	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("document %s is not valid JSON: %w", doc.ID, err)
	}

	if err := v.schemas[v.key].Validate(value); err != nil {
		return fmt.Errorf("document %s: JSON schema validation failed: %w", doc.ID, err)
	}
	return nil
}
