package optimization

import (
	_ "embed"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogItem is one luxury product from the frozen-order catalog.
type CatalogItem struct {
	Image string `yaml:"image"`
	Name  string `yaml:"name"`
}

type catalogFile struct {
	Items []CatalogItem `yaml:"items"`
}

var catalog []CatalogItem

func init() {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		panic(fmt.Sprintf("invalid embedded catalog: %v", err))
	}
	if len(file.Items) == 0 {
		panic("embedded catalog is empty")
	}
	catalog = file.Items
}

// Catalog returns the full product catalog.
func Catalog() []CatalogItem {
	items := make([]CatalogItem, len(catalog))
	copy(items, catalog)
	return items
}

// RandomCatalogItem picks one catalog item for a frozen entry.
func RandomCatalogItem() CatalogItem {
	return catalog[rand.Intn(len(catalog))]
}
