// Package feed construye el catálogo XML público de productos con etree.
package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

var _ ports.CatalogFeedBuilder = (*XMLFeedBuilder)(nil)

// XMLFeedBuilder genera <catalog> con un <product> por producto.
type XMLFeedBuilder struct {
	source string
}

// NewXMLFeedBuilder crea el builder. source identifica la tienda en el atributo del root.
func NewXMLFeedBuilder(source string) *XMLFeedBuilder {
	return &XMLFeedBuilder{source: source}
}

// BuildProductFeed serializa los productos en XML UTF-8 indentado.
func (b *XMLFeedBuilder) BuildProductFeed(_ context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("catalog")
	root.CreateAttr("source", b.source)
	root.CreateAttr("generated_at", generatedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(products)))

	for _, p := range products {
		el := root.CreateElement("product")
		el.CreateAttr("id", p.ID)
		el.CreateElement("name").SetText(p.Name)
		price := el.CreateElement("price")
		price.SetText(p.Price.StringFixed(2))
		el.CreateElement("category").SetText(p.CategoryName)
		provider := el.CreateElement("provider")
		provider.CreateAttr("id", p.ProviderID)
		provider.SetText(p.ProviderUsername)

		if len(p.Characteristics) > 0 {
			chars := el.CreateElement("characteristics")
			for _, c := range p.Characteristics {
				ch := chars.CreateElement("characteristic")
				ch.CreateAttr("name", c.Name)
				ch.SetText(c.Value)
			}
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("feed: serializar XML: %w", err)
	}
	return out, nil
}
