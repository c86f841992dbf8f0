// seed_catalog genera un script SQL para poblar categorías y características
// a partir de un XML de catálogo (UTF-8 o ISO-8859-1).
//
// Formato esperado:
//
//	<catalog>
//	  <category name="Phones">
//	    <characteristic name="Color"/>
//	  </category>
//	</catalog>
//
// Uso: go run ./cmd/seed_catalog [ruta/catalog.xml] [salida.sql]
// Por defecto lee catalog.xml y escribe seed_catalog.sql en el directorio actual.
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/retail-api/pkg/textnorm"
)

type catalogXML struct {
	Categories []struct {
		Name            string `xml:"name,attr"`
		Characteristics []struct {
			Name string `xml:"name,attr"`
		} `xml:"characteristic"`
	} `xml:"category"`
}

// category categoría normalizada con sus características sin repetir, ordenadas.
type category struct {
	name            string
	characteristics []string
}

func main() {
	xmlPath, outPath := "catalog.xml", "seed_catalog.sql"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	categories, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := writeSQL(out, categories); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías\n", outPath, len(categories))
}

// parseCatalog decodifica el XML, normaliza nombres (NFC) y descarta vacíos y repetidos.
// Los nombres de característica de menos de 3 caracteres se descartan, igual que en la API.
func parseCatalog(r io.Reader) ([]category, error) {
	var doc catalogXML
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") || strings.EqualFold(charset, "latin1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	byName := make(map[string]map[string]struct{})
	for _, c := range doc.Categories {
		name := textnorm.Name(c.Name)
		if name == "" {
			continue
		}
		set, ok := byName[name]
		if !ok {
			set = make(map[string]struct{})
			byName[name] = set
		}
		for _, ch := range c.Characteristics {
			chName := textnorm.Name(ch.Name)
			if textnorm.Len(chName) < 3 {
				continue
			}
			set[chName] = struct{}{}
		}
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]category, 0, len(names))
	for _, n := range names {
		chars := make([]string, 0, len(byName[n]))
		for ch := range byName[n] {
			chars = append(chars, ch)
		}
		sort.Strings(chars)
		out = append(out, category{name: n, characteristics: chars})
	}
	return out, nil
}

// writeSQL emite INSERTs idempotentes. Los ids se derivan del nombre (UUID v5) para que
// regenerar el script produzca el mismo resultado.
func writeSQL(w io.Writer, categories []category) error {
	var b strings.Builder
	b.WriteString("-- Categorías y características del catálogo\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	for _, c := range categories {
		fmt.Fprintf(&b, "INSERT INTO categories (id, name) VALUES ('%s', '%s')\n",
			stableID("category", c.name), escapeSQL(c.name))
		b.WriteString("ON CONFLICT (name) DO NOTHING;\n")
		for _, ch := range c.characteristics {
			fmt.Fprintf(&b, "INSERT INTO characteristics (id, name) VALUES ('%s', '%s')\n",
				stableID("characteristic", ch), escapeSQL(ch))
			b.WriteString("ON CONFLICT (name) DO NOTHING;\n")
			b.WriteString("INSERT INTO category_characteristics (category_id, characteristic_id)\n")
			fmt.Fprintf(&b, "SELECT c.id, ch.id FROM categories c, characteristics ch WHERE c.name = '%s' AND ch.name = '%s'\n",
				escapeSQL(c.name), escapeSQL(ch))
			b.WriteString("ON CONFLICT DO NOTHING;\n")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func stableID(kind, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("retail-api:"+kind+":"+name)).String()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
