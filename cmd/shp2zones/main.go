package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jonas-p/go-shp"

	"stayguide/pkg/model"
)

func main() {
	inputPath := flag.String("input", "", "Path to input .shp file")
	outputPath := flag.String("output", "", "Path to output .json file")
	cityID := flag.String("city", "", "City id to stamp on every record (emits zone records)")
	idField := flag.String("id-field", "id", "Attribute holding the record id")
	nameField := flag.String("name-field", "name", "Attribute holding the record name")
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		flag.Usage()
		log.Fatal("Input and output paths are required")
	}

	if err := run(*inputPath, *outputPath, *cityID, *idField, *nameField); err != nil {
		log.Fatal(err)
	}
}

// run converts the polygons of a shapefile into the dataset records the
// geodata store consumes. Without -city it emits city records, with -city it
// emits zone records belonging to that city.
func run(inputPath, outputPath, cityID, idField, nameField string) error {
	shape, err := shp.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shape.Close()

	fields := shape.Fields()
	idIdx, nameIdx := -1, -1
	for i, f := range fields {
		switch strings.ToLower(f.String()) {
		case strings.ToLower(idField):
			idIdx = i
		case strings.ToLower(nameField):
			nameIdx = i
		}
	}

	var cities []model.City
	var zones []model.Zone
	count := 0

	for shape.Next() {
		n, p := shape.Shape()

		poly, ok := p.(*shp.Polygon)
		if !ok {
			log.Printf("Skipping unsupported shape type: %T", p)
			continue
		}

		ring := outerRing(poly)
		if len(ring) < 3 {
			log.Printf("Skipping degenerate polygon at record %d", n)
			continue
		}

		count++
		id := attributeOr(shape, n, idIdx, fmt.Sprintf("feature-%d", n))
		name := attributeOr(shape, n, nameIdx, id)

		if cityID == "" {
			cities = append(cities, model.City{ID: id, Name: name, Polygon: ring})
		} else {
			zones = append(zones, model.Zone{ID: id, Name: name, CityID: cityID, Polygon: ring})
		}
	}

	if err := shape.Err(); err != nil {
		return fmt.Errorf("error iterating shapes: %w", err)
	}

	var data []byte
	if cityID == "" {
		data, err = json.MarshalIndent(cities, "", "  ")
	} else {
		data, err = json.MarshalIndent(zones, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Successfully converted %d polygons to %s\n", count, outputPath)
	return nil
}

// outerRing takes the first part of the polygon. Holes and additional parts
// are dropped, the containment checks only use the outer boundary.
func outerRing(s *shp.Polygon) []model.Coord {
	end := int(s.NumPoints)
	if s.NumParts > 1 {
		end = int(s.Parts[1])
	}

	ring := make([]model.Coord, 0, end)
	for j := 0; j < end; j++ {
		ring = append(ring, model.Coord{s.Points[j].X, s.Points[j].Y})
	}
	return ring
}

func attributeOr(shape *shp.Reader, row, field int, fallback string) string {
	if field < 0 {
		return fallback
	}
	if v := strings.TrimSpace(shape.ReadAttribute(row, field)); v != "" {
		return v
	}
	return fallback
}
