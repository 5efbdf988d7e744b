package layout

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/philipparndt/rigfit/pkg/geometry"
)

// Format identifies a layout file encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// maxLayoutSize is the largest layout file Load accepts
const maxLayoutSize = 8 * 1024 * 1024

// fixtureRecord is the on-disk shape of one fixture in JSON and TOML layouts
type fixtureRecord struct {
	ID string  `json:"id" toml:"id"`
	X  float64 `json:"x" toml:"x"`
	Y  float64 `json:"y" toml:"y"`
	Z  float64 `json:"z" toml:"z"`
}

type layoutRecord struct {
	Name     string          `json:"name" toml:"name"`
	Fixtures []fixtureRecord `json:"fixtures" toml:"fixture"`
}

// FormatFromPath picks the layout format from a file extension
func FormatFromPath(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".xyz", ".rig":
		return FormatText, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported layout file extension %q", filepath.Ext(filename))
	}
}

// Load reads a layout file, choosing the parser from its extension
func Load(filename string) (*Layout, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLayoutSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	if len(data) > maxLayoutSize {
		return nil, fmt.Errorf("layout %s exceeds %d bytes", filename, maxLayoutSize)
	}

	l, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if l.Name == "" {
		l.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return l, nil
}

// Parse decodes a layout in the given format
func Parse(reader io.Reader, format Format) (*Layout, error) {
	var l *Layout
	var err error

	switch format {
	case FormatText:
		l, err = parseText(reader)
	case FormatJSON:
		l, err = parseJSON(reader)
	case FormatTOML:
		l, err = parseTOML(reader)
	default:
		return nil, fmt.Errorf("unknown layout format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// parseText parses the line-based layout format:
//
//	name Front truss
//	# id  x    y    z
//	spot-1 -2.0 0.0 4.5
//	2.0 0.0 4.5
//
// A line with three numbers is an unnamed fixture.
func parseText(reader io.Reader) (*Layout, error) {
	scanner := bufio.NewScanner(reader)
	l := NewLayout("")

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if fields[0] == "name" {
			l.Name = strings.TrimSpace(strings.TrimPrefix(line, "name"))
			continue
		}

		var id string
		coords := fields
		switch len(fields) {
		case 3:
		case 4:
			id, coords = fields[0], fields[1:]
		default:
			return nil, fmt.Errorf("line %d: expected [id] x y z, got %d fields", lineNo, len(fields))
		}

		var xyz [3]float64
		for i, field := range coords {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid coordinate %q: %w", lineNo, field, err)
			}
			xyz[i] = v
		}
		l.AddFixture(geometry.NewPoint3D(id, xyz[0], xyz[1], xyz[2]))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading layout: %w", err)
	}

	return l, nil
}

// parseJSON accepts either {"name": ..., "fixtures": [...]} or a bare array
func parseJSON(reader io.Reader) (*Layout, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading layout: %w", err)
	}

	var record layoutRecord
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &record.Fixtures)
	} else {
		err = json.Unmarshal(data, &record)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout JSON: %w", err)
	}

	return fromRecord(record), nil
}

func parseTOML(reader io.Reader) (*Layout, error) {
	var record layoutRecord
	if _, err := toml.NewDecoder(reader).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to parse layout TOML: %w", err)
	}
	return fromRecord(record), nil
}

func fromRecord(record layoutRecord) *Layout {
	l := NewLayout(record.Name)
	for _, f := range record.Fixtures {
		l.AddFixture(geometry.NewPoint3D(f.ID, f.X, f.Y, f.Z))
	}
	return l
}
