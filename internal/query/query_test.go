package query

import (
	"strings"
	"testing"

	"geoworld/internal/geoerr"
)

func TestParseInputType(t *testing.T) {
	tests := []struct {
		name    string
		want    InputType
		wantErr bool
	}{
		{"city", InputCity, false},
		{"file", InputFile, false},
		{"overpass", InputOverpass, false},
		{"City", 0, true},
		{"", 0, true},
		{"bbox", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInputType(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInputType: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCity(t *testing.T) {
	q, err := Parse(InputCity, "Amsterdam")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Kind != KindOverpassQL {
		t.Errorf("Kind = %v, want KindOverpassQL", q.Kind)
	}
	if !strings.Contains(q.QL, `area[name="Amsterdam"]`) {
		t.Errorf("QL does not target the city area:\n%s", q.QL)
	}
	if !strings.Contains(q.QL, "[out:json]") {
		t.Errorf("QL must request JSON output:\n%s", q.QL)
	}
}

func TestParseCityRejectsQuotes(t *testing.T) {
	_, err := Parse(InputCity, `Ams"terdam`)
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr, ok := err.(*geoerr.Error)
	if !ok {
		t.Fatalf("error %T is not a *geoerr.Error", err)
	}
	if appErr.Kind != geoerr.KindInputSyntax {
		t.Errorf("Kind = %v, want KindInputSyntax", appErr.Kind)
	}
}

func TestParseOverpassPassthrough(t *testing.T) {
	ql := `[out:json]; node(1); out;`
	q, err := Parse(InputOverpass, ql)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Kind != KindOverpassQL || q.QL != ql {
		t.Errorf("got %+v, want verbatim OverpassQL", q)
	}
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantFormat geoerr.Format
		wantErr    string
	}{
		{"osm json", "data/city.json", geoerr.FormatOSMJSON, ""},
		{"geojson", "city.geojson", geoerr.FormatGeoJSON, ""},
		{"no extension", "citydata", 0, "file without file extension"},
		{"unsupported", "city.xml", 0, `unsupported file extension ".xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(InputFile, tt.value)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if q.Kind != KindFile {
				t.Errorf("Kind = %v, want KindFile", q.Kind)
			}
			if q.Path != tt.value {
				t.Errorf("Path = %q, want %q", q.Path, tt.value)
			}
			if q.Format != tt.wantFormat {
				t.Errorf("Format = %v, want %v", q.Format, tt.wantFormat)
			}
		})
	}
}
