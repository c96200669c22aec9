package geoerr

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "input syntax",
			err:  InputSyntax("city query may not contain quotes"),
			want: "city query may not contain quotes",
		},
		{
			name: "io with status and url",
			err:  IO("https://overpass-api.de/api/interpreter", 429, "overpass query failed"),
			want: "status 429 overpass query failed from url https://overpass-api.de/api/interpreter",
		},
		{
			name: "io without status",
			err:  IO("file:///tmp/data.json", 0, "no such file"),
			want: "no such file from url file:///tmp/data.json",
		},
		{
			name: "data syntax without location",
			err:  DataSyntax(FormatOSMJSON, "OSM JSON root must be an object"),
			want: "OSM JSON root must be an object which should be in valid osm json format",
		},
		{
			name: "data syntax with location",
			err:  &Error{Kind: KindDataSyntax, Format: FormatGeoJSON, Line: 3, Column: 7, Message: "syntax error in JSON"},
			want: "syntax error in JSON at line 3 char 7 which should be in valid geojson format",
		},
		{
			name: "missing data",
			err:  MissingData("node %d is not in the traffic graph", 42),
			want: "missing data! node 42 is not in the traffic graph",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromJSONDerivesLineColumn(t *testing.T) {
	data := []byte("{\n  \"elements\": [\n    oops\n  ]\n}")

	var probe any
	err := json.Unmarshal(data, &probe)
	if err == nil {
		t.Fatal("expected a JSON syntax error")
	}

	converted := FromJSON(data, err, FormatOSMJSON)
	if converted.Kind != KindDataSyntax {
		t.Fatalf("Kind = %v, want KindDataSyntax", converted.Kind)
	}
	if converted.Line != 3 {
		t.Errorf("Line = %d, want 3", converted.Line)
	}
	if converted.Column == 0 {
		t.Error("Column should be derived")
	}
	if !strings.Contains(converted.Error(), "line 3") {
		t.Errorf("message %q should mention line 3", converted.Error())
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("abc\ndef\nghi")

	tests := []struct {
		name       string
		offset     int64
		wantLine   int
		wantColumn int
	}{
		{"start", 0, 1, 1},
		{"first line", 2, 1, 3},
		{"second line start", 4, 2, 1},
		{"third line", 9, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, column := lineColumn(data, tt.offset)
			if line != tt.wantLine || column != tt.wantColumn {
				t.Errorf("lineColumn(%d) = (%d, %d), want (%d, %d)",
					tt.offset, line, column, tt.wantLine, tt.wantColumn)
			}
		})
	}
}
