package traffic

import "testing"

func TestParseRoadCategory(t *testing.T) {
	tests := []struct {
		value string
		want  RoadCategory
	}{
		{"motorway", Motorway},
		{"trunk", Trunk},
		{"primary", Primary},
		{"secondary", Secondary},
		{"tertiary", Tertiary},
		{"residential", Residential},
		{"unclassified", Unclassified},
		{"motorway_link", MotorwayLink},
		{"trunk_link", TrunkLink},
		{"primary_link", PrimaryLink},
		{"secondary_link", SecondaryLink},
		{"tertiary_link", TertiaryLink},
		{"footway", Footway},
		{"steps", Steps},
		{"path", Path},
		{"Motorway", Motorway},
		{"RESIDENTIAL", Residential},
		{"cycleway", Uncategorized},
		{"service", Uncategorized},
		{"", Uncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := ParseRoadCategory(tt.value); got != tt.want {
				t.Errorf("ParseRoadCategory(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestRoadCategoryString(t *testing.T) {
	if got := Motorway.String(); got != "motorway" {
		t.Errorf("Motorway.String() = %q", got)
	}
	if got := RoadCategory(999).String(); got != "uncategorized" {
		t.Errorf("out of range String() = %q, want uncategorized", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		value string
		want  Direction
	}{
		{"yes", OneWay},
		{"true", OneWay},
		{"1", OneWay},
		{"-1", Reversed},
		{"reverse", Reversed},
		{"no", TwoWay},
		{"", TwoWay},
		{"maybe", TwoWay},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := ParseDirection(tt.value); got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
