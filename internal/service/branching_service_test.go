package service

import (
	"reflect"
	"testing"

	"github.com/tmarlen/linguabot/internal/catalog"
)

func newBranching(t *testing.T) BranchingService {
	t.Helper()
	branching, err := NewBranchingService(catalog.New())
	if err != nil {
		t.Fatalf("NewBranchingService: %v", err)
	}
	return branching
}

func TestShouldEnterFollowup(t *testing.T) {
	branching := newBranching(t)

	tests := []struct {
		name    string
		answers map[string]string
		want    bool
	}{
		{
			name:    "linguistic experience in Q1",
			answers: map[string]string{"Q1": `["Q1_OP1","Q1_OP4"]`},
			want:    true,
		},
		{
			name:    "linguistic reason in Q2",
			answers: map[string]string{"Q2": `["Q2_OP2"]`},
			want:    true,
		},
		{
			// Scalar option codes are accepted where a JSON list is
			// expected; single-choice writers store them that way.
			name:    "scalar multi value",
			answers: map[string]string{"Q2": "Q2_OP1"},
			want:    true,
		},
		{
			name: "no linguistic codes anywhere",
			answers: map[string]string{
				"Q1": `["Q1_OP4","Q1_OP5"]`,
				"Q2": `["Q2_OP4"]`,
				"Q3": "Q3_OP1",
			},
			want: false,
		},
		{
			name:    "composite elaboration keeps its base code",
			answers: map[string]string{"Q1": `["Q1_OP3:в школе"]`},
			want:    true,
		},
		{
			name:    "no answers at all",
			answers: map[string]string{},
			want:    false,
		},
		{
			name:    "undecodable list yields no match",
			answers: map[string]string{"Q1": "[broken"},
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := branching.ShouldEnterFollowup(tc.answers); got != tc.want {
				t.Errorf("ShouldEnterFollowup(%v) = %v, want %v", tc.answers, got, tc.want)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	branching := newBranching(t)

	tests := []struct {
		name    string
		answers map[string]string
		want    string
	}{
		{
			name:    "online venue wins",
			answers: map[string]string{"LQ5": `["LQ5_OP2"]`, "LQ2": "LQ2_OP1"},
			want:    catalog.AggressionCyber,
		},
		{
			name:    "internet comments count as cyber",
			answers: map[string]string{"LQ1": `["LQ1_OP5"]`},
			want:    catalog.AggressionCyber,
		},
		{
			name:    "open insults without online venue",
			answers: map[string]string{"LQ2": "LQ2_OP2", "LQ5": `["LQ5_OP1"]`},
			want:    catalog.AggressionDirect,
		},
		{
			name:    "covert exclusion",
			answers: map[string]string{"LQ2": "LQ2_OP3"},
			want:    catalog.AggressionPassive,
		},
		{
			name:    "ignoring counts as passive",
			answers: map[string]string{"LQ1": `["LQ1_OP4"]`, "LQ2": "LQ2_OP4"},
			want:    catalog.AggressionPassive,
		},
		{
			name:    "nothing matches",
			answers: map[string]string{"LQ2": "LQ2_OP4", "LQ5": `["LQ5_OP1"]`},
			want:    catalog.AggressionGeneral,
		},
		{
			name:    "empty answers",
			answers: map[string]string{},
			want:    catalog.AggressionGeneral,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := branching.Classify(tc.answers); got != tc.want {
				t.Errorf("Classify(%v) = %q, want %q", tc.answers, got, tc.want)
			}
		})
	}
}

func TestDecodeStoredMulti(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{`["Q1_OP1","Q1_OP2"]`, []string{"Q1_OP1", "Q1_OP2"}},
		{`["Q1_OP7:свой вариант"]`, []string{"Q1_OP7"}},
		{"Q2_OP3", []string{"Q2_OP3"}},
		{"", []string{}},
		{"[not json", []string{}},
	}
	for _, tc := range tests {
		if got := DecodeStoredMulti(tc.value); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("DecodeStoredMulti(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestBaseOptionCode(t *testing.T) {
	if got := BaseOptionCode("Q4_OP7:что-то ещё"); got != "Q4_OP7" {
		t.Errorf("BaseOptionCode composite = %q", got)
	}
	if got := BaseOptionCode("Q4_OP1"); got != "Q4_OP1" {
		t.Errorf("BaseOptionCode plain = %q", got)
	}
}
