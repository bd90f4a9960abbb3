package params

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const validParams = `
max_iter: 50
top_affixes: 100
window_size: 5
frequent_prob_threshold: 0.00001
frequent_type_threshold: 1
reeval: true
score_reeval: false
doubling: true
transform_length_weighting_exponent: 0.4
type_threshold: 10
overlap_stem_length: 3
overlap_threshold: 1.0
precision_threshold: 0.01
hyphenation: true
compounding: true
iter_compounding: false
aggr_compounding: false
base_inference_conservative: true
base_inference_recompute_bases: false
allow_inferred_forms_as_derived: false
transform_optimization: true
transform_debug: false
iteration_analysis: false
weighted_transforms: true
weighted_affixes: false
transform_relations: true
allow_unmod_simplex_word_analysis: false
`

func TestParseValid(t *testing.T) {
	cfg, err := Parse([]byte(validParams))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := &Config{
		MaxIterations:         50,
		TopAffixes:            100,
		WindowSize:            5,
		FrequentProbThreshold: 0.00001,
		FrequentTypeThreshold: 1,
		ReEval:                true,
		Doubling:              true,
		WeightingExponent:     0.4,
		TypeThreshold:         10,
		OverlapStemLength:     3,
		OverlapThreshold:      1.0,
		PrecisionThreshold:    0.01,
		Hyphenation:           true,
		FinalCompounding:      true,
		BaseInference:         true,
		TransformOptimization: true,
		WeightedTransforms:    true,
		TransformRelations:    true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMissingKey(t *testing.T) {
	trimmed := strings.Replace(validParams, "doubling: true\n", "", 1)
	_, err := Parse([]byte(trimmed))
	if err == nil {
		t.Fatalf("expected error for missing key")
	}
	if !strings.Contains(err.Error(), "doubling") {
		t.Errorf("error does not name the missing key: %v", err)
	}
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse([]byte(validParams + "mystery_knob: 7\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParseMalformedValue(t *testing.T) {
	bad := strings.Replace(validParams, "max_iter: 50", "max_iter: often", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatalf("expected error for non-numeric max_iter")
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name, from, to string
	}{
		{"zero iterations", "max_iter: 50", "max_iter: 0"},
		{"prob threshold at one", "frequent_prob_threshold: 0.00001", "frequent_prob_threshold: 1.0"},
		{"zero type threshold", "type_threshold: 10", "type_threshold: 0"},
		{"negative overlap", "overlap_threshold: 1.0", "overlap_threshold: -0.5"},
		{"precision above one", "precision_threshold: 0.01", "precision_threshold: 1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := strings.Replace(validParams, tt.from, tt.to, 1)
			if bad == validParams {
				t.Fatalf("replacement %q not applied", tt.from)
			}
			if _, err := Parse([]byte(bad)); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}
