// Package params loads learner parameter files. Every parameter is required;
// a missing or malformed value is reported before learning starts.
package params

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every threshold and toggle the learner, decomposer, and
// outputs consume. It is immutable once loaded.
type Config struct {
	// Iteration parameters
	MaxIterations int `yaml:"max_iter"`
	TopAffixes    int `yaml:"top_affixes"`
	WindowSize    int `yaml:"window_size"`

	// Word scoring parameters
	FrequentProbThreshold float64 `yaml:"frequent_prob_threshold"`
	FrequentTypeThreshold int64   `yaml:"frequent_type_threshold"`

	// Transform scoring parameters
	ReEval            bool    `yaml:"reeval"`
	ScoreReEval       bool    `yaml:"score_reeval"`
	Doubling          bool    `yaml:"doubling"`
	WeightingExponent float64 `yaml:"transform_length_weighting_exponent"`

	// Transform selection parameters
	TypeThreshold      int64   `yaml:"type_threshold"`
	OverlapStemLength  int     `yaml:"overlap_stem_length"`
	OverlapThreshold   float64 `yaml:"overlap_threshold"`
	PrecisionThreshold float64 `yaml:"precision_threshold"`

	// Preprocessing and compounding flags
	Hyphenation      bool `yaml:"hyphenation"`
	FinalCompounding bool `yaml:"compounding"`
	IterCompounding  bool `yaml:"iter_compounding"`
	AggrCompounding  bool `yaml:"aggr_compounding"`

	// Rule inference flags
	BaseInference          bool `yaml:"base_inference_conservative"`
	BaseInferenceRecompute bool `yaml:"base_inference_recompute_bases"`
	DeriveInferredForms    bool `yaml:"allow_inferred_forms_as_derived"`

	// Implementation details
	TransformOptimization bool `yaml:"transform_optimization"`
	TransformDebug        bool `yaml:"transform_debug"`
	IterationAnalysis     bool `yaml:"iteration_analysis"`

	WeightedTransforms bool `yaml:"weighted_transforms"`
	WeightedAffixes    bool `yaml:"weighted_affixes"`

	// Compounding aggressiveness controls
	TransformRelations  bool `yaml:"transform_relations"`
	AnalyzeSimplexWords bool `yaml:"allow_unmod_simplex_word_analysis"`
}

// rawConfig mirrors Config with pointer fields so that a key absent from the
// file can be told apart from a zero value.
type rawConfig struct {
	MaxIterations *int `yaml:"max_iter"`
	TopAffixes    *int `yaml:"top_affixes"`
	WindowSize    *int `yaml:"window_size"`

	FrequentProbThreshold *float64 `yaml:"frequent_prob_threshold"`
	FrequentTypeThreshold *int64   `yaml:"frequent_type_threshold"`

	ReEval            *bool    `yaml:"reeval"`
	ScoreReEval       *bool    `yaml:"score_reeval"`
	Doubling          *bool    `yaml:"doubling"`
	WeightingExponent *float64 `yaml:"transform_length_weighting_exponent"`

	TypeThreshold      *int64   `yaml:"type_threshold"`
	OverlapStemLength  *int     `yaml:"overlap_stem_length"`
	OverlapThreshold   *float64 `yaml:"overlap_threshold"`
	PrecisionThreshold *float64 `yaml:"precision_threshold"`

	Hyphenation      *bool `yaml:"hyphenation"`
	FinalCompounding *bool `yaml:"compounding"`
	IterCompounding  *bool `yaml:"iter_compounding"`
	AggrCompounding  *bool `yaml:"aggr_compounding"`

	BaseInference          *bool `yaml:"base_inference_conservative"`
	BaseInferenceRecompute *bool `yaml:"base_inference_recompute_bases"`
	DeriveInferredForms    *bool `yaml:"allow_inferred_forms_as_derived"`

	TransformOptimization *bool `yaml:"transform_optimization"`
	TransformDebug        *bool `yaml:"transform_debug"`
	IterationAnalysis     *bool `yaml:"iteration_analysis"`

	WeightedTransforms *bool `yaml:"weighted_transforms"`
	WeightedAffixes    *bool `yaml:"weighted_affixes"`

	TransformRelations  *bool `yaml:"transform_relations"`
	AnalyzeSimplexWords *bool `yaml:"allow_unmod_simplex_word_analysis"`
}

// Load reads and validates a parameter file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates parameter file contents.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing parameter file: %w", err)
	}

	cfg, err := raw.build()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *rawConfig) build() (*Config, error) {
	missing := func(key string) error {
		return fmt.Errorf("missing required parameter %q", key)
	}

	required := []struct {
		key string
		ok  bool
	}{
		{"max_iter", r.MaxIterations != nil},
		{"top_affixes", r.TopAffixes != nil},
		{"window_size", r.WindowSize != nil},
		{"frequent_prob_threshold", r.FrequentProbThreshold != nil},
		{"frequent_type_threshold", r.FrequentTypeThreshold != nil},
		{"reeval", r.ReEval != nil},
		{"score_reeval", r.ScoreReEval != nil},
		{"doubling", r.Doubling != nil},
		{"transform_length_weighting_exponent", r.WeightingExponent != nil},
		{"type_threshold", r.TypeThreshold != nil},
		{"overlap_stem_length", r.OverlapStemLength != nil},
		{"overlap_threshold", r.OverlapThreshold != nil},
		{"precision_threshold", r.PrecisionThreshold != nil},
		{"hyphenation", r.Hyphenation != nil},
		{"compounding", r.FinalCompounding != nil},
		{"iter_compounding", r.IterCompounding != nil},
		{"aggr_compounding", r.AggrCompounding != nil},
		{"base_inference_conservative", r.BaseInference != nil},
		{"base_inference_recompute_bases", r.BaseInferenceRecompute != nil},
		{"allow_inferred_forms_as_derived", r.DeriveInferredForms != nil},
		{"transform_optimization", r.TransformOptimization != nil},
		{"transform_debug", r.TransformDebug != nil},
		{"iteration_analysis", r.IterationAnalysis != nil},
		{"weighted_transforms", r.WeightedTransforms != nil},
		{"weighted_affixes", r.WeightedAffixes != nil},
		{"transform_relations", r.TransformRelations != nil},
		{"allow_unmod_simplex_word_analysis", r.AnalyzeSimplexWords != nil},
	}
	for _, req := range required {
		if !req.ok {
			return nil, missing(req.key)
		}
	}

	return &Config{
		MaxIterations:          *r.MaxIterations,
		TopAffixes:             *r.TopAffixes,
		WindowSize:             *r.WindowSize,
		FrequentProbThreshold:  *r.FrequentProbThreshold,
		FrequentTypeThreshold:  *r.FrequentTypeThreshold,
		ReEval:                 *r.ReEval,
		ScoreReEval:            *r.ScoreReEval,
		Doubling:               *r.Doubling,
		WeightingExponent:      *r.WeightingExponent,
		TypeThreshold:          *r.TypeThreshold,
		OverlapStemLength:      *r.OverlapStemLength,
		OverlapThreshold:       *r.OverlapThreshold,
		PrecisionThreshold:     *r.PrecisionThreshold,
		Hyphenation:            *r.Hyphenation,
		FinalCompounding:       *r.FinalCompounding,
		IterCompounding:        *r.IterCompounding,
		AggrCompounding:        *r.AggrCompounding,
		BaseInference:          *r.BaseInference,
		BaseInferenceRecompute: *r.BaseInferenceRecompute,
		DeriveInferredForms:    *r.DeriveInferredForms,
		TransformOptimization:  *r.TransformOptimization,
		TransformDebug:         *r.TransformDebug,
		IterationAnalysis:      *r.IterationAnalysis,
		WeightedTransforms:     *r.WeightedTransforms,
		WeightedAffixes:        *r.WeightedAffixes,
		TransformRelations:     *r.TransformRelations,
		AnalyzeSimplexWords:    *r.AnalyzeSimplexWords,
	}, nil
}

func (c *Config) validate() error {
	switch {
	case c.MaxIterations < 1:
		return fmt.Errorf("max_iter must be at least 1, got %d", c.MaxIterations)
	case c.TopAffixes < 1:
		return fmt.Errorf("top_affixes must be at least 1, got %d", c.TopAffixes)
	case c.WindowSize < 1:
		return fmt.Errorf("window_size must be at least 1, got %d", c.WindowSize)
	case c.FrequentProbThreshold < 0 || c.FrequentProbThreshold >= 1:
		return fmt.Errorf("frequent_prob_threshold must be in [0, 1), got %g", c.FrequentProbThreshold)
	case c.FrequentTypeThreshold < 0:
		return fmt.Errorf("frequent_type_threshold must not be negative, got %d", c.FrequentTypeThreshold)
	case c.TypeThreshold < 1:
		return fmt.Errorf("type_threshold must be at least 1, got %d", c.TypeThreshold)
	case c.OverlapStemLength < 1:
		return fmt.Errorf("overlap_stem_length must be at least 1, got %d", c.OverlapStemLength)
	case c.OverlapThreshold < 0:
		return fmt.Errorf("overlap_threshold must not be negative, got %g", c.OverlapThreshold)
	case c.PrecisionThreshold < 0 || c.PrecisionThreshold > 1:
		return fmt.Errorf("precision_threshold must be in [0, 1], got %g", c.PrecisionThreshold)
	}
	return nil
}
