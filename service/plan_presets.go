package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Aashish23092/vaeba-calculator/dto"
	"github.com/Aashish23092/vaeba-calculator/utils"
)

// DefaultPlanID is the plan applied to new sessions when none is chosen.
const DefaultPlanID = "PPSP-NR"

const planSchemaURL = "plans.schema.json"

const planSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["plans"],
  "properties": {
    "plans": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "nsua", "ax12"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "nsua": {"type": "number", "exclusiveMinimum": 0},
          "ax12": {"type": "number", "exclusiveMinimum": 0},
          "fcb": {"type": "number", "exclusiveMinimum": 0},
          "fatcor": {"type": "number", "exclusiveMinimum": 0},
          "taxa_juros_real": {"type": "number"},
          "tabua": {"type": "string"},
          "indexador": {"type": "string"}
        }
      }
    }
  }
}`

// PlanCatalog is the table of named parameter presets.
type PlanCatalog struct {
	presets map[string]dto.PlanPreset
}

// DefaultPlanCatalog holds the built-in presets.
func DefaultPlanCatalog() *PlanCatalog {
	return newPlanCatalog([]dto.PlanPreset{{
		ID:               DefaultPlanID,
		NSUA:             13,
		AnnuityFactor:    15.74683,
		FCB:              0.9818,
		FATCOR:           1.0037,
		RealInterestRate: 4.37,
		MortalityTable:   "Experiência Petros 2025 / AT-2000 suavizada",
		Indexer:          "IPCA",
	}})
}

func newPlanCatalog(presets []dto.PlanPreset) *PlanCatalog {
	c := &PlanCatalog{presets: make(map[string]dto.PlanPreset, len(presets))}
	for _, p := range presets {
		c.presets[p.ID] = p
	}
	return c
}

type planFile struct {
	Plans []dto.PlanPreset `json:"plans"`
}

// LoadPlanCatalog reads presets from a JSON file, validated against the plan schema.
func LoadPlanCatalog(path string) (*PlanCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}
	return ParsePlanCatalog(data)
}

func ParsePlanCatalog(data []byte) (*PlanCatalog, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(planSchemaURL, strings.NewReader(planSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(planSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal plans: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("plans do not match schema: %w", err)
	}

	var pf planFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}

	seen := make(map[string]bool, len(pf.Plans))
	for _, p := range pf.Plans {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate plan %q", p.ID)
		}
		seen[p.ID] = true
	}
	return newPlanCatalog(pf.Plans), nil
}

func (c *PlanCatalog) Get(id string) (dto.PlanPreset, error) {
	p, ok := c.presets[id]
	if !ok {
		return dto.PlanPreset{}, fmt.Errorf("%w: %q", dto.ErrUnknownPlan, id)
	}
	return p, nil
}

// List returns the presets sorted by id.
func (c *PlanCatalog) List() []dto.PlanPreset {
	out := make([]dto.PlanPreset, 0, len(c.presets))
	for _, p := range c.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PresetValues renders a preset as the field values the form shows: decimals
// with a comma, labels verbatim. Every field is written, and a zero optional
// factor becomes an empty value so nothing of a previous plan is left behind.
func PresetValues(p dto.PlanPreset) map[dto.FieldName]string {
	optional := func(v float64) string {
		if v == 0 {
			return ""
		}
		return utils.FormatPresetNumber(v)
	}
	return map[dto.FieldName]string{
		dto.FieldPlan:             p.ID,
		dto.FieldNSUA:             utils.FormatPresetNumber(p.NSUA),
		dto.FieldAnnuityFactor:    utils.FormatPresetNumber(p.AnnuityFactor),
		dto.FieldFCB:              optional(p.FCB),
		dto.FieldFATCOR:           optional(p.FATCOR),
		dto.FieldRealInterestRate: optional(p.RealInterestRate),
		dto.FieldMortalityTable:   p.MortalityTable,
		dto.FieldIndexer:          p.Indexer,
	}
}
