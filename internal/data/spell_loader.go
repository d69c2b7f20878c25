package data

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/la2go-combat/internal/model"
)

// ErrSpellNotFound is returned by SpellTable.Lookup for unknown ids.
var ErrSpellNotFound = errors.New("spell not found")

// SpellTable holds every spell template, keyed by id.
// Read-only after construction, safe for concurrent use.
type SpellTable struct {
	spells map[model.SpellID]*SpellTemplate
}

// NewSpellTable builds a table from already-constructed templates.
func NewSpellTable(spells ...*SpellTemplate) *SpellTable {
	t := &SpellTable{spells: make(map[model.SpellID]*SpellTemplate, len(spells))}
	for _, s := range spells {
		t.spells[s.ID] = s
	}
	return t
}

// Get returns the template or nil.
func (t *SpellTable) Get(id model.SpellID) *SpellTemplate {
	if t == nil {
		return nil
	}
	return t.spells[id]
}

// Lookup returns the template or ErrSpellNotFound.
func (t *SpellTable) Lookup(id model.SpellID) (*SpellTemplate, error) {
	s := t.Get(id)
	if s == nil {
		return nil, fmt.Errorf("spell %d: %w", id, ErrSpellNotFound)
	}
	return s, nil
}

// Len returns the number of spells.
func (t *SpellTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.spells)
}

type spellFile struct {
	Spells []spellDef `yaml:"spells"`
}

type spellDef struct {
	ID       int32      `yaml:"id"`
	Name     string     `yaml:"name"`
	Polarity string     `yaml:"polarity"`
	Status   *statusDef `yaml:"status"`
	Buffs    []buffDef  `yaml:"buffs"`
	Combat   *combatDef `yaml:"combat"`
}

type statusDef struct {
	Kind        string `yaml:"kind"`
	DurationMs  int64  `yaml:"duration_ms"`
	TransformID int32  `yaml:"transform_id"`
	OnHitSpell  int32  `yaml:"on_hit_spell"`
}

type buffDef struct {
	Attribute  string `yaml:"attribute"`
	Flat       int32  `yaml:"flat"`
	Percent    int32  `yaml:"percent"`
	DurationMs int64  `yaml:"duration_ms"`
}

type combatDef struct {
	VitalDiffs        map[string]int32 `yaml:"vital_diffs"`
	DamageType        string           `yaml:"damage_type"`
	ScalingStat       string           `yaml:"scaling_stat"`
	ScalingPct        int32            `yaml:"scaling_pct"`
	CritChance        float64          `yaml:"crit_chance"`
	CritMultiplier    float64          `yaml:"crit_multiplier"`
	IntervalMs        int64            `yaml:"interval_ms"`
	DurationMs        int64            `yaml:"duration_ms"`
	OnDeathAnimations []string         `yaml:"on_death_animations"`
	OnAliveAnimations []string         `yaml:"on_alive_animations"`
}

// LoadSpells reads a YAML spell table from path.
func LoadSpells(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spell table %s: %w", path, err)
	}
	table, err := ParseSpells(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing spell table %s: %w", path, err)
	}
	slog.Info("loaded spells", "path", path, "count", table.Len())
	return table, nil
}

// ParseSpells decodes and validates a YAML spell table.
func ParseSpells(raw []byte) (*SpellTable, error) {
	var file spellFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	table := &SpellTable{spells: make(map[model.SpellID]*SpellTemplate, len(file.Spells))}
	for i := range file.Spells {
		tmpl, err := buildSpellTemplate(&file.Spells[i])
		if err != nil {
			return nil, err
		}
		if _, dup := table.spells[tmpl.ID]; dup {
			return nil, fmt.Errorf("spell %d: duplicate id", tmpl.ID)
		}
		table.spells[tmpl.ID] = tmpl
	}
	return table, nil
}

func buildSpellTemplate(def *spellDef) (*SpellTemplate, error) {
	if def.ID <= 0 {
		return nil, fmt.Errorf("spell %q: id must be positive, got %d", def.Name, def.ID)
	}

	tmpl := &SpellTemplate{
		ID:   model.SpellID(def.ID),
		Name: def.Name,
	}

	polarity := def.Polarity
	if polarity == "" {
		polarity = "unfriendly"
	}
	p, err := model.ParsePolarity(polarity)
	if err != nil {
		return nil, fmt.Errorf("spell %d: %w", def.ID, err)
	}
	tmpl.Polarity = p

	if def.Status != nil {
		kind, err := model.ParseStatusKind(def.Status.Kind)
		if err != nil {
			return nil, fmt.Errorf("spell %d: %w", def.ID, err)
		}
		if def.Status.DurationMs <= 0 {
			return nil, fmt.Errorf("spell %d: status duration must be positive", def.ID)
		}
		tmpl.Status = &StatusDef{
			Kind:        kind,
			DurationMs:  def.Status.DurationMs,
			TransformID: def.Status.TransformID,
			OnHitSpell:  model.SpellID(def.Status.OnHitSpell),
		}
	}

	for _, b := range def.Buffs {
		attr, err := model.ParseAttribute(b.Attribute)
		if err != nil {
			return nil, fmt.Errorf("spell %d buff: %w", def.ID, err)
		}
		if b.DurationMs <= 0 {
			return nil, fmt.Errorf("spell %d buff %s: duration must be positive", def.ID, attr)
		}
		tmpl.Buffs = append(tmpl.Buffs, BuffDef{
			Attribute:  attr,
			Flat:       b.Flat,
			Percent:    b.Percent,
			DurationMs: b.DurationMs,
		})
	}

	if def.Combat != nil {
		c, err := buildCombatDef(def.Combat)
		if err != nil {
			return nil, fmt.Errorf("spell %d combat: %w", def.ID, err)
		}
		tmpl.Combat = c
	}

	return tmpl, nil
}

func buildCombatDef(def *combatDef) (*CombatDef, error) {
	c := &CombatDef{
		ScalingPct:        def.ScalingPct,
		CritChance:        def.CritChance,
		CritMultiplier:    def.CritMultiplier,
		IntervalMs:        def.IntervalMs,
		DurationMs:        def.DurationMs,
		OnDeathAnimations: def.OnDeathAnimations,
		OnAliveAnimations: def.OnAliveAnimations,
	}

	for name, diff := range def.VitalDiffs {
		v, err := model.ParseVital(name)
		if err != nil {
			return nil, err
		}
		c.VitalDiffs[v] = diff
	}

	dt, err := ParseDamageType(def.DamageType)
	if err != nil {
		return nil, err
	}
	c.DamageType = dt

	if def.ScalingStat != "" {
		attr, err := model.ParseAttribute(def.ScalingStat)
		if err != nil {
			return nil, err
		}
		c.ScalingStat = attr
	}

	if c.CritChance < 0 || c.CritChance > 1 {
		return nil, fmt.Errorf("crit_chance %v out of [0,1]", c.CritChance)
	}
	if c.CritMultiplier == 0 {
		c.CritMultiplier = 1
	}
	if c.IntervalMs < 0 || c.DurationMs < 0 {
		return nil, fmt.Errorf("negative interval or duration")
	}
	return c, nil
}
