package material

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Properties struct {
	Grade               string  `json:"grade" yaml:"-"`
	BendingStrength     float64 `json:"bending_strength_mpa" yaml:"bending_strength"`
	ModulusOfElasticity float64 `json:"modulus_of_elasticity_mpa" yaml:"modulus_of_elasticity"`
	ShearStrength       float64 `json:"shear_strength_mpa" yaml:"shear_strength"`
	Density             float64 `json:"density_kg_m3" yaml:"density"`
	CharringRate        float64 `json:"charring_rate_mm_min" yaml:"charring_rate"`
}

func (p Properties) validate() error {
	if p.BendingStrength <= 0 || p.ModulusOfElasticity <= 0 || p.Density <= 0 {
		return fmt.Errorf("grade %s: bending strength, modulus and density must be positive", p.Grade)
	}
	if p.ShearStrength < 0 || p.CharringRate < 0 {
		return fmt.Errorf("grade %s: negative shear strength or charring rate", p.Grade)
	}
	return nil
}

// Table is a read-only grade lookup with a fixed default grade.
type Table struct {
	grades       map[string]Properties
	defaultGrade string
}

func NewTable(props []Properties, defaultGrade string) (*Table, error) {
	t := &Table{grades: make(map[string]Properties, len(props))}
	for _, p := range props {
		p.Grade = strings.TrimSpace(p.Grade)
		if p.Grade == "" {
			return nil, fmt.Errorf("material without grade key")
		}
		if err := p.validate(); err != nil {
			return nil, err
		}
		t.grades[strings.ToLower(p.Grade)] = p
	}
	d, ok := t.grades[strings.ToLower(defaultGrade)]
	if !ok {
		return nil, fmt.Errorf("default grade %q is not in the table", defaultGrade)
	}
	t.defaultGrade = d.Grade
	return t, nil
}

// Lookup returns the properties for grade. Unknown grades resolve to the
// default grade and ok is false. An empty grade asks for the default.
func (t *Table) Lookup(grade string) (Properties, bool) {
	key := strings.ToLower(strings.TrimSpace(grade))
	if key == "" {
		return t.grades[strings.ToLower(t.defaultGrade)], true
	}
	if p, found := t.grades[key]; found {
		return p, true
	}
	log.Printf("warning: material grade %q not found, using %s", grade, t.defaultGrade)
	return t.grades[strings.ToLower(t.defaultGrade)], false
}

func (t *Table) DefaultGrade() string { return t.defaultGrade }

func (t *Table) Grades() []string {
	out := make([]string, 0, len(t.grades))
	for _, p := range t.grades {
		out = append(out, p.Grade)
	}
	sort.Strings(out)
	return out
}

// WithDefault returns a copy of the table using another default grade.
func (t *Table) WithDefault(grade string) (*Table, error) {
	props := make([]Properties, 0, len(t.grades))
	for _, p := range t.grades {
		props = append(props, p)
	}
	return NewTable(props, grade)
}

//go:embed default_materials.yaml
var defaultYAML []byte

type file struct {
	Default string                `yaml:"default"`
	Grades  map[string]Properties `yaml:"grades"`
}

func Default() *Table {
	t, err := LoadYAML(bytes.NewReader(defaultYAML))
	if err != nil {
		panic("material: embedded table is invalid: " + err.Error())
	}
	return t
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

func LoadYAML(r io.Reader) (*Table, error) {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	props := make([]Properties, 0, len(doc.Grades))
	for grade, p := range doc.Grades {
		p.Grade = grade
		props = append(props, p)
	}
	return NewTable(props, doc.Default)
}
