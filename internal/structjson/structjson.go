package structjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/structure"
)

// ErrBadDocument indicates JSON that does not describe a structure.
var ErrBadDocument = errors.New("structjson: malformed structure document")

type latticeDoc struct {
	Matrix *[3][3]float64 `json:"matrix"`
	PBC    *[3]bool       `json:"pbc,omitempty"`
}

type occupantDoc struct {
	Element   string   `json:"element"`
	Occu      float64  `json:"occu"`
	Oxidation *float64 `json:"oxidation_state,omitempty"`
}

type siteDoc struct {
	Species []occupantDoc `json:"species"`
	Abc     *[3]float64   `json:"abc,omitempty"`
	Xyz     *[3]float64   `json:"xyz,omitempty"`
	Label   string        `json:"label,omitempty"`
}

type structureDoc struct {
	Lattice *latticeDoc `json:"lattice"`
	Sites   []siteDoc   `json:"sites"`
}

// Unmarshal decodes one structure document.
//
// Errors: ErrBadDocument for invalid JSON or missing fields, otherwise any
// lattice or structure validation error.
func Unmarshal(data []byte) (structure.Structure, error) {
	var doc structureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return structure.Structure{}, fmt.Errorf("Unmarshal: %v: %w", err, ErrBadDocument)
	}

	return doc.build()
}

// UnmarshalAll decodes either a single structure document or a non-empty
// JSON array of them.
func UnmarshalAll(data []byte) ([]structure.Structure, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s, err := Unmarshal(trimmed)
		if err != nil {
			return nil, err
		}

		return []structure.Structure{s}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("UnmarshalAll: %v: %w", err, ErrBadDocument)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("UnmarshalAll: no structures: %w", ErrBadDocument)
	}
	out := make([]structure.Structure, 0, len(raw))
	for i, r := range raw {
		s, err := Unmarshal(r)
		if err != nil {
			return nil, fmt.Errorf("UnmarshalAll: entry %d: %w", i, err)
		}
		out = append(out, s)
	}

	return out, nil
}

// Decode reads every structure from r (see UnmarshalAll).
func Decode(r io.Reader) ([]structure.Structure, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Decode: %w", err)
	}

	return UnmarshalAll(data)
}

// ReadFile decodes every structure in the file at path.
func ReadFile(path string) ([]structure.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %w", err)
	}
	xs, err := UnmarshalAll(data)
	if err != nil {
		return nil, fmt.Errorf("ReadFile(%s): %w", path, err)
	}

	return xs, nil
}

func (d structureDoc) build() (structure.Structure, error) {
	if d.Lattice == nil || d.Lattice.Matrix == nil {
		return structure.Structure{}, fmt.Errorf("lattice.matrix missing: %w", ErrBadDocument)
	}
	lat, err := lattice.New(lattice.Mat3(*d.Lattice.Matrix))
	if err != nil {
		return structure.Structure{}, fmt.Errorf("lattice: %w", err)
	}
	pbc := lattice.Periodic
	if d.Lattice.PBC != nil {
		pbc = lattice.PBC(*d.Lattice.PBC)
	}

	sites := make([]structure.Site, len(d.Sites))
	for i, sd := range d.Sites {
		site, err := sd.build(lat)
		if err != nil {
			return structure.Structure{}, fmt.Errorf("site %d: %w", i, err)
		}
		sites[i] = site
	}

	return structure.NewWithPBC(lat, pbc, sites)
}

func (d siteDoc) build(lat lattice.Lattice) (structure.Site, error) {
	var f lattice.Vec3
	switch {
	case d.Abc != nil:
		f = lattice.Vec3(*d.Abc)
	case d.Xyz != nil:
		f = lat.Fractional(lattice.Vec3(*d.Xyz))
	default:
		return structure.Site{}, fmt.Errorf("no abc or xyz: %w", ErrBadDocument)
	}
	if len(d.Species) == 0 {
		return structure.Site{}, fmt.Errorf("no species: %w", ErrBadDocument)
	}

	occ := make([]structure.Occupant, len(d.Species))
	for k, od := range d.Species {
		sp, err := od.species()
		if err != nil {
			return structure.Site{}, err
		}
		occ[k] = structure.Occupant{Species: sp, Occupancy: od.Occu}
	}
	site := structure.NewSite(occ, f)
	site.Label = d.Label

	return site, nil
}

// species accepts both {"element": "Fe", "oxidation_state": 2} and the
// older {"element": "Fe2+"} spelling.
func (d occupantDoc) species() (structure.Species, error) {
	sp, err := structure.ParseSpecies(d.Element)
	if err != nil {
		return structure.Species{}, err
	}
	if d.Oxidation == nil || *d.Oxidation == 0 {
		return sp, nil
	}
	ox := *d.Oxidation
	if ox != math.Trunc(ox) || math.Abs(ox) > 16 {
		return structure.Species{}, fmt.Errorf("oxidation state %v of %s: %w", ox, d.Element, structure.ErrBadSpecies)
	}
	sp.Oxidation = int(ox)

	return sp, nil
}

// Marshal encodes s in the same dictionary form, with both "abc" and
// "xyz" per site.
func Marshal(s structure.Structure) ([]byte, error) {
	m := [3][3]float64(s.Lattice.Matrix())
	pbc := [3]bool(s.PBC)
	doc := structureDoc{
		Lattice: &latticeDoc{Matrix: &m, PBC: &pbc},
		Sites:   make([]siteDoc, len(s.Sites)),
	}
	for i, site := range s.Sites {
		abc := [3]float64(site.Frac)
		xyz := [3]float64(s.Lattice.Cartesian(site.Frac))
		sd := siteDoc{Abc: &abc, Xyz: &xyz, Label: site.Label}
		for _, o := range site.Occupants {
			od := occupantDoc{Element: o.Species.Element, Occu: o.Occupancy}
			if o.Species.Oxidation != 0 {
				ox := float64(o.Species.Oxidation)
				od.Oxidation = &ox
			}
			sd.Species = append(sd.Species, od)
		}
		doc.Sites[i] = sd
	}

	return json.Marshal(doc)
}
