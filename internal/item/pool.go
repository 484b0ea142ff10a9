package item

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/brickdungeon/internal/config"
)

// Fallback is drawn once the pool is empty.
const Fallback = Schoolbag

// Entry is one weighted pool slot. The same item may appear more than once.
type Entry struct {
	Item   Item    `yaml:"item"`
	Weight float64 `yaml:"weight"`
}

// Pool is the set of items still obtainable in a run.
type Pool struct {
	Entries []Entry `yaml:"pool"`
}

// ParsePool decodes and validates an items document.
func ParsePool(data []byte) (Pool, error) {
	var p Pool
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pool{}, err
	}
	for i, e := range p.Entries {
		if e.Weight < 0 {
			return Pool{}, fmt.Errorf("pool[%d] %s: negative weight %v", i, e.Item, e.Weight)
		}
	}
	return p, nil
}

// LoadPool reads items.yaml from the layered search path.
func LoadPool(customPath string) (Pool, string, error) {
	data, source, err := config.ReadLayered(customPath, "items.yaml", config.DefaultItemsYAML())
	if err != nil {
		return Pool{}, source, err
	}
	p, err := ParsePool(data)
	if err != nil {
		return Pool{}, source, fmt.Errorf("failed to parse items %s: %w", source, err)
	}
	return p, source, nil
}

// Clone returns an independent copy, so a run can consume it.
func (p Pool) Clone() Pool {
	return Pool{Entries: append([]Entry(nil), p.Entries...)}
}

// Len returns the number of slots left.
func (p *Pool) Len() int {
	return len(p.Entries)
}

// Draw picks a slot by weight and removes it. An exhausted pool (or one
// whose remaining weights are all zero) yields Fallback.
func (p *Pool) Draw(src rand.Source) Item {
	if len(p.Entries) == 0 {
		return Fallback
	}
	weights := make([]float64, len(p.Entries))
	for i, e := range p.Entries {
		weights[i] = e.Weight
	}
	idx, ok := sampleuv.NewWeighted(weights, src).Take()
	if !ok {
		return Fallback
	}
	it := p.Entries[idx]
	p.Entries = append(p.Entries[:idx], p.Entries[idx+1:]...)
	return it.Item
}
