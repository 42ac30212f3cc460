package data

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"

	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/engine"
	"github.com/swarmloop/engine/internal/sprite"
	"github.com/swarmloop/engine/internal/transform"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSprite = errors.New("unknown sprite")
	ErrNoScene       = errors.New("missing scene section")
)

// AnimationDef is one named strip of the animation library.
type AnimationDef struct {
	First          uint16 `yaml:"first"`
	Last           uint16 `yaml:"last"`
	MillisPerFrame uint64 `yaml:"millis_per_frame"`
}

// SpriteDef is a spritesheet layout plus its ordered animations, by name.
type SpriteDef struct {
	Texture    int      `yaml:"texture"`
	TileWidth  uint32   `yaml:"tile_width"`
	TileHeight uint32   `yaml:"tile_height"`
	Columns    uint16   `yaml:"columns"`
	Animations []string `yaml:"animations"`
}

// SpawnDef places Count copies of a sprite, each offset by up to
// RandomX/RandomY from (X, Y).
type SpawnDef struct {
	Sprite    string  `yaml:"sprite"`
	Count     int     `yaml:"count"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Z         float64 `yaml:"z"`
	RandomX   float64 `yaml:"random_x"`
	RandomY   float64 `yaml:"random_y"`
	Width     uint32  `yaml:"width"`
	Height    uint32  `yaml:"height"`
	Rotation  float64 `yaml:"rotation"`
	FlipH     bool    `yaml:"flip_h"`
	Animation int     `yaml:"animation"`
}

// SceneDef is a parsed scene file.
type SceneDef struct {
	Name       string                  `yaml:"name"`
	Capacity   int                     `yaml:"capacity"`
	Assets     []string                `yaml:"assets"`
	Animations map[string]AnimationDef `yaml:"animations"`
	Sprites    map[string]SpriteDef    `yaml:"sprites"`
	Spawns     []SpawnDef              `yaml:"spawns"`
}

type sceneFile struct {
	Scene *SceneDef `yaml:"scene"`
}

// LoadScene loads a scene YAML file. Relative asset paths are resolved
// against the file's directory.
func LoadScene(path string) (*SceneDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var f sceneFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if f.Scene == nil {
		return nil, fmt.Errorf("scene %s: %w", path, ErrNoScene)
	}
	d := f.Scene
	dir := filepath.Dir(path)
	for i, a := range d.Assets {
		if !filepath.IsAbs(a) {
			d.Assets[i] = filepath.Join(dir, a)
		}
	}
	for i, s := range d.Spawns {
		if _, ok := d.Sprites[s.Sprite]; !ok {
			return nil, fmt.Errorf("scene %s spawn %d: %w %q", path, i, ErrUnknownSprite, s.Sprite)
		}
	}
	return d, nil
}

// Sprite builds the named sprite. Animation names missing from the library
// are skipped.
func (d *SceneDef) Sprite(name string) (sprite.Sprite, error) {
	def, ok := d.Sprites[name]
	if !ok {
		return sprite.Sprite{}, fmt.Errorf("%w %q", ErrUnknownSprite, name)
	}
	anims := make([]sprite.Animation, 0, len(def.Animations))
	for _, n := range def.Animations {
		a, ok := d.Animations[n]
		if !ok {
			continue
		}
		anims = append(anims, sprite.NewAnimation(a.First, a.Last, a.MillisPerFrame))
	}
	b := sprite.NewBuilder(def.Texture).
		WithTileSize(def.TileWidth, def.TileHeight).
		WithAnimations(anims...)
	if def.Columns > 0 {
		b = b.WithColumns(def.Columns)
	}
	return b.Build(), nil
}

// Spawn is one expanded entity template.
type Spawn struct {
	Transform transform.Transform
	Sprite    sprite.Sprite
}

// Entities expands the spawn groups in file order.
func (d *SceneDef) Entities(rng *rand.Rand) ([]Spawn, error) {
	var out []Spawn
	for i, s := range d.Spawns {
		sp, err := d.Sprite(s.Sprite)
		if err != nil {
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}
		sp.Animation = s.Animation
		for n := 0; n < s.Count; n++ {
			tr := transform.Transform{}.
				WithPosition(s.X+jitter(rng, s.RandomX), s.Y+jitter(rng, s.RandomY)).
				WithDepth(s.Z).
				WithSize(s.Width, s.Height).
				WithRotation(s.Rotation)
			if s.FlipH {
				tr = tr.WithHorizontalFlip()
			}
			out = append(out, Spawn{Transform: tr, Sprite: sp.Clone()})
		}
	}
	return out, nil
}

func jitter(rng *rand.Rand, spread float64) float64 {
	if spread <= 0 || rng == nil {
		return 0
	}
	return rng.Float64() * spread
}

// SpawnCount is the number of entities the spawn groups ask for.
func (d *SceneDef) SpawnCount() int {
	n := 0
	for _, s := range d.Spawns {
		n += s.Count
	}
	return n
}

// AnimationNames returns the library names in sorted order.
func (d *SceneDef) AnimationNames() []string {
	names := make([]string, 0, len(d.Animations))
	for n := range d.Animations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EngineScene turns d into an engine scene whose entities start with zero
// state S. Spawns beyond the capacity are offered anyway so the engine
// can count them as dropped.
func EngineScene[S any](d *SceneDef, rng *rand.Rand) (*engine.Scene[S], error) {
	spawns, err := d.Entities(rng)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", d.Name, err)
	}
	return &engine.Scene[S]{
		Name:     d.Name,
		Capacity: d.Capacity,
		Assets:   d.Assets,
		Populate: func(add func(ecs.Entity[S]) bool) {
			for _, s := range spawns {
				add(ecs.Entity[S]{Transform: s.Transform, Sprite: s.Sprite})
			}
		},
	}, nil
}
