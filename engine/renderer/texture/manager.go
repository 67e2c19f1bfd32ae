package texture

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Spec describes one texture for Manager.LoadAll.
type Spec struct {
	// Key identifies the texture.
	Key string

	// Path is the image file. When empty or missing, Fallback is used.
	Path string

	// Fallback generates the image when Path cannot be found. Optional.
	Fallback func() image.Image

	// Options are passed to NewTexture.
	Options []TextureBuilderOption
}

// Binding places one texture and its sampler in a bind group.
type Binding struct {
	Unit           int
	Texture        Texture
	TextureBinding int
	SamplerBinding int
}

type managerImpl struct {
	mu *sync.Mutex

	textures []Texture
	index    map[string]int
	workers  int
	pool     worker.DynamicWorkerPool
}

// Manager keeps an ordered set of textures. A texture's unit is its position in the set,
// and units map onto consecutive texture/sampler binding pairs of one bind group.
type Manager interface {
	// Add appends a texture, or replaces the texture with the same key in place.
	//
	// Parameters:
	//   - tex: the texture to add
	//
	// Returns:
	//   - int: the texture's unit
	Add(tex Texture) int

	// Texture looks up a texture by key.
	//
	// Parameters:
	//   - key: the texture key
	//
	// Returns:
	//   - Texture: the texture, or nil
	//   - bool: false if no texture has the key
	Texture(key string) (Texture, bool)

	// Textures returns the textures in unit order.
	Textures() []Texture

	// Len returns the number of textures.
	Len() int

	// Bindings assigns unit i the texture binding start+2i and the sampler binding start+2i+1.
	//
	// Parameters:
	//   - start: the first binding index
	//
	// Returns:
	//   - []Binding: one entry per texture in unit order
	Bindings(start int) []Binding

	// LoadAll decodes the specs in parallel on the manager's worker pool and adds the
	// results in spec order. Nothing is added if any spec fails.
	//
	// Parameters:
	//   - specs: the textures to load
	//
	// Returns:
	//   - error: every failure joined, or nil
	LoadAll(specs []Spec) error
}

var _ Manager = &managerImpl{}

// NewManager creates an empty Manager with one decode worker per CPU.
//
// Parameters:
//   - options: WithWorkers
//
// Returns:
//   - Manager: the new manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &managerImpl{
		mu:      &sync.Mutex{},
		index:   make(map[string]int),
		workers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(m)
	}
	m.pool = worker.NewDynamicWorkerPool(m.workers, 256, 1*time.Second)
	return m
}

func (m *managerImpl) Add(tex Texture) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add(tex)
}

func (m *managerImpl) Texture(key string) (Texture, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.textures[i], true
}

func (m *managerImpl) Textures() []Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Texture, len(m.textures))
	copy(out, m.textures)
	return out
}

func (m *managerImpl) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.textures)
}

func (m *managerImpl) Bindings(start int) []Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Binding, len(m.textures))
	for i, tex := range m.textures {
		out[i] = Binding{
			Unit:           i,
			Texture:        tex,
			TextureBinding: start + 2*i,
			SamplerBinding: start + 2*i + 1,
		}
	}
	return out
}

func (m *managerImpl) LoadAll(specs []Spec) error {
	results := make([]Texture, len(specs))
	errs := make([]error, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		m.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				results[i], errs[i] = loadSpec(spec)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tex := range results {
		m.add(tex)
	}
	return nil
}

// add inserts or replaces tex. Caller must hold mu.
func (m *managerImpl) add(tex Texture) int {
	if i, ok := m.index[tex.Key()]; ok {
		m.textures[i] = tex
		return i
	}
	m.textures = append(m.textures, tex)
	m.index[tex.Key()] = len(m.textures) - 1
	return len(m.textures) - 1
}

func loadSpec(spec Spec) (Texture, error) {
	var img image.Image
	if spec.Path != "" {
		loaded, err := LoadFile(spec.Path)
		switch {
		case err == nil:
			img = loaded
		case errors.Is(err, os.ErrNotExist) && spec.Fallback != nil:
			log.Printf("[Texture] %s: %s not found, using generated image", spec.Key, spec.Path)
		default:
			return nil, fmt.Errorf("load texture %q: %w", spec.Key, err)
		}
	}
	if img == nil {
		if spec.Fallback == nil {
			return nil, fmt.Errorf("load texture %q: no path or fallback", spec.Key)
		}
		img = spec.Fallback()
	}
	return NewTexture(spec.Key, img, spec.Options...)
}
