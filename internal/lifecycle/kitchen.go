package lifecycle

import (
	"math/rand"
	"sync"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// Kitchen tracks the current kitchen load. Unless staff pin a value, each
// Roll picks a random load from the injected source.
type Kitchen struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	load   model.KitchenLoad
	pinned bool
}

// NewKitchen starts at medium load.
func NewKitchen(rnd *rand.Rand) *Kitchen {
	return &Kitchen{rnd: rnd, load: model.KitchenLoadMedium}
}

// Load returns the current load.
func (k *Kitchen) Load() model.KitchenLoad {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.load
}

// Pinned reports whether staff fixed the load.
func (k *Kitchen) Pinned() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pinned
}

// Pin fixes the load until Release is called.
func (k *Kitchen) Pin(load model.KitchenLoad) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.load = load
	k.pinned = true
}

// Release returns the kitchen to simulated load.
func (k *Kitchen) Release() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pinned = false
}

// Roll simulates a new load reading and returns the current load.
func (k *Kitchen) Roll() model.KitchenLoad {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.pinned && k.rnd != nil {
		k.load = model.KitchenLoads[k.rnd.Intn(len(model.KitchenLoads))]
	}
	return k.load
}
