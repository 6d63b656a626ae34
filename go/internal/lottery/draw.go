package lottery

import (
	"math/rand"
)

// Drawer picks winners uniformly at random.
type Drawer struct {
	rng *rand.Rand
}

// NewDrawer constructs a Drawer with its own source, seeded once
func NewDrawer(seed int64) *Drawer {
	return &Drawer{rng: rand.New(rand.NewSource(seed))}
}

// Pick selects one of the usernames. Members are drawn from their sorted order so a fixed
// seed always yields the same winner for the same registry.
func (d *Drawer) Pick(r *Registry) (DrawResult, error) {
	members := r.Members()
	if len(members) == 0 {
		return DrawResult{}, ErrNoParticipants
	}
	return DrawResult{
		Winner:       members[d.rng.Intn(len(members))],
		Participants: len(members),
	}, nil
}
