package game

// Catalog is the ordered set of levels, indexed by level number 1..Max.
// It is constructed exactly once at startup and injected everywhere a level
// lookup is needed.
type Catalog struct {
	levels map[int]Level
	max    int
}

// NewCatalog builds the game's fixed level sequence.
func NewCatalog() *Catalog {
	c := &Catalog{levels: map[int]Level{}}
	for _, l := range []Level{
		ChatterboxLevel{},
		PrecisionPerformerLevel{},
		MarkdownLevel{},
		FibonacciLevel{},
		YesNoLevel{},
		XMLEngineeringLevel{},
		FamilyLevel{},
	} {
		c.levels[l.Number()] = l
		if l.Number() > c.max {
			c.max = l.Number()
		}
	}
	return c
}

// Get returns the level for n, falling back to level 1 when n is unknown so
// stale persisted state stays playable.
func (c *Catalog) Get(n int) Level {
	if l, ok := c.levels[n]; ok {
		return l
	}
	return c.levels[1]
}

func (c *Catalog) Max() int { return c.max }
