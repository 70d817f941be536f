package content

// Rarity is a collectible tier derived from the collectible id.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// rarityBand is an inclusive id range mapped to a tier.
type rarityBand struct {
	min, max int
	rarity   Rarity
}

// Bands are non-overlapping; ids outside every band are common.
var rarityBands = []rarityBand{
	{min: 35, max: 42, rarity: RarityLegendary},
	{min: 25, max: 34, rarity: RarityEpic},
	{min: 15, max: 24, rarity: RarityRare},
}

// RarityFor derives the rarity tier from a collectible id.
func RarityFor(id int) Rarity {
	for _, band := range rarityBands {
		if id >= band.min && id <= band.max {
			return band.rarity
		}
	}
	return RarityCommon
}

// Collectible is a permanently unlockable item.
type Collectible struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	ImageRef    string `json:"image,omitempty" yaml:"image"` // Artwork reference, optional
}

// Rarity is never stored on the row; it always follows the id.
func (c Collectible) Rarity() Rarity {
	return RarityFor(c.ID)
}
