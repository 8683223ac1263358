package nutrition

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// MaxQuantity is the largest number of units one meal entry may hold.
const MaxQuantity = 100

//go:embed foods.yaml
var foodsYAML []byte

var (
	ErrUnknownFood     = errors.New("unknown food")
	ErrInvalidQuantity = fmt.Errorf("quantity must be greater than zero and at most %d", MaxQuantity)
)

// Food holds nutrition values for one unit of a food.
type Food struct {
	Name     string  `yaml:"name" json:"name"`
	Calories float64 `yaml:"calories" json:"calories"`
	Protein  float64 `yaml:"protein" json:"protein"`
	Carbs    float64 `yaml:"carbs" json:"carbs"`
	Fats     float64 `yaml:"fats" json:"fats"`
	Unit     string  `yaml:"unit" json:"unit"`
}

type Catalog struct {
	foods  []Food
	byName map[string]int
}

var defaultCatalog *Catalog

func init() {
	c, err := LoadCatalog(foodsYAML)
	if err != nil {
		panic(fmt.Sprintf("nutrition: embedded food table: %v", err))
	}
	defaultCatalog = c
}

// DefaultCatalog returns the built-in food table.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func LoadCatalog(data []byte) (*Catalog, error) {
	var foods []Food
	if err := yaml.Unmarshal(data, &foods); err != nil {
		return nil, fmt.Errorf("failed to parse food table: %w", err)
	}

	c := &Catalog{foods: foods, byName: make(map[string]int, len(foods))}
	for i, f := range foods {
		if f.Name == "" || f.Unit == "" {
			return nil, fmt.Errorf("food #%d: name and unit are required", i)
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("food %q declared twice", f.Name)
		}
		c.byName[f.Name] = i
	}
	return c, nil
}

func (c *Catalog) Lookup(name string) (Food, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Food{}, false
	}
	return c.foods[i], true
}

// Search returns foods whose name contains term, ignoring case, in table
// order. Surrounding blanks in term are ignored, so a blank term matches
// everything.
func (c *Catalog) Search(term string) []Food {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Food, 0, len(c.foods))
	for _, f := range c.foods {
		if strings.Contains(strings.ToLower(f.Name), term) {
			out = append(out, f)
		}
	}
	return out
}

// Portion scales a food by quantity units. Calories round to whole kcal,
// macros to one decimal.
func (c *Catalog) Portion(name string, quantity float64) (domain.MealFood, error) {
	f, ok := c.Lookup(name)
	if !ok {
		return domain.MealFood{}, fmt.Errorf("%w: %q", ErrUnknownFood, name)
	}
	if !(quantity > 0 && quantity <= MaxQuantity) {
		return domain.MealFood{}, ErrInvalidQuantity
	}
	return domain.MealFood{
		Name:     f.Name,
		Quantity: quantity,
		Unit:     f.Unit,
		Calories: int(roundHalfUp(f.Calories * quantity)),
		Protein:  roundTenth(f.Protein * quantity),
		Carbs:    roundTenth(f.Carbs * quantity),
		Fats:     roundTenth(f.Fats * quantity),
	}, nil
}
