// Package cart holds a buyer's in-progress selection. It never talks to the
// server; lines become order lines only at checkout.
package cart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"farm-market/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrLineNotFound = fmt.Errorf("cart line %w", domain.ErrNotFound)

// Line is one product in the cart. Price is a snapshot taken when the product
// was first added.
type Line struct {
	ID        string          `json:"id"`
	ProductID uint64          `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines keyed by product in insertion order.
type Cart struct {
	mu      sync.Mutex
	order   []uint64
	lines   map[uint64]*Line
	byLine  map[string]uint64
	newLine func() string
}

func New() *Cart {
	return &Cart{
		lines:   map[uint64]*Line{},
		byLine:  map[string]uint64{},
		newLine: uuid.NewString,
	}
}

// Add merges p into its existing line or starts a new line with quantity 1.
func (c *Cart) Add(p domain.Product) Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.lines[p.ID]; ok {
		l.Quantity++
		return *l
	}
	l := &Line{
		ID:        c.newLine(),
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		ImageURL:  p.ImageURL,
		Price:     p.Price,
		Quantity:  1,
	}
	c.lines[p.ID] = l
	c.byLine[l.ID] = p.ID
	c.order = append(c.order, p.ID)
	return *l
}

func (c *Cart) Remove(lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pid, ok := c.byLine[lineID]
	if !ok {
		return ErrLineNotFound
	}
	delete(c.byLine, lineID)
	delete(c.lines, pid)
	for i, id := range c.order {
		if id == pid {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetQuantity stores qty, raised to 1 if lower.
func (c *Cart) SetQuantity(lineID string, qty int) (Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pid, ok := c.byLine[lineID]
	if !ok {
		return Line{}, ErrLineNotFound
	}
	if qty < 1 {
		qty = 1
	}
	l := c.lines[pid]
	l.Quantity = qty
	return *l, nil
}

// SetQuantityInput accepts raw text from a quantity field. Anything that is
// not a number counts as 1; fractions are truncated.
func (c *Cart) SetQuantityInput(lineID, input string) (Line, error) {
	return c.SetQuantity(lineID, parseQuantity(input))
}

func parseQuantity(input string) int {
	s := strings.TrimSpace(input)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
		return 1
	}
	return int(f)
}

// Total is the sum of line subtotals. The delivery fee is not included.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := decimal.Zero
	for _, pid := range c.order {
		sum = sum.Add(c.lines[pid].Subtotal())
	}
	return sum
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, 0, len(c.order))
	for _, pid := range c.order {
		out = append(out, *c.lines[pid])
	}
	return out
}

// Snapshot converts the lines into order lines for placement.
func (c *Cart) Snapshot() []domain.OrderLine {
	lines := c.Lines()
	out := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Category:    l.Category,
			Price:       l.Price,
			Quantity:    l.Quantity,
			ImageURL:    l.ImageURL,
		})
	}
	return out
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = nil
	c.lines = map[uint64]*Line{}
	c.byLine = map[string]uint64{}
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
