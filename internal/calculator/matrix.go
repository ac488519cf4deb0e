package calculator

import (
	"maps"
	"sort"
)

// DebtMatrix maps an ordered (receiver, giver) pair to the amount the giver
// owes the receiver. A participant is never paired with itself.
//
// A DebtMatrix is immutable; the zero value is an empty matrix.
type DebtMatrix struct {
	cells map[string]map[string]float64
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// Get returns how much giver owes receiver.
func (m DebtMatrix) Get(receiver, giver string) float64 {
	return m.cells[receiver][giver]
}

// Len returns the number of populated cells.
func (m DebtMatrix) Len() int {
	n := 0
	for _, row := range m.cells {
		n += len(row)
	}
	return n
}

// Edges returns all populated cells ordered by receiver, then giver.
func (m DebtMatrix) Edges() []DebtEdge {
	edges := make([]DebtEdge, 0, m.Len())
	for receiver, row := range m.cells {
		for giver, amount := range row {
			edges = append(edges, DebtEdge{From: giver, To: receiver, Amount: amount})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].From < edges[j].From
	})
	return edges
}

// Equal reports whether both matrices hold the same cells within Epsilon.
func (m DebtMatrix) Equal(other DebtMatrix) bool {
	for receiver, row := range m.cells {
		for giver, amount := range row {
			if !Equal(amount, other.Get(receiver, giver)) {
				return false
			}
		}
	}
	for receiver, row := range other.cells {
		for giver, amount := range row {
			if !Equal(amount, m.Get(receiver, giver)) {
				return false
			}
		}
	}
	return true
}

func (m DebtMatrix) clone() DebtMatrix {
	cells := make(map[string]map[string]float64, len(m.cells))
	for receiver, row := range m.cells {
		cells[receiver] = maps.Clone(row)
	}
	return DebtMatrix{cells: cells}
}

// add mutates m and must only be called on a matrix owned by the caller.
func (m *DebtMatrix) add(receiver, giver string, amount float64) {
	if receiver == giver {
		return
	}
	if m.cells == nil {
		m.cells = make(map[string]map[string]float64)
	}
	row, ok := m.cells[receiver]
	if !ok {
		row = make(map[string]float64)
		m.cells[receiver] = row
	}
	row[giver] += amount
}
