package receipt

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultColumns is the receipt width used when none is configured.
const DefaultColumns = 40

// Printer renders receipts as fixed-width text.
type Printer struct {
	columns int
}

// NewPrinter returns a printer for the given width. Non-positive widths fall back to DefaultColumns.
func NewPrinter(columns int) *Printer {
	if columns <= 0 {
		columns = DefaultColumns
	}
	return &Printer{columns: columns}
}

// Print renders items, then discounts, then a blank line and the total.
func (p *Printer) Print(r *Receipt) string {
	var b strings.Builder
	for _, item := range r.Items() {
		p.writeItem(&b, item)
	}
	for _, d := range r.Discounts() {
		p.writeDiscount(&b, d)
	}
	b.WriteString("\n")
	p.writeLine(&b, "Total:", formatPrice(r.Total()))
	return b.String()
}

func (p *Printer) writeItem(b *strings.Builder, item Item) {
	p.writeLine(b, item.Product.Name, formatPrice(item.TotalPrice))
	if item.Quantity != 1 {
		b.WriteString("  ")
		b.WriteString(formatPrice(item.Price))
		b.WriteString(" * ")
		b.WriteString(formatQuantity(item))
		b.WriteString("\n")
	}
}

func (p *Printer) writeDiscount(b *strings.Builder, d Discount) {
	p.writeLine(b, d.Description+" ("+d.Product.Name+")", formatPrice(d.Amount))
}

// writeLine pads left and right to the printer width. When they do not fit,
// left is cut so that one space still separates it from right. A price wider
// than the receipt is printed on its own.
func (p *Printer) writeLine(b *strings.Builder, left, right string) {
	rightLen := utf8.RuneCountInString(right)
	leftLen := utf8.RuneCountInString(left)
	pad := p.columns - leftLen - rightLen
	if pad < 0 && leftLen > 0 {
		keep := max(p.columns-rightLen-1, 0)
		left = truncateRunes(left, keep)
		leftLen = keep
		pad = p.columns - leftLen - rightLen
	}
	b.WriteString(left)
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(right)
	b.WriteString("\n")
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func formatPrice(v float64) string {
	out := strconv.FormatFloat(v, 'f', 2, 64)
	if out == "-0.00" {
		return "0.00"
	}
	return out
}

func formatQuantity(item Item) string {
	if item.Product.SoldByWeight() {
		return strconv.FormatFloat(item.Quantity, 'f', 3, 64)
	}
	return strconv.FormatInt(int64(item.Quantity), 10)
}
