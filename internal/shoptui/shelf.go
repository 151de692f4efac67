package shoptui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/Adnanskuyy/ShoppingABTest/catalog"
)

type productItem struct {
	product catalog.Product
}

func (item productItem) FilterValue() string {
	return item.product.Name
}

type productItemDelegate struct {
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
}

func newProductItemDelegate() productItemDelegate {
	return productItemDelegate{
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")),
	}
}

func (d productItemDelegate) Height() int                             { return 1 }
func (d productItemDelegate) Spacing() int                            { return 0 }
func (d productItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d productItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(productItem)
	if !ok {
		return
	}
	style := d.normalStyle
	if index == m.Index() {
		style = d.selectedStyle
	}
	fmt.Fprint(w, style.Render(formatProductItem(item.product, m.Width())))
}

func formatProductItem(product catalog.Product, width int) string {
	line := fmt.Sprintf("%s  [%s %s]", product.Name, product.Type, product.PriceLabel())
	if width <= 0 {
		return line
	}
	return truncate.StringWithTail(line, uint(width), "...")
}

func newShelf(products []catalog.Product) list.Model {
	items := make([]list.Item, 0, len(products))
	for _, product := range products {
		items = append(items, productItem{product: product})
	}
	shelf := list.New(items, newProductItemDelegate(), 0, 0)
	shelf.Title = "Shelves"
	shelf.SetShowStatusBar(false)
	shelf.SetFilteringEnabled(false)
	shelf.SetShowHelp(false)
	shelf.SetShowPagination(false)
	shelf.KeyMap.Quit.SetEnabled(false)
	shelf.KeyMap.ForceQuit.SetEnabled(false)
	return shelf
}

func selectedProduct(shelf list.Model) (catalog.Product, bool) {
	item, ok := shelf.SelectedItem().(productItem)
	if !ok {
		return catalog.Product{}, false
	}
	return item.product, true
}
