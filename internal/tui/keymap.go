package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	reload       key.Binding
	toggleHelp   key.Binding
	columnLeft   key.Binding
	columnRight  key.Binding
	ticketUp     key.Binding
	ticketDown   key.Binding
	moveTicket   key.Binding
	editTicket   key.Binding
	search       key.Binding
	filterStatus key.Binding
	startDate    key.Binding
	endDate      key.Binding
	resetFilters key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		columnLeft:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		columnRight:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		ticketUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "ticket up")),
		ticketDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "ticket down")),
		moveTicket:   key.NewBinding(key.WithKeys("m", "enter"), key.WithHelp("m/enter", "move ticket")),
		editTicket:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit ticket")),
		search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		filterStatus: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle status filter")),
		startDate:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "start date")),
		endDate:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "end date")),
		resetFilters: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset filters")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.moveTicket, k.editTicket, k.search, k.filterStatus, k.reload, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.columnLeft, k.columnRight, k.ticketUp, k.ticketDown},
		{k.moveTicket, k.editTicket, k.search, k.filterStatus, k.startDate, k.endDate, k.resetFilters},
		{k.toggleHelp, k.reload, k.quit},
	}
}
