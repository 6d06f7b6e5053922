package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := headerStyle.Render("memtop - MeetiX allocator monitor")

	paneWidth := m.width/2 - 4
	if paneWidth < 30 {
		paneWidth = 30
	}
	left := paneStyle.Width(paneWidth).Render(m.heapPane(paneWidth))
	right := paneStyle.Width(paneWidth).Render(m.objectPane(paneWidth))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.statusBar())
}

func (m Model) heapPane(width int) string {
	supplied := m.allocator.MemoryFromSupplier()
	inUse := m.allocator.MemoryInUse()
	avail := m.allocator.MemoryAvailable()

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Heap"))
	b.WriteString("\n\n")
	writeStat(&b, "From supplier", formatBytes(supplied))
	writeStat(&b, "In use", formatBytes(inUse))
	writeStat(&b, "Available", formatBytes(avail))
	writeStat(&b, "Live blocks", fmt.Sprintf("%d", len(m.live)))
	writeStat(&b, "Allocations", fmt.Sprintf("%d", m.allocOps))
	writeStat(&b, "Frees", fmt.Sprintf("%d", m.freeOps))
	writeStat(&b, "Failures", fmt.Sprintf("%d", m.failures))
	b.WriteString("\n")
	b.WriteString(gauge(inUse, supplied, width-4))
	return b.String()
}

func (m Model) objectPane(width int) string {
	snap := m.kernel.Objects()
	ids := make([]uint32, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Kernel objects"))
	b.WriteString("\n\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-4s %-12s %5s %6s", "ID", "TYPE", "REFS", "NAMED")))
	b.WriteString("\n")

	maxRows := m.height - 12
	if maxRows < 4 {
		maxRows = 4
	}
	for i, id := range ids {
		if i >= maxRows {
			b.WriteString(statLabelStyle.Render(fmt.Sprintf("... %d more", len(ids)-i)))
			break
		}
		info := snap[id]
		row := fmt.Sprintf("%-4d %-12s %5d %6t", id, info.Type, info.RefCount, info.Named)
		if info.Named {
			b.WriteString(namedRowStyle.Render(row))
		} else {
			b.WriteString(tableRowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) statusBar() string {
	state := statValueStyle.Render("running")
	if m.paused {
		state = pausedStyle.Render("paused")
	}
	help := helpStyle.Render("p pause · r reset · q quit")
	return statusStyle.Width(m.width).Render(
		fmt.Sprintf("%s  ticks: %d  %s", state, m.ticks, help))
}

func writeStat(b *strings.Builder, label, value string) {
	b.WriteString(statLabelStyle.Render(fmt.Sprintf("%-14s", label)))
	b.WriteString(statValueStyle.Render(value))
	b.WriteString("\n")
}

// gauge renders in-use memory as a fraction of supplied memory.
func gauge(used, total uintptr, width int) string {
	if width < 10 {
		width = 10
	}
	filled := 0
	if total > 0 {
		filled = int(uintptr(width) * used / total)
		if filled > width {
			filled = width
		}
	}
	return gaugeFillStyle.Render(strings.Repeat("█", filled)) +
		gaugeEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func formatBytes(n uintptr) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
