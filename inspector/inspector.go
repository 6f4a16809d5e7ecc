// Package inspector is a single-step terminal debugger for the cpu
// package, in the same bubbletea/lipgloss shape as the teacher's own
// step debugger: a model holding the CPU, an Update that advances one
// instruction per keypress, and a View assembled from lipgloss panes.
package inspector

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"z80core/cpu"
)

type model struct {
	cpu    *cpu.CPU
	prevPC uint16
	cycles int
	err    error
}

// New returns a bubbletea program stepping c one instruction at a time.
func New(c *cpu.CPU) *tea.Program {
	return tea.NewProgram(model{cpu: c})
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j", "n":
			m.prevPC = m.cpu.GetPC()
			t, err := m.cpu.Execute()
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.cycles += t
		}
	}
	return m, nil
}

// disasmWindow renders n instructions starting at pc, marking the
// current one.
func (m model) disasmWindow(pc uint16, n int) string {
	var sb strings.Builder
	addr := pc
	for i := 0; i < n; i++ {
		mnemonic, operands, length := m.cpu.Disassemble(addr)
		marker := "  "
		if addr == m.cpu.GetPC() {
			marker = "> "
		}
		if operands == "" {
			fmt.Fprintf(&sb, "%s%04x  %s\n", marker, addr, mnemonic)
		} else {
			fmt.Fprintf(&sb, "%s%04x  %s %s\n", marker, addr, mnemonic, operands)
		}
		addr += uint16(length)
	}
	return sb.String()
}

func (m model) status() string {
	return fmt.Sprintf("%s\ncycles: %d\nprev pc: %04x", m.cpu.String(), m.cycles, m.prevPC)
}

func (m model) View() string {
	left := m.disasmWindow(m.cpu.GetPC(), 12)
	right := m.status()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	footer := spew.Sdump(m.cpu)
	if m.err != nil {
		footer = fmt.Sprintf("error: %s\n%s", m.err, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
}
