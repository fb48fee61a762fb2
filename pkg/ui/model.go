// Package ui is the interactive explorer for a dynamic tree session: a
// ring-grouped graph view with a depth control, the alternative-paths
// explorer, fuzzy jump-to-node, and snapshot export.
package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/careermap/pathview/pkg/export"
	"github.com/careermap/pathview/pkg/loader"
	"github.com/careermap/pathview/pkg/model"
	"github.com/careermap/pathview/pkg/persist"
	"github.com/careermap/pathview/pkg/search"
	"github.com/careermap/pathview/pkg/store"
)

// depthApplyMsg lands after the debounce window; stale sequence numbers are
// dropped so a burst of depth keys causes one recalculation.
type depthApplyMsg struct {
	seq   int
	depth int
}

// ReloadMsg replaces the session's source tree, typically because the
// payload file changed on disk. The graph must already be converted.
type ReloadMsg struct {
	Graph   model.FlowGraph
	Profile string
}

// statusClearMsg clears a transient status if it is still the latest.
type statusClearMsg struct{ seq int }

// Model is the bubbletea model for a visualization session.
type Model struct {
	session *store.Store
	db      *persist.DB // optional, nil disables notes/saving
	title   string

	debounce    time.Duration
	depthSeq    int
	targetDepth int // pending debounced depth, 0 when none

	exportDir string

	width  int
	height int

	viewport  viewport.Model
	nodeOrder []string // node IDs in display order
	selected  int

	searching   bool
	searchInput textinput.Model
	matches     []search.Match

	noteEditing bool
	noteInput   textinput.Model

	showHelp bool

	status    string
	statusSeq int
}

// NewModel builds the UI around an initialized session. exportDir is where
// snapshot files land.
func NewModel(session *store.Store, db *persist.DB, title, exportDir string, debounce time.Duration) Model {
	si := textinput.New()
	si.Placeholder = "jump to node"
	si.CharLimit = 64

	ni := textinput.New()
	ni.Placeholder = "note for this node"
	ni.CharLimit = 200

	m := Model{
		session:     session,
		db:          db,
		title:       title,
		exportDir:   exportDir,
		debounce:    debounce,
		viewport:    viewport.New(80, 20),
		searchInput: si,
		noteInput:   ni,
	}
	m.refreshNodeOrder()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// refreshNodeOrder rebuilds the display order (ring by ring, graph order
// within a ring) after the current graph is replaced.
func (m *Model) refreshNodeOrder() {
	g := m.session.CurrentGraph()
	m.nodeOrder = m.nodeOrder[:0]
	for depth := 0; depth <= g.MaxDepth(); depth++ {
		for i := range g.Nodes {
			if g.Nodes[i].Depth == depth {
				m.nodeOrder = append(m.nodeOrder, g.Nodes[i].ID)
			}
		}
	}
	if m.selected >= len(m.nodeOrder) {
		m.selected = 0
	}
}

// selectedNode returns the currently highlighted node, or nil.
func (m *Model) selectedNode() *model.FlowNode {
	if m.selected < 0 || m.selected >= len(m.nodeOrder) {
		return nil
	}
	return m.session.CurrentGraph().NodeByID(m.nodeOrder[m.selected])
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		return m, nil

	case depthApplyMsg:
		if msg.seq != m.depthSeq {
			return m, nil
		}
		m.targetDepth = 0
		if err := m.session.UpdateDepth(msg.depth); err != nil {
			return m.flash(err.Error())
		}
		m.refreshNodeOrder()
		return m, nil

	case ReloadMsg:
		m.session.Cleanup()
		if err := m.session.InitializeTree(msg.Graph, msg.Profile); err != nil {
			return m.flash(fmt.Sprintf("reload failed: %v", err))
		}
		m.selected = 0
		m.refreshNodeOrder()
		return m.flash("source tree reloaded")

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.noteEditing {
		return m.handleNoteKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < len(m.nodeOrder)-1 {
			m.selected++
		}
		return m, nil

	case "+", "right":
		return m.scheduleDepth(m.displayDepth() + 1)

	case "-", "left":
		return m.scheduleDepth(m.displayDepth() - 1)

	case "a":
		if err := m.session.ToggleAlternativePathsExplorer(); err != nil {
			return m.flash(err.Error())
		}
		if err := m.session.TriggerRecalculation(false); err != nil {
			return m.flash(err.Error())
		}
		m.refreshNodeOrder()
		return m, nil

	case "1", "2", "3", "4", "5":
		idx := int(msg.String()[0] - '1')
		alts := m.session.AlternativePaths()
		if idx >= len(alts) {
			return m.flash("no such alternative path")
		}
		if err := m.session.SelectAlternativePath(alts[idx]); err != nil {
			return m.flash(err.Error())
		}
		m.refreshNodeOrder()
		return m.flash(fmt.Sprintf("showing %s", alts[idx].Name))

	case "r":
		if err := m.session.ResetToOriginal(); err != nil {
			return m.flash(err.Error())
		}
		m.refreshNodeOrder()
		return m.flash("restored original tree")

	case "t":
		if err := m.session.TriggerRecalculation(true); err != nil {
			return m.flash(err.Error())
		}
		m.refreshNodeOrder()
		return m, nil

	case "m":
		enabled := !m.session.AutoRecalculationEnabled()
		if err := m.session.EnableAutoRecalculation(enabled); err != nil {
			return m.flash(err.Error())
		}
		if enabled {
			return m.flash("auto-recalculation on")
		}
		return m.flash("auto-recalculation off")

	case "e":
		if err := m.session.ClearError(); err != nil {
			return m.flash(err.Error())
		}
		return m, nil

	case "c":
		if n := m.selectedNode(); n != nil {
			if err := clipboard.WriteAll(n.ID); err != nil {
				return m.flash("clipboard unavailable")
			}
			return m.flash(fmt.Sprintf("copied %s", n.ID))
		}
		return m, nil

	case "s":
		return m.exportSnapshot()

	case "S":
		return m.saveTree()

	case "/":
		m.searching = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.matches = nil
		return m, textinput.Blink

	case "n":
		if m.db == nil {
			return m.flash("notes disabled (no database)")
		}
		n := m.selectedNode()
		if n == nil {
			return m, nil
		}
		existing, err := m.db.GetNote(n.ID)
		if err != nil {
			return m.flash(err.Error())
		}
		m.noteEditing = true
		m.noteInput.SetValue(existing)
		m.noteInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// scheduleDepth coalesces rapid depth keys: the target depth shows in the
// header right away, but the store command fires once the burst settles.
func (m Model) scheduleDepth(depth int) (tea.Model, tea.Cmd) {
	if depth < 1 {
		depth = 1
	}
	if depth > m.session.MaxDepth() {
		depth = m.session.MaxDepth()
	}
	m.targetDepth = depth
	m.depthSeq++
	seq := m.depthSeq
	return m, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return depthApplyMsg{seq: seq, depth: depth}
	})
}

// displayDepth is the depth shown in the header: the pending debounced
// target when one exists, else the applied parameter.
func (m Model) displayDepth() int {
	if m.targetDepth != 0 {
		return m.targetDepth
	}
	return m.session.Parameters().Depth
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		if len(m.matches) > 0 {
			m.jumpTo(m.matches[0].Node.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	idx := search.NewIndex(m.session.CurrentGraph())
	m.matches = idx.Search(m.searchInput.Value(), 5)
	return m, cmd
}

func (m Model) handleNoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.noteEditing = false
		m.noteInput.Blur()
		return m, nil
	case "enter":
		m.noteEditing = false
		m.noteInput.Blur()
		n := m.selectedNode()
		if n == nil {
			return m, nil
		}
		if err := m.db.SaveNote(n.ID, m.noteInput.Value()); err != nil {
			return m.flash(err.Error())
		}
		return m.flash("note saved")
	}

	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return m, cmd
}

// jumpTo moves the selection to the node with the given ID.
func (m *Model) jumpTo(id string) {
	for i, nodeID := range m.nodeOrder {
		if nodeID == id {
			m.selected = i
			return
		}
	}
}

// exportSnapshot writes SVG and JSON snapshots of the current graph.
func (m Model) exportSnapshot() (tea.Model, tea.Cmd) {
	opts := export.SnapshotOptions{
		Graph: m.session.CurrentGraph(),
		Title: m.title,
		Paths: m.session.AlternativePaths(),
	}
	stamp := time.Now().Format("20060102-150405")
	outs := []string{
		filepath.Join(m.exportDir, fmt.Sprintf("pathview-%s.svg", stamp)),
		filepath.Join(m.exportDir, fmt.Sprintf("pathview-%s.json", stamp)),
	}
	if err := export.SaveAll(opts, outs...); err != nil {
		return m.flash(fmt.Sprintf("export failed: %v", err))
	}
	return m.flash(fmt.Sprintf("exported to %s", m.exportDir))
}

// saveTree rebuilds the hierarchical form of the currently shown graph and
// stores it in the database.
func (m Model) saveTree() (tea.Model, tea.Cmd) {
	if m.db == nil {
		return m.flash("saving disabled (no database)")
	}
	tree, err := loader.RebuildTree(m.session.CurrentGraph())
	if err != nil {
		return m.flash(fmt.Sprintf("save failed: %v", err))
	}
	name := fmt.Sprintf("%s %s", m.title, time.Now().Format("2006-01-02 15:04"))
	id, err := m.db.SaveTree(name, "career", m.session.Profile(), tree)
	if err != nil {
		return m.flash(fmt.Sprintf("save failed: %v", err))
	}
	return m.flash(fmt.Sprintf("saved tree #%d", id))
}

// flash shows a transient status message.
func (m Model) flash(text string) (tea.Model, tea.Cmd) {
	m.status = text
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}
