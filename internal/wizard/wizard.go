// Package wizard is the interactive terminal flow for one calculation:
// law system, deceased, heirs, estate, result. Each step is validated before
// the next one opens.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"inheritance-engine/internal/casefile"
	"inheritance-engine/internal/engine"
	"inheritance-engine/internal/model"
	"inheritance-engine/internal/report"
	"inheritance-engine/internal/validation"
)

type Step int

const (
	StepLaw Step = iota
	StepDeceased
	StepHeirs
	StepEstate
	StepResult
)

var stepTitles = map[Step]string{
	StepLaw:      "1/5 Sistem hukum",
	StepDeceased: "2/5 Data pewaris",
	StepHeirs:    "3/5 Ahli waris",
	StepEstate:   "4/5 Harta",
	StepResult:   "5/5 Hasil",
}

type question struct {
	prompt      string
	placeholder string
}

var stepQuestions = map[Step][]question{
	StepLaw: {
		{"Sistem hukum", "islam atau perdata"},
	},
	StepDeceased: {
		{"Nama pewaris", "Budi"},
		{"Jenis kelamin", "male atau female"},
		{"Status perkawinan", "married, widowed, divorced atau single"},
	},
	StepHeirs: {
		{"Ahli waris", "hubungan[:jumlah[:nama]]; ... contoh spouse:1:Siti; son:2"},
	},
	StepEstate: {
		{"Total harta", "120.000.000"},
		{"Utang", "0"},
		{"Biaya pemakaman", "0"},
		{"Wasiat", "0"},
	},
}

type Model struct {
	calc   *engine.Calculator
	step   Step
	idx    int
	inputs []textinput.Model
	input  model.InheritanceInput
	errs   []string
	result *model.InheritanceResult
	done   bool
}

func New(calc *engine.Calculator) Model {
	m := Model{calc: calc}
	m.open(StepLaw)
	return m
}

func (m *Model) open(step Step) {
	m.step = step
	m.idx = 0
	qs := stepQuestions[step]
	m.inputs = make([]textinput.Model, len(qs))
	for i, q := range qs {
		ti := textinput.New()
		ti.Placeholder = q.placeholder
		ti.CharLimit = 512
		m.inputs[i] = ti
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m Model) Step() Step { return m.step }

func (m Model) Errors() []string { return m.errs }

func (m Model) Input() model.InheritanceInput { return m.input }

func (m Model) Result() *model.InheritanceResult { return m.result }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.step == StepResult {
				m.done = true
				return m, tea.Quit
			}
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.submit()
			return m, textinput.Blink
		}
	}
	if m.step == StepResult || len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

// submit applies the answers of the current step and advances when the step
// validator accepts them. On errors the step restarts at its first question.
func (m *Model) submit() {
	values := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		values[i] = strings.TrimSpace(in.Value())
	}

	var errs []string
	switch m.step {
	case StepLaw:
		m.input.LawSystem = model.LawSystem(strings.ToLower(values[0]))
		errs = validation.LawSystem(m.input)
	case StepDeceased:
		m.input.Deceased = model.DeceasedInfo{
			Name:          values[0],
			Gender:        model.Gender(strings.ToLower(values[1])),
			MaritalStatus: model.MaritalStatus(strings.ToLower(values[2])),
		}
		errs = validation.Deceased(m.input)
	case StepHeirs:
		heirs, err := ParseHeirs(values[0], m.input.Deceased.Gender)
		if err != nil {
			errs = []string{err.Error()}
			break
		}
		m.input.Heirs = heirs
		errs = validation.Heirs(m.input)
	case StepEstate:
		amounts := make([]int64, len(values))
		for i, v := range values {
			n, err := ParseAmount(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", stepQuestions[StepEstate][i].prompt, err))
			}
			amounts[i] = n
		}
		if len(errs) > 0 {
			break
		}
		m.input.TotalEstate, m.input.Debts, m.input.FuneralCosts, m.input.Wasiat = amounts[0], amounts[1], amounts[2], amounts[3]
		errs = validation.Estate(m.input)
	}

	m.errs = errs
	if len(errs) > 0 {
		m.inputs[m.idx].Blur()
		m.idx = 0
		m.inputs[0].Focus()
		return
	}

	if m.step == StepEstate {
		res, err := m.calc.Calculate(m.input)
		if err != nil {
			m.errs = []string{err.Error()}
			return
		}
		m.result = res
		m.step = StepResult
		m.inputs = nil
		return
	}
	m.open(m.step + 1)
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Kalkulator Waris - %s\n\n", stepTitles[m.step])
	if m.step == StepResult {
		b.WriteString(report.RenderText(m.result))
		b.WriteString("\nTekan Enter untuk keluar.\n")
		return b.String()
	}
	for i, q := range stepQuestions[m.step] {
		if i > m.idx {
			break
		}
		fmt.Fprintf(&b, "%s: %s\n", q.prompt, m.inputs[i].View())
	}
	if m.step == StepHeirs {
		names := make([]string, len(model.Relations))
		for i, r := range model.Relations {
			names[i] = string(r)
		}
		fmt.Fprintf(&b, "\nHubungan: %s\n", strings.Join(names, ", "))
	}
	if len(m.errs) > 0 {
		b.WriteString("\n")
		for _, e := range m.errs {
			b.WriteString("! " + e + "\n")
		}
	}
	b.WriteString("\nEnter: lanjut  Esc: batal\n")
	return b.String()
}

// ParseHeirs reads "relation[:count[:name]]" entries separated by semicolons.
// Genders follow from the relation; every heir is alive.
func ParseHeirs(s string, deceased model.Gender) ([]model.Heir, error) {
	var heirs []model.Heir
	for i, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		h := model.Heir{
			ID:       casefile.NewID(),
			Relation: model.Relation(strings.ToLower(strings.TrimSpace(parts[0]))),
			IsAlive:  true,
			Count:    1,
		}
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, errors.Errorf("Ahli waris %d: jumlah %q bukan angka", i+1, parts[1])
			}
			h.Count = n
		}
		if len(parts) > 2 {
			h.Name = strings.TrimSpace(parts[2])
		}
		if h.Relation.Valid() && deceased.Valid() {
			h.Gender = model.ExpectedGender(h.Relation, deceased)
		}
		heirs = append(heirs, h)
	}
	return heirs, nil
}

// ParseAmount reads a Rupiah amount, accepting "." and "_" as digit
// separators and an optional "Rp" prefix. Empty input is zero.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "Rp"))
	s = strings.NewReplacer(".", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("%q bukan jumlah rupiah yang valid", s)
	}
	return n, nil
}

// Run starts the wizard on the terminal and returns the computed result.
func Run(calc *engine.Calculator) (*model.InheritanceResult, error) {
	p := tea.NewProgram(New(calc))
	final, err := p.Run()
	if err != nil {
		return nil, errors.Wrap(err, "wizard")
	}
	m, ok := final.(Model)
	if !ok || m.result == nil {
		return nil, errors.New("wizard cancelled")
	}
	return m.result, nil
}
