// Package tui is the interactive terminal front end of the task list.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/editform"
	"tasklist/internal/logging"
	"tasklist/internal/notify"
	"tasklist/internal/service"
	"tasklist/internal/taskclient"
)

type appModel struct {
	ctx    context.Context
	ctl    *taskclient.Controller
	forms  *editform.Forms
	center *notify.Center
	sink   *sink
	log    *logging.Logger

	tasks   []service.Task
	cursor  int
	loading bool
	mode    mode
	layout  layout

	input     textinput.Model
	editInput textinput.Model
	spinner   spinner.Model

	confirmID    int
	confirmFocus confirmFocus

	width  int
	height int
}

func newAppModel(ctx context.Context, svc service.Service, ttl time.Duration, log *logging.Logger) appModel {
	if log == nil {
		log = logging.NopLogger()
	}
	s := &sink{}
	center := notify.NewCenter(ttl)

	in := textinput.New()
	in.Placeholder = "What needs to be done?"
	in.Prompt = "+ "
	in.CharLimit = 500

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return appModel{
		ctx:    ctx,
		center: center,
		forms:  editform.New(),
		sink:   s,
		log:    log.WithComponent("tui"),
		ctl: taskclient.New(svc, programNotifier{center: center, s: s},
			taskclient.WithView(programView{s: s}),
			taskclient.WithLogger(log),
		),
		input:     in,
		editInput: edit,
		spinner:   sp,
	}
}

// Run starts the interactive UI and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, svc service.Service, ttl time.Duration, log *logging.Logger) error {
	applyColorProfilePreference()

	m := newAppModel(ctx, svc, ttl, log)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.sink.set(p.Send)

	_, err := p.Run()
	return err
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(opFetch, 0, ""))
}

// run performs a controller call off the event loop. View updates arrive
// separately through the sink; the returned message only reports the outcome.
func (m appModel) run(o op, id int, text string) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		var err error
		switch o {
		case opFetch:
			err = ctl.FetchAll(ctx)
		case opRefresh:
			err = ctl.Refresh(ctx)
		case opCreate:
			_, err = ctl.Create(ctx, text)
		case opUpdate:
			_, err = ctl.Update(ctx, id, text)
		case opDelete:
			err = ctl.Remove(ctx, id, taskclient.Confirmed)
		}
		return opDoneMsg{op: o, id: id, text: text, err: err}
	}
}

func (m appModel) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func expireAfter(ttl time.Duration, id string) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg { return noteExpiredMsg{id: id} })
}
