package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"empgrid/internal/config"
	"empgrid/internal/grid"
	"empgrid/internal/model"
	"empgrid/internal/parse"
	"empgrid/internal/source"
	"empgrid/internal/util/logx"
)

func initialModel(ctx context.Context, cfg *config.Config, seed []model.Employee, src *source.Source) (*Model, error) {
	policy := grid.DiscardOnSwitch
	if cfg.StrictEdit {
		policy = grid.StrictEdit
	}
	g := grid.New(model.NewCollection(), grid.Options{EditPolicy: policy})
	if err := g.Append(seed...); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if err := g.Append(src.Synthesize(cfg.InitialCount, g.Store().NextID())...); err != nil {
		return nil, fmt.Errorf("initial batch: %w", err)
	}
	logx.Infof("grid: seeded %d records (%d synthesized)", g.Len(), cfg.InitialCount)

	m := &Model{
		ctx:       ctx,
		cfg:       cfg,
		grid:      g,
		src:       src,
		loader:    grid.NewLoadMore(cfg.Threshold),
		win:       grid.Windower{RowHeight: cfg.RowHeight, Overscan: cfg.Overscan},
		styles:    NewStyles(cfg.Theme == config.ThemeDark),
		keymap:    DefaultKeyMap(),
		input:     textinput.New(),
		spin:      spinner.New(),
		termWidth: 100,
		// until the first WindowSizeMsg
		termHeight: 30,
		bodyDirty:  true,
	}
	m.spin.Spinner = spinner.Dot
	m.input.CharLimit = 256
	m.modalVP = viewport.New(80, 20)
	m.refreshRows()
	return m, nil
}

func loadSeed(cfg *config.Config) ([]model.Employee, error) {
	if cfg.SeedPath == "" {
		return source.Seed()
	}
	f, err := os.Open(cfg.SeedPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := parse.Records(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.SeedPath, err)
	}
	return recs, nil
}

func Run(ctx context.Context, cfg *config.Config) error {
	seed, err := loadSeed(cfg)
	if err != nil {
		return err
	}
	m, err := initialModel(ctx, cfg, seed, source.NewRandom())
	if err != nil {
		return err
	}
	defer m.dispose()
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if cmd := setupIngest(m); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// dispose cancels background work owned by the model.
func (m *Model) dispose() {
	m.loader.Dispose()
	if m.ingestCancel != nil {
		m.ingestCancel()
		m.ingestCancel = nil
	}
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}
