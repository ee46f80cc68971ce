package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marketswarm/internal/app"
	"marketswarm/internal/config"
	"marketswarm/internal/frames"
	"marketswarm/internal/loop"
	"marketswarm/internal/playback"
	"marketswarm/internal/render"
	"marketswarm/internal/telegram"
)

type runFlags struct {
	data    string
	record  string
	sectors string
	company string
	lo, hi  int
	speed   float64
	share   bool
}

func runCmd(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) error {
	var rf runFlags
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&rf.data, "data", cfg.DatasetPath, "dataset JSON file; the sqlite store is used when empty")
	fs.StringVar(&rf.record, "record", "", "write msgpack position frames to this file")
	fs.StringVar(&rf.sectors, "sectors", "", "comma-separated sectors to select")
	fs.StringVar(&rf.company, "company", "", "ticker shown in the OHLC chart and details table")
	fs.IntVar(&rf.lo, "from", 0, "first plotted period")
	fs.IntVar(&rf.hi, "to", 0, "end of plotted periods, exclusive; 0 for the whole chart")
	fs.Float64Var(&rf.speed, "speed", cfg.PlaybackSeconds, "seconds for one pass over the chart")
	fs.BoolVar(&rf.share, "share", cfg.ShareEnabled(), "post snapshots to Telegram")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, err := loadDataset(cfg, log, rf.data)
	if err != nil {
		return err
	}
	log.Info().Int("companies", len(ds)).Int("periods", ds.ChartLen()).Msg("dataset loaded")

	if !slices.Contains(playback.Speeds, rf.speed) {
		log.Warn().Float64("speed", rf.speed).Floats64("presets", playback.Speeds).Msg("speed is not a preset")
	}
	settings := app.DefaultSettings()
	settings.PlaybackSeconds = rf.speed
	settings.Beeswarm.Tick = cfg.SimTick
	settings.Beeswarm.Sim.Seed = cfg.Seed

	ctx, cancel := context.WithTimeout(ctx, cfg.RunFor)
	defer cancel()

	lp := loop.New(log)
	st, err := app.New(ds, lp, settings, log)
	if err != nil {
		return err
	}
	defer st.Close()
	var runErr error
	st.Store.OnError(func(err error) {
		if runErr == nil {
			runErr = err
		}
		cancel()
	})

	views, err := newViews(st, settings, log)
	if err != nil {
		return err
	}
	if err := applySelection(st, rf); err != nil {
		return err
	}

	views.swarm.Start(lp)
	defer views.swarm.Stop()

	if rf.record != "" {
		f, err := os.Create(rf.record)
		if err != nil {
			return err
		}
		defer f.Close()
		rec := frames.NewRecorder(f)
		task := lp.Every(cfg.SimTick, func() {
			if err := rec.Record(st.Index.Get(), views.swarm.Sim().Positions()); err != nil {
				st.Store.Fail(err)
			}
		})
		defer func() {
			task.Stop()
			if err := rec.Flush(); err != nil {
				log.Error().Err(err).Msg("frames: flush failed")
			}
			log.Info().Int("frames", rec.Frames()).Str("path", rf.record).Msg("frames recorded")
		}()
	}

	if err := st.Play(); err != nil {
		return err
	}
	log.Info().Dur("for", cfg.RunFor).Dur("step", st.Frequency()).Msg("playing")
	if err := lp.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}
	if runErr != nil {
		return runErr
	}
	log.Info().Int("index", st.Index.Get()).Time("date", st.Date.Get()).Int("sim_ticks", views.swarm.Sim().Ticks()).Msg("run finished")

	snaps, err := views.snapshots(st)
	if err != nil {
		return err
	}
	if err := writeSnapshots(cfg.SnapshotDir, snaps, log); err != nil {
		return err
	}
	if !rf.share {
		return nil
	}
	if !cfg.ShareEnabled() {
		return errors.New("run: -share needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
	}
	sharer, err := telegram.NewSharer(cfg.TelegramToken, cfg.TelegramChatID, log)
	if err != nil {
		return err
	}
	return shareSnapshots(sharer, snaps, views.table)
}

func applySelection(st *app.State, rf runFlags) error {
	if rf.sectors != "" {
		var secs []string
		for _, s := range strings.Split(rf.sectors, ",") {
			if s = strings.TrimSpace(s); s != "" {
				secs = append(secs, s)
			}
		}
		if err := st.SelectSectors(secs...); err != nil {
			return err
		}
	}
	if err := st.SelectCompany(rf.company); err != nil {
		return err
	}
	if rf.lo != 0 || rf.hi != 0 {
		hi := rf.hi
		if hi == 0 {
			hi = st.Data.Get().ChartLen()
		}
		return st.SetPlottedRange(rf.lo, hi)
	}
	return nil
}

type viewSet struct {
	swarm *app.Beeswarm
	line  *app.LineChart
	ohlc  *app.OHLC
	table *app.Table
}

func newViews(st *app.State, settings app.Settings, log zerolog.Logger) (*viewSet, error) {
	swarm, err := app.NewBeeswarm(st, settings.Beeswarm, log)
	if err != nil {
		return nil, err
	}
	line, err := app.NewLineChart(st, settings.LineChart, log)
	if err != nil {
		return nil, err
	}
	return &viewSet{
		swarm: swarm,
		line:  line,
		ohlc:  app.NewOHLC(st, settings.OHLC, log),
		table: app.NewTable(st),
	}, nil
}

type snapshot struct {
	name    string
	data    []byte
	caption string
	photo   bool
}

func (v *viewSet) snapshots(st *app.State) ([]snapshot, error) {
	date := st.Date.Get().Format("Jan 02, 2006")
	r := st.IndexPlottedRange.Get()
	var out []snapshot

	var buf bytes.Buffer
	if err := render.Beeswarm(&buf, v.swarm); err != nil {
		return nil, fmt.Errorf("render beeswarm: %w", err)
	}
	out = append(out, snapshot{name: "beeswarm.svg", data: buf.Bytes(), caption: "Beeswarm • " + date})

	img, err := render.LineChart(v.line, "Percent change")
	if err != nil {
		return nil, err
	}
	out = append(out, snapshot{name: "linechart.png", data: img, caption: "Percent change • " + date, photo: true})

	img, err = render.SectorComposites(st.Data.Get(), r.Lo, r.Hi)
	if err != nil {
		return nil, err
	}
	out = append(out, snapshot{name: "composites.png", data: img, caption: "Sector composites", photo: true})

	img, err = render.SectorShare(st.Data.Get())
	if err != nil {
		return nil, err
	}
	out = append(out, snapshot{name: "sectors.png", data: img, caption: "Market cap by sector", photo: true})

	if c, ok := v.ohlc.Company(); ok {
		var ob bytes.Buffer
		if err := render.OHLC(&ob, v.ohlc); err != nil {
			return nil, fmt.Errorf("render ohlc: %w", err)
		}
		out = append(out, snapshot{name: strings.ToLower(c.Ticker) + "_ohlc.svg", data: ob.Bytes(), caption: c.Ticker + " OHLC"})
	}
	return out, nil
}

func writeSnapshots(dir string, snaps []snapshot, log zerolog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, s := range snaps {
		path := filepath.Join(dir, s.name)
		if err := os.WriteFile(path, s.data, 0o644); err != nil {
			return err
		}
		log.Info().Str("path", path).Int("bytes", len(s.data)).Msg("snapshot written")
	}
	return nil
}

func shareSnapshots(s *telegram.Sharer, snaps []snapshot, table *app.Table) error {
	for _, snap := range snaps {
		var err error
		if snap.photo {
			err = s.SharePhoto(snap.name, snap.data, snap.caption)
		} else {
			err = s.ShareDocument(snap.name, snap.data, snap.caption)
		}
		if err != nil {
			return err
		}
		time.Sleep(120 * time.Millisecond)
	}
	rows := table.Rows()
	if len(rows) == 0 {
		return nil
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "*%s*: %s\n", r.Label, r.Value)
	}
	return s.ShareText(b.String())
}
