// Command arena-term is a terminal client for the arena server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/automoto/arena-mp/audio"
	"github.com/automoto/arena-mp/config"
	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/network"
	"github.com/automoto/arena-mp/render/term"
	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
)

const frameInterval = 16 * time.Millisecond

type termClient struct {
	client  *network.Client
	session *network.Session
	engine  *netsync.Engine
	clock   netsync.Clock
	blip    *audio.BlipPlayer

	address  string
	name     string
	nameSent bool
}

func main() {
	configPath := flag.String("config", "", "YAML config file (default $"+config.EnvFile+")")
	addr := flag.String("addr", "", "server address, host:port or ws:// URL")
	name := flag.String("name", "", "player name")
	logPath := flag.String("log", "", "write logs to this file")
	mute := flag.Bool("mute", false, "disable hit sounds")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		log.Fatalf("config: %v", err)
	}
	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	// The screen owns stdout while running.
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if *addr == "" {
		*addr = config.Net.Address
	}
	if *metricsAddr != "" {
		config.Metrics.Addr = *metricsAddr
	}
	settings, err := config.OpenSettings("arena-mp")
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	if saved, err := settings.Load(); err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
	} else {
		config.ApplySaved(saved, name, addr, explicit)
	}
	if *mute {
		config.Audio.Muted = true
	}

	blip := audio.NewBlipPlayer(config.Audio)
	if err := blip.Initialize(); err != nil {
		log.Printf("Audio initialization failed: %v", err)
	}
	defer blip.Close()

	reg := network.NewMetricsRegistry()
	metrics := netsync.NewMetrics(reg)
	network.ServeMetrics(config.Metrics.Addr, reg)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	clock := netsync.NewClock()
	client := network.NewClient(clock, network.OptionsFrom(
		config.Net.UpdateInterval, config.Net.AimInterval, config.Net.ShootCooldown,
		config.Net.InboxSize, config.Net.ReadLimit,
	))
	defer client.Disconnect()

	tc := &termClient{client: client, clock: clock, blip: blip, address: *addr, name: *name}
	tc.engine = netsync.NewEngine(config.Netcode,
		netsync.WithMetrics(metrics),
		netsync.WithVerbose(config.Debug.Verbose),
		netsync.WithHitHandler(func(h netsync.Hit, local bool) {
			if local {
				tc.blip.Blip()
			}
		}),
	)
	tc.session = network.NewSession(tc.engine, client)
	client.Connect(tc.address)

	tc.run(screen)
}

func (tc *termClient) run(screen tcell.Screen) {
	canvas := term.NewCanvas(screen)
	var input term.Input

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R') {
					tc.reconnect()
					continue
				}
			}
			if input.Handle(ev, canvas, tc.engine.Local().Pose(), tc.session) {
				return
			}

		case <-ticker.C:
			input.Frame(tc.session)
			tc.session.Pump(tc.client)
			res := tc.engine.Tick(tc.clock.Now())
			tc.session.Report(res)
			tc.sendName()

			canvas.Begin(tc.engine.Arena())
			tc.engine.Publish(canvas)
			canvas.Status(tc.status())
			canvas.End()
		}
	}
}

func (tc *termClient) reconnect() {
	state := tc.client.State()
	if state != network.StateDisconnected && state != network.StateError {
		return
	}
	log.Printf("[term] reconnecting to %s", tc.address)
	tc.session.Reset()
	tc.nameSent = false
	tc.client.Connect(tc.address)
}

func (tc *termClient) sendName() {
	if tc.nameSent || tc.name == "" || !tc.session.Welcomed() {
		return
	}
	if err := tc.client.ChangeName(tc.name); err != nil {
		log.Printf("[term] rename failed: %v", err)
	}
	tc.nameSent = true
}

func (tc *termClient) status() string {
	s := tc.engine.Stats()
	line := fmt.Sprintf(" %s | %d players | %d shots | in %s out %s | arrows/click move, space shoots, q quits",
		tc.client.State(), s.Entities, s.Projectiles,
		humanize.Bytes(tc.client.BytesReceived()), humanize.Bytes(tc.client.BytesSent()))
	if msg := tc.session.ServerError(); msg != "" {
		line = " server: " + msg + " |" + line
	}
	if err := tc.client.LastError(); err != nil {
		line = " " + err.Error() + " (r to reconnect) |" + line
	}
	return line
}
