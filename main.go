package main

import (
	"flag"
	"log"

	"github.com/automoto/arena-mp/config"
	"github.com/automoto/arena-mp/fonts"
	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/network"
	"github.com/automoto/arena-mp/scenes"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
	Layout() (int, int)
}

type Game struct {
	scene Scene
}

func NewGame(scene Scene) *Game {
	return &Game{scene: scene}
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	return g.scene.Layout()
}

func main() {
	configPath := flag.String("config", "", "YAML config file (default $"+config.EnvFile+")")
	addr := flag.String("addr", "", "server address, host:port or ws:// URL")
	name := flag.String("name", "", "player name")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address")
	verbose := flag.Bool("verbose", false, "log entity lifecycle changes")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		log.Fatalf("config: %v", err)
	}
	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if *verbose {
		config.Debug.Verbose = true
	}
	if *metricsAddr != "" {
		config.Metrics.Addr = *metricsAddr
	}
	if *addr == "" {
		*addr = config.Net.Address
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
	if explicit["name"] || explicit["addr"] {
		if err := settings.Save(&config.SavedSettings{PlayerName: *name, ServerAddress: *addr, Muted: config.Audio.Muted}); err != nil {
			log.Printf("Warning: Could not save settings: %v", err)
		}
	}

	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("fonts: %v", err)
	}

	reg := network.NewMetricsRegistry()
	metrics := netsync.NewMetrics(reg)
	network.ServeMetrics(config.Metrics.Addr, reg)

	clock := netsync.NewClock()
	client := network.NewClient(clock, network.OptionsFrom(
		config.Net.UpdateInterval, config.Net.AimInterval, config.Net.ShootCooldown,
		config.Net.InboxSize, config.Net.ReadLimit,
	))
	defer client.Disconnect()

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle(config.C.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	scene := scenes.NewArenaScene(client, clock, metrics, *addr, *name)
	if err := ebiten.RunGame(NewGame(scene)); err != nil {
		log.Fatal(err)
	}
}
