package scenes

import (
	"log"
	"sync"
	"time"

	cfg "github.com/automoto/arena-mp/config"
	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/network"
	"github.com/automoto/arena-mp/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ArenaScene is the online arena: it owns the sync engine for one server
// connection and draws the synchronized world.
type ArenaScene struct {
	ecs     *ecs.ECS
	client  *network.Client
	session *network.Session
	engine  *netsync.Engine
	clock   netsync.Clock
	metrics *netsync.Metrics
	flash   *systems.ScreenFlash
	once    sync.Once

	address    string
	playerName string
	nameSent   bool
	lastFrame  time.Duration
}

func NewArenaScene(client *network.Client, clock netsync.Clock, metrics *netsync.Metrics, address, playerName string) *ArenaScene {
	return &ArenaScene{
		client:     client,
		clock:      clock,
		metrics:    metrics,
		flash:      &systems.ScreenFlash{},
		address:    address,
		playerName: playerName,
	}
}

func (as *ArenaScene) Update() {
	as.once.Do(as.configure)

	state := as.client.State()
	if (state == network.StateDisconnected || state == network.StateError) && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		log.Printf("[arena] reconnecting to %s", as.address)
		as.session.Reset()
		as.nameSent = false
		as.client.Connect(as.address)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		cfg.Debug.ShowGhosts = !cfg.Debug.ShowGhosts
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		cfg.Audio.Muted = !cfg.Audio.Muted
	}

	if as.session.Welcomed() && !as.nameSent && as.playerName != "" {
		if err := as.client.ChangeName(as.playerName); err != nil {
			log.Printf("[arena] rename failed: %v", err)
		}
		as.nameSent = true
	}

	as.ecs.Update()
}

func (as *ArenaScene) Draw(screen *ebiten.Image) {
	if as.ecs == nil {
		return
	}
	as.ecs.Draw(screen)
}

// Layout reports the arena size once the server has sent it.
func (as *ArenaScene) Layout() (int, int) {
	if as.engine != nil {
		if b := as.engine.Arena(); b.Width > 0 && b.Height > 0 {
			return int(b.Width), int(b.Height)
		}
	}
	return cfg.C.Width, cfg.C.Height
}

func (as *ArenaScene) configure() {
	as.ecs = ecs.NewECS(donburi.NewWorld())
	as.engine = netsync.NewEngine(cfg.Netcode,
		netsync.WithRegistry(netsync.NewRegistryInWorld(as.ecs.World)),
		netsync.WithMetrics(as.metrics),
		netsync.WithVerbose(cfg.Debug.Verbose),
		netsync.WithHitHandler(func(h netsync.Hit, local bool) {
			if local {
				as.flash.Trigger()
				systems.PlayHitSound()
			}
		}),
	)
	as.session = network.NewSession(as.engine, as.client)

	as.ecs.AddSystem(systems.NewNetworkInputSystem(as.session))
	as.ecs.AddSystem(systems.NewNetSyncSystem(as.session, as.client, as.clock))
	as.ecs.AddSystem(as.updateFlash)
	as.ecs.AddRenderer(cfg.Default, systems.DrawArena)
	as.ecs.AddRenderer(cfg.Default, systems.NewNetworkedPlayersRenderer(as.engine))
	as.ecs.AddRenderer(cfg.Default, systems.NewGhostRenderer(as.engine))
	as.ecs.AddRenderer(cfg.Default, as.flash.Draw)
	as.ecs.AddRenderer(cfg.Default, systems.NewNetworkHUD(as.hudStatus))

	as.client.Connect(as.address)
}

func (as *ArenaScene) updateFlash(e *ecs.ECS) {
	now := as.clock.Now()
	if as.lastFrame > 0 {
		as.flash.Advance(now - as.lastFrame)
	}
	as.lastFrame = now
}

func (as *ArenaScene) hudStatus() systems.HUDStatus {
	s := systems.HUDStatus{
		State:       as.client.State().String(),
		BytesIn:     as.client.BytesReceived(),
		BytesOut:    as.client.BytesSent(),
		Sync:        as.engine.Stats(),
		ServerError: as.session.ServerError(),
	}
	if err := as.client.LastError(); err != nil {
		s.Err = err.Error() + " (R to reconnect)"
	}
	return s
}
