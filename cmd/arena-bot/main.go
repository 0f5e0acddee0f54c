// Command arena-bot is a headless client that wanders the arena and shoots
// at random. It is useful for load and soak testing a server.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/arena-mp/config"
	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/network"
	"github.com/dustin/go-humanize"
)

const frameInterval = 16 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "YAML config file (default $"+config.EnvFile+")")
	addr := flag.String("addr", "", "server address, host:port or ws:// URL")
	name := flag.String("name", "bot", "player name")
	pattern := flag.String("pattern", "", "movement pattern: random or circle")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address")
	verbose := flag.Bool("verbose", false, "log entity lifecycle changes")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr == "" {
		*addr = config.Net.Address
	}
	if *pattern != "" {
		config.Bot.Pattern = config.BotPattern(*pattern)
	}
	if *metricsAddr != "" {
		config.Metrics.Addr = *metricsAddr
	}
	if *verbose {
		config.Debug.Verbose = true
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	reg := network.NewMetricsRegistry()
	metrics := netsync.NewMetrics(reg)
	if srv := network.ServeMetrics(config.Metrics.Addr, reg); srv != nil {
		defer srv.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := netsync.NewClock()
	client := network.NewClient(clock, network.OptionsFrom(
		config.Net.UpdateInterval, config.Net.AimInterval, config.Net.ShootCooldown,
		config.Net.InboxSize, config.Net.ReadLimit,
	))
	defer client.Disconnect()

	var hits, taken uint64
	engine := netsync.NewEngine(config.Netcode,
		netsync.WithMetrics(metrics),
		netsync.WithVerbose(config.Debug.Verbose),
		netsync.WithHitHandler(func(h netsync.Hit, local bool) {
			if local {
				taken++
			}
			hits++
		}),
	)
	session := network.NewSession(engine, client)
	p := newPilot(config.Bot, *seed)

	log.Printf("[bot] %s connecting to %s (%s pattern)", *name, *addr, config.Bot.Pattern)
	client.Connect(*addr)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	report := time.NewTicker(config.Bot.ReportInterval)
	defer report.Stop()

	var nameSent bool
	last := clock.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[bot] shutting down")
			return

		case <-ticker.C:
			now := clock.Now()
			dt := now - last
			last = now

			session.Pump(client)
			if session.Welcomed() && !nameSent {
				if err := client.ChangeName(*name); err != nil {
					log.Printf("[bot] rename failed: %v", err)
				}
				nameSent = true
			}

			if local := engine.Local(); local.Ready() {
				x, y, shoot := p.Step(dt, engine.Arena())
				pose := local.Pose()
				session.MoveTo(x, y)
				if math.Hypot(x-pose.X, y-pose.Y) > 1 {
					session.Aim(math.Atan2(y-pose.Y, x-pose.X))
				}
				if shoot {
					session.Shoot()
				}
			}
			session.Report(engine.Tick(now))

		case <-report.C:
			var c census
			engine.Publish(&c)
			s := engine.Stats()
			log.Printf("[bot] %s players=%d remote=%d flashing=%d shots=%d snapshots=%s discarded=%s corrections=%s hits=%d taken=%d in=%s out=%s",
				client.State(), c.players, c.remote, c.flashed, s.Projectiles,
				humanize.Comma(int64(s.Snapshots)), humanize.Comma(int64(s.Discarded)), humanize.Comma(int64(s.Corrections)),
				hits, taken,
				humanize.Bytes(client.BytesReceived()), humanize.Bytes(client.BytesSent()))
			if state := client.State(); state == network.StateDisconnected || state == network.StateError {
				log.Printf("[bot] connection lost (%v), reconnecting", client.LastError())
				session.Reset()
				nameSent = false
				client.Connect(*addr)
			}
		}
	}
}
