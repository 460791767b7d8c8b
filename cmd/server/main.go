package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	persistlog "voxelsandbox/internal/persistence/log"
	"voxelsandbox/internal/persistence/saves"
	"voxelsandbox/internal/settings"
	"voxelsandbox/internal/sim/catalogs"
	"voxelsandbox/internal/sim/tuning"
	"voxelsandbox/internal/sim/world"
	"voxelsandbox/internal/transport/ws"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "http listen address")
		worldID      = flag.String("world", "world_1", "world id")
		seed         = flag.Int64("seed", 1337, "world seed (used only when starting a fresh world)")
		configDir    = flag.String("configs", "./configs", "config directory")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		settingsPath = flag.String("settings", "", "path to settings.toml (default: <data>/settings.toml)")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite save/event index")
		loadName     = flag.String("load", "", "save name to load at startup (optional)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)
	worldLogger := log.New(os.Stdout, "[world] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	sp := strings.TrimSpace(*settingsPath)
	if sp == "" {
		sp = filepath.Join(*dataDir, "settings.toml")
	}
	userSettings, err := settings.Load(sp)
	if err != nil {
		logger.Fatalf("load settings: %v", err)
	}

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	store, err := saves.New(filepath.Join(worldDir, "saves"), tune.MaxBackups, logger)
	if err != nil {
		logger.Fatalf("open saves: %v", err)
	}

	// Optional: read-model index (save history + events).
	idx, err := openRuntimeIndex(worldDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index backend: upsert catalogs: %v", err)
		}
	}

	w, err := world.New(buildWorldConfig(*worldID, *seed, tune, userSettings), cats)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	w.SetLogger(worldLogger)
	w.SetSaveStore(store)

	eventLog := persistlog.NewEventLogger(worldDir, userSettings.LogEnabled)
	defer eventLog.Close()
	if idx != nil {
		w.SetEventLogger(multiEventLogger{a: eventLog, b: idx})
		w.SetSaveIndex(idx)
	} else {
		w.SetEventLogger(eventLog)
	}

	if name := strings.TrimSpace(*loadName); name != "" {
		ok, msg := w.LoadGame(name)
		if !ok {
			logger.Fatalf("load %s: %s", name, msg)
		}
		logger.Printf("%s", msg)
	}
	logger.Printf("world=%s seed=%d spawn=%v render=%d tick_rate=%d", *worldID, w.Seed(), w.Player().Pos, w.Config().RenderDistance, w.Config().TickRateHz)

	ctx, cancel := signalContext()
	defer cancel()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeMetrics(rw, *worldID, w.Metrics())
		if idx != nil {
			s := idx.Stats()
			fmt.Fprintf(rw, "# HELP voxelsandbox_index_dropped_total Index writes dropped because the queue was full.\n")
			fmt.Fprintf(rw, "# TYPE voxelsandbox_index_dropped_total counter\n")
			fmt.Fprintf(rw, "voxelsandbox_index_dropped_total{kind=%q} %d\n", "save", s.DropSaveTotal)
			fmt.Fprintf(rw, "voxelsandbox_index_dropped_total{kind=%q} %d\n", "event", s.DropEventTotal)
		}
	})
	mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		ctx2, cancel2 := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel2()
		res, err := w.Submit(ctx2, world.Command{Kind: world.CmdState})
		if err != nil {
			http.Error(rw, err.Error(), http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		resp := struct {
			WorldID string             `json:"world_id"`
			Tick    uint64             `json:"tick"`
			Seed    int64              `json:"seed"`
			Player  *world.PlayerView  `json:"player"`
			Metrics world.WorldMetrics `json:"metrics"`
		}{
			WorldID: *worldID,
			Tick:    res.Tick,
			Seed:    res.Seed,
			Player:  res.Player,
			Metrics: w.Metrics(),
		}
		_ = json.NewEncoder(rw).Encode(resp)
	})
	mux.HandleFunc("/admin/v1/save", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			name = w.Config().AutosaveName
		}
		ctx2, cancel2 := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel2()
		res, err := w.Submit(ctx2, world.Command{Kind: world.CmdSave, Name: name})
		if err != nil {
			http.Error(rw, err.Error(), http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		if !res.OK {
			rw.WriteHeader(http.StatusInternalServerError)
		}
		_ = json.NewEncoder(rw).Encode(struct {
			Name    string `json:"name"`
			Tick    uint64 `json:"tick"`
			OK      bool   `json:"ok"`
			Message string `json:"message"`
		}{name, res.Tick, res.OK, res.Message})
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	<-runDone

	// The loop has stopped; the world is safe to touch from here.
	if cfg := w.Config(); cfg.AutosaveEveryTicks > 0 {
		ok, msg := w.SaveGame(cfg.AutosaveName)
		logger.Printf("final save ok=%v: %s", ok, msg)
	}
}

func buildWorldConfig(id string, seed int64, tune tuning.Tuning, s settings.Settings) world.WorldConfig {
	cfg := world.WorldConfig{
		ID:                 id,
		Seed:               seed,
		TickRateHz:         tune.TickRateHz,
		RenderDistance:     tune.RenderDistance,
		EvictMargin:        evictMargin(tune.EvictMargin),
		MaxUpdatesPerTick:  tune.MaxUpdatesPerTick,
		AutosaveEveryTicks: tune.AutosaveEveryTicks,
		PlayerName:         s.PlayerName,
		StarterItems:       tune.StarterItems,
		Gen:                tune.GenParams(),
		Decor:              tune.DecorParams(),
	}
	if s.RenderDistance > 0 {
		cfg.RenderDistance = s.RenderDistance
	}
	if s.TickLimit > 0 && s.TickLimit < cfg.TickRateHz {
		cfg.TickRateHz = s.TickLimit
	}
	if s.AutosaveEveryTicks > 0 {
		cfg.AutosaveEveryTicks = s.AutosaveEveryTicks
	}
	return cfg
}

// evictMargin keeps an explicit zero from tuning.yaml; the world treats 0 as unset.
func evictMargin(n int) int {
	if n == 0 {
		return -1
	}
	return n
}

func writeMetrics(rw http.ResponseWriter, worldID string, m world.WorldMetrics) {
	// Minimal Prometheus exposition format.
	fmt.Fprintf(rw, "# HELP voxelsandbox_world_tick Current world tick.\n")
	fmt.Fprintf(rw, "# TYPE voxelsandbox_world_tick gauge\n")
	fmt.Fprintf(rw, "voxelsandbox_world_tick{world=%q} %d\n", worldID, m.Tick)

	fmt.Fprintf(rw, "# HELP voxelsandbox_world_loaded_chunks Resident chunk count.\n")
	fmt.Fprintf(rw, "# TYPE voxelsandbox_world_loaded_chunks gauge\n")
	fmt.Fprintf(rw, "voxelsandbox_world_loaded_chunks{world=%q} %d\n", worldID, m.LoadedChunks)

	fmt.Fprintf(rw, "# HELP voxelsandbox_world_drops Item drops lying in the world.\n")
	fmt.Fprintf(rw, "# TYPE voxelsandbox_world_drops gauge\n")
	fmt.Fprintf(rw, "voxelsandbox_world_drops{world=%q} %d\n", worldID, m.Drops)

	fmt.Fprintf(rw, "# HELP voxelsandbox_world_monsters Monsters roaming the world.\n")
	fmt.Fprintf(rw, "# TYPE voxelsandbox_world_monsters gauge\n")
	fmt.Fprintf(rw, "voxelsandbox_world_monsters{world=%q} %d\n", worldID, m.Monsters)

	day := 0
	if m.IsDay {
		day = 1
	}
	fmt.Fprintf(rw, "# HELP voxelsandbox_world_is_day 1 during the day, 0 at night.\n")
	fmt.Fprintf(rw, "# TYPE voxelsandbox_world_is_day gauge\n")
	fmt.Fprintf(rw, "voxelsandbox_world_is_day{world=%q} %d\n", worldID, day)

	fmt.Fprintf(rw, "# HELP voxelsandbox_world_queue_depth Command inbox backlog.\n")
	fmt.Fprintf(rw, "# TYPE voxelsandbox_world_queue_depth gauge\n")
	fmt.Fprintf(rw, "voxelsandbox_world_queue_depth{world=%q} %d\n", worldID, m.InboxDepth)

	fmt.Fprintf(rw, "# HELP voxelsandbox_world_commands Commands handled in the last tick.\n")
	fmt.Fprintf(rw, "# TYPE voxelsandbox_world_commands gauge\n")
	fmt.Fprintf(rw, "voxelsandbox_world_commands{world=%q} %d\n", worldID, m.Commands)

	fmt.Fprintf(rw, "# HELP voxelsandbox_world_step_ms Last tick step duration in milliseconds.\n")
	fmt.Fprintf(rw, "# TYPE voxelsandbox_world_step_ms gauge\n")
	fmt.Fprintf(rw, "voxelsandbox_world_step_ms{world=%q} %.3f\n", worldID, m.StepMS)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
