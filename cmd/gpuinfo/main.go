// Command gpuinfo selects a GPU adapter, opens a device on it and prints
// what it found.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/gpuhub"
	"github.com/gogpu/gpuhub/backend"
	"github.com/gogpu/gpuhub/backend/wgpu"
	"github.com/gogpu/gpuhub/metrics"
)

type config struct {
	power   gpuhub.PowerPreference
	aniso   bool
	list    bool
	verbose bool
	metrics string
}

func main() {
	var (
		power   = flag.String("power", "default", "power preference: default, low or high")
		aniso   = flag.Bool("aniso", false, "request anisotropic filtering")
		list    = flag.Bool("list", false, "list every adapter before selecting one")
		verbose = flag.Bool("v", false, "debug logging on stderr")
		addr    = flag.String("metrics", "", "serve Prometheus metrics on this address until interrupted")
		name    = flag.String("backend", "", "backend to use; empty picks the first available")
	)
	flag.Parse()

	pref, err := gpuhub.ParsePowerPreference(*power)
	if err != nil {
		log.Fatal(err)
	}
	cfg := config{power: pref, aniso: *aniso, list: *list, verbose: *verbose, metrics: *addr}

	if cfg.verbose {
		gpuhub.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	b, err := openBackend(*name)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(cfg, b, os.Stdout); err != nil {
		log.Fatalf("gpuinfo: %v (status: %v)", err, gpuhub.StatusOf(err))
	}
}

// openBackend returns the named backend, or the default one when name is
// empty.
func openBackend(name string) (gpuhub.Backend, error) {
	if name == "" {
		return backend.Default()
	}
	return backend.Get(name)
}

func run(cfg config, b gpuhub.Backend, w io.Writer) error {
	hub, err := gpuhub.New(b, gpuhub.WithApplication("gpuinfo", 1))
	if err != nil {
		return err
	}
	defer hub.Close()

	inst, err := hub.CreateInstance()
	if err != nil {
		return err
	}

	if cfg.list {
		infos, err := hub.EnumerateAdapters(inst)
		if err != nil {
			return err
		}
		for i, info := range infos {
			fmt.Fprintf(w, "adapter %d: %s\n", i, wgpu.NewGPUInfo(info))
		}
	}

	adapter, err := hub.GetAdapter(inst, &gpuhub.AdapterDescriptor{PowerPreference: cfg.power})
	if err != nil {
		return err
	}
	info, err := hub.AdapterInfo(adapter)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "selected (%v): %s\n", cfg.power, wgpu.NewGPUInfo(info))

	device, err := hub.CreateDevice(adapter, &gpuhub.DeviceDescriptor{
		Label:      "gpuinfo",
		Extensions: gpuhub.Extensions{AnisotropicFiltering: cfg.aniso},
	})
	if err != nil {
		return err
	}
	dinfo, err := hub.DeviceInfo(device)
	if err != nil {
		return err
	}
	printDevice(w, dinfo)

	if cfg.metrics != "" {
		return serveMetrics(cfg.metrics, hub)
	}
	return nil
}

func printDevice(w io.Writer, d gpuhub.DeviceInfo) {
	fmt.Fprintf(w, "device %q: queue family %d, %d queue(s), anisotropic filtering %t\n",
		d.Label, d.QueueFamily, d.QueueCount, d.Extensions.AnisotropicFiltering)
	for i, h := range d.Memory.Heaps {
		fmt.Fprintf(w, "  heap %d: %d MiB, device-local %t\n", i, h.Size>>20, h.DeviceLocal)
	}
	for i, t := range d.Memory.Types {
		fmt.Fprintf(w, "  memory type %d: heap %d, flags %#x\n", i, t.HeapIndex, uint32(t.Properties))
	}
}

// serveMetrics exposes the hub's registry metrics until SIGINT.
func serveMetrics(addr string, hub *gpuhub.Hub) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(hub, nil))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf("serving metrics on http://%s/metrics", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
